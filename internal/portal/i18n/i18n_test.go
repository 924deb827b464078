package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestDefaultBundleCarriesLoginStrings(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	zh := b.Localizer("")
	require.Equal(t, "zh-TW", zh.Lang())
	require.Equal(t, "歡迎回來", zh.T("login.title"))
	require.Equal(t, "請輸入有效的 Email 格式", zh.T("login.error.invalid_email"))
	require.Equal(t, "密碼必須至少 8 個字元", zh.T("login.error.password_too_short"))
	require.Equal(t, "密碼必須包含英文字母和數字", zh.T("login.error.password_complexity"))
	require.Equal(t, "Welcome, TestUser", zh.F("dashboard.welcome", "TestUser"))
	require.Equal(t, "missing.key", zh.T("missing.key"))
}

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	require.Equal(t, "en", b.Resolve("zh-TW;q=0.8, en-US;q=0.9"))
	require.Equal(t, "zh-TW", b.Resolve("zh-Hant-TW,zh;q=0.9"))
	require.Equal(t, "zh-TW", b.Resolve(""))
	require.Equal(t, "zh-TW", b.Resolve("ja"))
	require.Equal(t, "zh-TW", b.Resolve(";;;"))
}

func TestLocalizerNumberGrouping(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	zh := b.Localizer("zh-TW")
	require.Equal(t, "100", zh.Number(100))
	require.Equal(t, "1,280", zh.Number(1280))
}

func TestLoadRequiresFallback(t *testing.T) {
	fsys := fstest.MapFS{"en.yaml": {Data: []byte("a: b\n")}}
	_, err := Load(fsys, "zh-TW", []string{"zh-TW", "en"})
	require.Error(t, err)
}

func TestLoadFlattensAndFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"zh-TW.yaml": {Data: []byte("page:\n  title: 標題\n  count: 3\n")},
		"en.yaml":    {Data: []byte("page:\n  title: Title\n")},
	}
	b, err := Load(fsys, "zh-TW", []string{"zh-TW", "en", "fr"})
	require.NoError(t, err)
	require.Equal(t, []string{"en", "zh-TW"}, b.Supported())
	require.Equal(t, "Title", b.T("en", "page.title"))
	require.Equal(t, "3", b.T("en", "page.count"))
	require.Equal(t, "標題", b.Localizer("fr").T("page.title"))
}
