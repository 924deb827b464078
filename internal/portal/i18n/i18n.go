package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is the fallback language for every page.
const DefaultLocale = "zh-TW"

//go:embed locales/*.yaml
var embedded embed.FS

// Bundle holds flattened translations per language.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	langs    []string
	matcher  language.Matcher
}

// Default loads the embedded locales with zh-TW as fallback.
func Default() (*Bundle, error) {
	locales, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: embedded locales: %w", err)
	}
	return Load(locales, DefaultLocale, []string{DefaultLocale, "en"})
}

// MustDefault is Default for package initialisation; it panics on malformed locale files.
func MustDefault() *Bundle {
	b, err := Default()
	if err != nil {
		panic(err)
	}
	return b
}

// Load reads <lang>.yaml for every supported language from fsys. Nested keys are
// flattened with dots. Only the fallback locale is mandatory.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{fallback}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}
	tags := []language.Tag{language.Make(fallback)}
	b.langs = []string{fallback}
	for _, l := range supported {
		raw, err := fs.ReadFile(fsys, path.Clean(l+".yaml"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", l, err)
			}
			continue
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", l, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		b.dict[l] = flat
		if l != fallback {
			tags = append(tags, language.Make(l))
			b.langs = append(b.langs, l)
		}
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s not loaded", fallback)
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
			continue
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Supported lists the loaded languages.
func (b *Bundle) Supported() []string {
	out := append([]string(nil), b.langs...)
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	if strings.TrimSpace(acceptLang) == "" {
		return b.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.langs) {
		return b.fallback
	}
	return b.langs[idx]
}

// Localizer binds the bundle to a single language.
func (b *Bundle) Localizer(lang string) Localizer {
	if _, ok := b.dict[lang]; !ok {
		lang = b.fallback
	}
	return Localizer{bundle: b, lang: lang}
}

// Localizer translates keys and formats numbers for one language.
type Localizer struct {
	bundle *Bundle
	lang   string
}

// Lang returns the bound language.
func (l Localizer) Lang() string { return l.lang }

// T translates key.
func (l Localizer) T(key string) string {
	if l.bundle == nil {
		return key
	}
	return l.bundle.T(l.lang, key)
}

// F translates key and applies fmt-style arguments.
func (l Localizer) F(key string, args ...any) string {
	return fmt.Sprintf(l.T(key), args...)
}

// Number formats n with the language's digit grouping.
func (l Localizer) Number(n int64) string {
	return message.NewPrinter(language.Make(l.lang)).Sprintf("%d", n)
}
