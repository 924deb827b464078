package httpserver_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/identity"
	"finitefield.org/storefront-portal/internal/portal/metrics"
	"finitefield.org/storefront-portal/internal/portal/products"
	"finitefield.org/storefront-portal/internal/portal/testutil"
)

type countingProvider struct {
	next  identity.Provider
	calls atomic.Int32
}

func (p *countingProvider) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	p.calls.Add(1)
	return p.next.Login(ctx, email, password)
}

func newCountingProvider(t *testing.T) *countingProvider {
	t.Helper()
	accounts, err := identity.DefaultAccounts()
	require.NoError(t, err)
	return &countingProvider{next: identity.NewStaticProvider(accounts...)}
}

// expiringAuthenticator accepts every token until expire is called.
type expiringAuthenticator struct {
	mu      sync.Mutex
	expired bool
}

func (a *expiringAuthenticator) expire() {
	a.mu.Lock()
	a.expired = true
	a.mu.Unlock()
}

func (a *expiringAuthenticator) Authenticate(_ *http.Request, token string) (*middleware.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.expired {
		return nil, middleware.NewAuthError(middleware.ReasonTokenExpired, middleware.ErrUnauthorized)
	}
	return &middleware.User{Token: token}, nil
}

func TestDashboardRedirectsWithoutAuth(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	for _, path := range []string{"/dashboard", "/admin", "/"} {
		resp := client.Get(path)
		require.Equal(t, http.StatusFound, resp.StatusCode, path)
		if path == "/" {
			require.Equal(t, "/dashboard", resp.Header.Get("Location"))
			continue
		}
		require.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestLoginPageRenders(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	resp := client.Get("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Cache-Control"), "no-store")

	doc := resp.Doc(t)
	require.Equal(t, "歡迎回來", strings.TrimSpace(doc.Find("h1").First().Text()))
	require.Equal(t, 1, doc.Find("form[data-login-form] input#email").Length())
	require.Equal(t, 1, doc.Find("form[data-login-form] input#password").Length())
	require.Equal(t, "登入", strings.TrimSpace(doc.Find("form[data-login-form] button[type=submit]").Text()))
	require.Zero(t, doc.Find("[data-login-error]").Length())
	require.Zero(t, doc.Find("[data-notice]").Length())
}

func TestLoginValidationNeverCallsProvider(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		email    string
		password string
		field    string
		message  string
	}{
		{name: "invalid email", email: "not-an-email", password: "password123", field: "email", message: "請輸入有效的 Email 格式"},
		{name: "short password", email: "test@example.com", password: "pass1", field: "password", message: "密碼必須至少 8 個字元"},
		{name: "letters only", email: "test@example.com", password: "passwordonly", field: "password", message: "密碼必須包含英文字母和數字"},
		{name: "digits only", email: "test@example.com", password: "12345678", field: "password", message: "密碼必須包含英文字母和數字"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			provider := newCountingProvider(t)
			ts := testutil.NewServer(t, testutil.WithIdentityProvider(provider))
			client := testutil.NewClient(t, ts.URL)

			resp := client.Login(tc.email, tc.password)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			doc := resp.Doc(t)
			require.Equal(t, tc.message, strings.TrimSpace(doc.Find(`[data-field-error="`+tc.field+`"]`).Text()))
			require.Equal(t, tc.email, doc.Find("input#email").AttrOr("value", ""))
			require.Empty(t, doc.Find("input#password").AttrOr("value", ""))
			require.Zero(t, provider.calls.Load())
		})
	}
}

func TestLoginShowsBothFieldErrors(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	resp := client.Login("bad", "short")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc := resp.Doc(t)
	require.Equal(t, 1, doc.Find(`[data-field-error="email"]`).Length())
	require.Equal(t, 1, doc.Find(`[data-field-error="password"]`).Length())
}

func TestLoginSuccessReachesDashboard(t *testing.T) {
	t.Parallel()

	provider := newCountingProvider(t)
	m := metrics.New()
	ts := testutil.NewServer(t, testutil.WithIdentityProvider(provider), testutil.WithMetrics(m))
	client := testutil.NewClient(t, ts.URL)

	resp := client.Login("test@example.com", "password123")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	require.EqualValues(t, 1, provider.calls.Load())

	dash := client.Get("/dashboard")
	require.Equal(t, http.StatusOK, dash.StatusCode)
	doc := dash.Doc(t)
	require.Equal(t, "儀表板", strings.TrimSpace(doc.Find("h1").First().Text()))
	require.Equal(t, "Welcome, TestUser", strings.TrimSpace(doc.Find("[data-welcome]").Text()))
	require.Zero(t, doc.Find("[data-admin-link]").Length())
	require.Equal(t, "/dashboard/products", doc.Find("[data-products]").AttrOr("hx-get", ""))
	require.Equal(t, 1, doc.Find("[data-products-loading]").Length())

	// Signed-in visitors skip the form.
	again := client.Get("/login")
	require.Equal(t, http.StatusFound, again.StatusCode)
	require.Equal(t, "/dashboard", again.Header.Get("Location"))

	scrape := client.Get("/metrics")
	require.Contains(t, string(scrape.Body), `portal_login_attempts_total{outcome="success"} 1`)
}

func TestLoginRejectedShowsBackendMessage(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	resp := client.Login("test@example.com", "wrongpass1")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	doc := resp.Doc(t)
	require.Equal(t, identity.InvalidCredentialsMessage, strings.TrimSpace(doc.Find("[data-login-error]").Text()))
	require.Equal(t, "test@example.com", doc.Find("input#email").AttrOr("value", ""))
	require.Empty(t, doc.Find("input#password").AttrOr("value", ""))
	_, disabled := doc.Find("button[type=submit]").Attr("disabled")
	require.False(t, disabled)

	dash := client.Get("/dashboard")
	require.Equal(t, http.StatusFound, dash.StatusCode)
}

func TestLoginRequiresCSRFToken(t *testing.T) {
	t.Parallel()

	provider := newCountingProvider(t)
	ts := testutil.NewServer(t, testutil.WithIdentityProvider(provider))
	client := testutil.NewClient(t, ts.URL)

	resp := client.PostForm("/login", url.Values{
		"email":    {"test@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Zero(t, provider.calls.Load())
}

func TestExpiredTokenShowsNoticeOnce(t *testing.T) {
	t.Parallel()

	auth := &expiringAuthenticator{}
	ts := testutil.NewServer(t, testutil.WithAuthenticator(auth))
	client := testutil.NewClient(t, ts.URL)

	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)
	require.Equal(t, http.StatusOK, client.Get("/dashboard").StatusCode)

	auth.expire()
	resp := client.Get("/dashboard")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	first := client.Get("/login")
	require.Equal(t, http.StatusOK, first.StatusCode)
	require.Equal(t, "登入已過期，請重新登入", strings.TrimSpace(first.Doc(t).Find("[data-notice]").Text()))

	second := client.Get("/login")
	require.Equal(t, http.StatusOK, second.StatusCode)
	require.Zero(t, second.Doc(t).Find("[data-notice]").Length())
}

func TestLogoutReturnsToLogin(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)
	token := client.CSRFToken("/dashboard")

	resp := client.PostForm("/logout", url.Values{"_csrf": {token}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	page := client.Get("/login")
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Equal(t, "您已登出", strings.TrimSpace(page.Doc(t).Find("[data-flash]").Text()))

	require.Equal(t, http.StatusFound, client.Get("/dashboard").StatusCode)
}

func TestLogoutViaHTMXUsesHXRedirect(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)
	token := client.CSRFToken("/dashboard")

	resp := client.PostForm("/logout", url.Values{"_csrf": {token}}, "HX-Request", "true")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("HX-Redirect"))
}

func TestProductsFragment(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)
	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)

	plain := client.Get("/dashboard/products")
	require.Equal(t, http.StatusNotFound, plain.StatusCode)

	resp := client.Get("/dashboard/products", "HX-Request", "true")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := resp.Doc(t)
	cards := doc.Find(".product-card")
	require.Equal(t, 2, cards.Length())
	require.Equal(t, "Product 1", strings.TrimSpace(cards.Eq(0).Find(".product-name").Text()))
	require.Equal(t, "NT$ 100", strings.TrimSpace(cards.Eq(0).Find(".price").Text()))
	require.Equal(t, "NT$ 200", strings.TrimSpace(cards.Eq(1).Find(".price").Text()))
	require.Contains(t, cards.Eq(1).Find(".description").Text(), "Second product")
}

func TestProductsFragmentShowsBackendError(t *testing.T) {
	t.Parallel()

	failing := &products.StaticService{Err: &products.APIError{Status: http.StatusServiceUnavailable, Message: "商品服務維護中"}}
	ts := testutil.NewServer(t, testutil.WithProductsService(failing))
	client := testutil.NewClient(t, ts.URL)
	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)

	resp := client.Get("/dashboard/products", "HX-Request", "true")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := resp.Doc(t)
	require.Equal(t, "商品服務維護中", strings.TrimSpace(doc.Find("[data-products-error]").Text()))
	require.Zero(t, doc.Find(".product-card").Length())
}

func TestProductsFragmentEmpty(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithProductsService(&products.StaticService{}))
	client := testutil.NewClient(t, ts.URL)
	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)

	resp := client.Get("/dashboard/products", "HX-Request", "true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "目前沒有商品", strings.TrimSpace(resp.Doc(t).Find("[data-products-empty]").Text()))
}

func TestAdminPageForAdmin(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)
	require.Equal(t, http.StatusSeeOther, client.Login("admin@example.com", "admin1234").StatusCode)

	dash := client.Get("/dashboard")
	require.Equal(t, http.StatusOK, dash.StatusCode)
	require.Equal(t, "/admin", dash.Doc(t).Find("[data-admin-link]").AttrOr("href", ""))

	resp := client.Get("/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := resp.Doc(t)
	require.Equal(t, "🛠️ 管理後台", strings.TrimSpace(doc.Find("h1").First().Text()))
	require.Equal(t, "/dashboard", doc.Find("[data-back-link]").AttrOr("href", ""))
	require.Equal(t, "管理員專屬頁面", strings.TrimSpace(doc.Find("[data-restricted]").Text()))
	badge := doc.Find(".role-badge.admin[data-role-badge]")
	require.Equal(t, 1, badge.Length())
	require.Equal(t, "管理員", strings.TrimSpace(badge.Text()))
}

func TestAdminPageForbiddenForUser(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)
	require.Equal(t, http.StatusSeeOther, client.Login("test@example.com", "password123").StatusCode)

	resp := client.Get("/admin")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Contains(t, string(resp.Body), "管理員專屬頁面")
	require.Zero(t, resp.Doc(t).Find("[data-role-badge]").Length())
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithMetrics(metrics.New()))
	client := testutil.NewClient(t, ts.URL)

	health := client.Get("/healthz")
	require.Equal(t, http.StatusOK, health.StatusCode)
	require.Equal(t, "ok", string(health.Body))

	client.Get("/login")
	scrape := client.Get("/metrics")
	require.Equal(t, http.StatusOK, scrape.StatusCode)
	require.Contains(t, string(scrape.Body), "portal_http_request_duration_seconds")
}

func TestStaticAssetsServed(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t, ts.URL)

	resp := client.Get("/public/static/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(resp.Body), ".role-badge")
}
