package testutil

import (
	"net/http/httptest"
	"testing"

	"finitefield.org/storefront-portal/internal/portal/httpserver"
	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/identity"
	"finitefield.org/storefront-portal/internal/portal/metrics"
	"finitefield.org/storefront-portal/internal/portal/products"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithAuthenticator overrides the token authenticator guarding signed-in pages.
func WithAuthenticator(auth middleware.Authenticator) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Authenticator = auth
	}
}

// WithIdentityProvider overrides the provider used by the login form.
func WithIdentityProvider(provider identity.Provider) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.IdentityProvider = provider
	}
}

// WithProductsService wires a custom product source.
func WithProductsService(service products.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.ProductsService = service
	}
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = m
	}
}

// WithSessionStore replaces the cookie session manager.
func WithSessionStore(store middleware.SessionStore) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.SessionStore = store
	}
}

// NewServer constructs an httptest server running the portal HTTP stack with
// the default static accounts and the given product list.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	accounts, err := identity.DefaultAccounts()
	if err != nil {
		t.Fatalf("default accounts: %v", err)
	}
	cfg := httpserver.Config{
		Address:          ":0",
		Environment:      "Test",
		SessionHashKey:   []byte("12345678901234567890123456789012"),
		SessionBlockKey:  []byte("abcdefghijklmnopqrstuvwxyzABCDEF"),
		IdentityProvider: identity.NewStaticProvider(accounts...),
		ProductsService: products.NewStaticService(
			products.Product{ID: 1, Name: "Product 1", Price: 100, Description: "First product"},
			products.Product{ID: 2, Name: "Product 2", Price: 200, Description: "Second product"},
		),
		Authenticator: middleware.DefaultAuthenticator(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("httpserver.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
