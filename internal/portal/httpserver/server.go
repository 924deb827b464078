package httpserver

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/httpserver/ui"
	"finitefield.org/storefront-portal/internal/portal/i18n"
	"finitefield.org/storefront-portal/internal/portal/identity"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/metrics"
	"finitefield.org/storefront-portal/internal/portal/products"
	"finitefield.org/storefront-portal/internal/portal/rbac"
	appsession "finitefield.org/storefront-portal/internal/portal/session"
	"finitefield.org/storefront-portal/public"
)

// Config holds runtime options for the portal HTTP server.
type Config struct {
	Address     string
	Environment string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Locales     *i18n.Bundle

	// SessionStore overrides the cookie session manager built from the keys below.
	SessionStore    custommw.SessionStore
	SessionHashKey  []byte
	SessionBlockKey []byte
	CookieSecure    bool

	IdentityProvider identity.Provider
	ProductsService  products.Service
	Authenticator    custommw.Authenticator

	CSRFCookieName string
	CSRFHeaderName string
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locales := cfg.Locales
	if locales == nil {
		bundle, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("httpserver: locales: %w", err)
		}
		locales = bundle
	}
	store := cfg.SessionStore
	if store == nil {
		manager, err := newSessionManager(cfg)
		if err != nil {
			return nil, err
		}
		store = manager
	}
	provider := cfg.IdentityProvider
	if provider == nil {
		accounts, err := identity.DefaultAccounts()
		if err != nil {
			return nil, fmt.Errorf("httpserver: default accounts: %w", err)
		}
		provider = identity.NewStaticProvider(accounts...)
	}
	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("httpserver: embed static: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(custommw.InjectLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", cfg.Metrics.Handler())

	expired := custommw.Translate("login.expired")
	mountPortalRoutes(router, routeOptions{
		Locales:       locales,
		Environment:   cfg.Environment,
		Sessions:      store,
		Expired:       expired,
		Metrics:       cfg.Metrics,
		Authenticator: cfg.Authenticator,
		Auth:          newAuthHandlers(provider, cfg.Metrics),
		UI:            ui.NewHandlers(ui.Dependencies{Products: cfg.ProductsService, Metrics: cfg.Metrics}),
		CSRF: custommw.CSRFConfig{
			CookieName: cfg.CSRFCookieName,
			HeaderName: cfg.CSRFHeaderName,
			Secure:     cfg.CookieSecure,
		},
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(logger),
	}, nil
}

type routeOptions struct {
	Locales       *i18n.Bundle
	Environment   string
	Sessions      custommw.SessionStore
	Expired       custommw.MessageFunc
	Metrics       *metrics.Metrics
	Authenticator custommw.Authenticator
	Auth          *authHandlers
	UI            *ui.Handlers
	CSRF          custommw.CSRFConfig
}

func mountPortalRoutes(router chi.Router, opts routeOptions) {
	router.Group(func(r chi.Router) {
		r.Use(custommw.Locale(opts.Locales))
		r.Use(custommw.Environment(opts.Environment))
		r.Use(custommw.HTMX())
		r.Use(custommw.Session(opts.Sessions, opts.Expired))
		r.Use(custommw.RequestLogger(opts.Metrics))
		r.Use(custommw.NoStore())
		r.Use(custommw.CSRF(opts.CSRF))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, loginflow.DashboardPath, http.StatusFound)
		})
		r.Get(loginflow.LoginPath, opts.Auth.LoginForm)
		r.Post(loginflow.LoginPath, opts.Auth.LoginSubmit)
		r.Post("/logout", opts.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(custommw.Auth(opts.Authenticator, loginflow.LoginPath, opts.Expired))

			r.Get(loginflow.DashboardPath, opts.UI.Dashboard)
			RegisterFragment(r, "/dashboard/products", opts.UI.ProductsFragment)
			r.With(custommw.RequireCapability(rbac.CapAdminConsole, http.HandlerFunc(opts.UI.Forbidden))).
				Get(loginflow.AdminPath, opts.UI.Admin)
		})
	})
}

func newSessionManager(cfg Config) (*appsession.Manager, error) {
	hashKey := cfg.SessionHashKey
	if len(hashKey) == 0 {
		hashKey = randomKey(32)
	}
	blockKey := cfg.SessionBlockKey
	if len(blockKey) == 0 {
		blockKey = randomKey(32)
	}
	manager, err := appsession.NewManager(appsession.Config{
		HashKey:      hashKey,
		BlockKey:     blockKey,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("httpserver: session manager: %w", err)
	}
	return manager, nil
}

func randomKey(n int) []byte {
	key := make([]byte, n)
	_, _ = rand.Read(key)
	return key
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}
