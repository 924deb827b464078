package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"finitefield.org/storefront-portal/internal/portal/httpserver"
	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/identity"
	"finitefield.org/storefront-portal/internal/portal/logging"
	"finitefield.org/storefront-portal/internal/portal/metrics"
	"finitefield.org/storefront-portal/internal/portal/products"
)

func main() {
	env := getEnv("PORTAL_ENV", middleware.DefaultEnvironment)
	logger, err := logging.New(env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	rootCtx := context.Background()
	cfg := httpserver.Config{
		Address:         getEnv("PORTAL_HTTP_ADDR", ":8080"),
		Environment:     env,
		Logger:          logger,
		Metrics:         metrics.New(),
		SessionHashKey:  []byte(os.Getenv("PORTAL_SESSION_HASH_KEY")),
		SessionBlockKey: []byte(os.Getenv("PORTAL_SESSION_BLOCK_KEY")),
		CookieSecure:    !logging.IsDevelopment(env),
		Authenticator:   buildAuthenticator(rootCtx, logger),
	}
	if len(cfg.SessionHashKey) == 0 || len(cfg.SessionBlockKey) == 0 {
		logger.Warn("session keys not configured; using random keys, sessions will not survive a restart")
	}

	provider, err := buildIdentityProvider(logger)
	if err != nil {
		logger.Fatal("identity provider", zap.Error(err))
	}
	cfg.IdentityProvider = provider

	service, closeProducts, err := buildProductsService(rootCtx, logger)
	if err != nil {
		logger.Fatal("products service", zap.Error(err))
	}
	defer closeProducts()
	cfg.ProductsService = service

	srv, err := httpserver.New(cfg)
	if err != nil {
		logger.Fatal("http server setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("portal listening", zap.String("addr", cfg.Address), zap.String("env", env))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func buildIdentityProvider(logger *zap.Logger) (identity.Provider, error) {
	if base := os.Getenv("PORTAL_IDENTITY_API_URL"); base != "" {
		logger.Info("identity API enabled", zap.String("url", base))
		return identity.NewHTTPProvider(base, &http.Client{Timeout: 10 * time.Second})
	}
	logger.Info("PORTAL_IDENTITY_API_URL not set; using built-in accounts")
	accounts, err := identity.DefaultAccounts()
	if err != nil {
		return nil, err
	}
	return identity.NewStaticProvider(accounts...), nil
}

func buildProductsService(ctx context.Context, logger *zap.Logger) (products.Service, func(), error) {
	noop := func() {}
	if base := os.Getenv("PORTAL_PRODUCTS_API_URL"); base != "" {
		logger.Info("products API enabled", zap.String("url", base))
		svc, err := products.NewHTTPService(base, &http.Client{Timeout: 10 * time.Second})
		return svc, noop, err
	}
	if path := os.Getenv("PORTAL_PRODUCTS_DB"); path != "" {
		store, err := products.OpenSQLStore(path)
		if err != nil {
			return nil, noop, err
		}
		if err := store.SeedIfEmpty(ctx, products.NewStaticService().Products); err != nil {
			_ = store.Close()
			return nil, noop, err
		}
		logger.Info("products database opened", zap.String("path", path))
		return store, func() { _ = store.Close() }, nil
	}
	return products.NewStaticService(), noop, nil
}

func buildAuthenticator(ctx context.Context, logger *zap.Logger) middleware.Authenticator {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		logger.Info("FIREBASE_PROJECT_ID not set; using passthrough authenticator")
		return nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: projectID,
	})
	if err != nil {
		logger.Warn("failed to initialise Firebase app", zap.Error(err))
		return nil
	}

	client, err := app.Auth(ctx)
	if err != nil {
		logger.Warn("failed to initialise Firebase auth client", zap.Error(err))
		return nil
	}

	logger.Info("Firebase authenticator enabled", zap.String("project", projectID))
	return middleware.NewFirebaseAuthenticator(client)
}
