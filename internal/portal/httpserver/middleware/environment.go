package middleware

import (
	"context"
	"net/http"
	"strings"
)

// DefaultEnvironment labels requests when no deployment environment is configured.
const DefaultEnvironment = "Development"

type environmentContextKey struct{}

// Environment attaches the deployment label so pages can show a non-production badge.
func Environment(value string) func(http.Handler) http.Handler {
	label := strings.TrimSpace(value)
	if label == "" {
		label = DefaultEnvironment
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), environmentContextKey{}, label)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnvironmentFromContext returns the label registered for the current request.
func EnvironmentFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultEnvironment
	}
	if value, ok := ctx.Value(environmentContextKey{}).(string); ok && value != "" {
		return value
	}
	return DefaultEnvironment
}

// IsProduction reports whether the request is served by a production deployment.
func IsProduction(ctx context.Context) bool {
	return strings.EqualFold(EnvironmentFromContext(ctx), "production")
}
