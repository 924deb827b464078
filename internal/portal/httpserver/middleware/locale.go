package middleware

import (
	"context"
	"net/http"
	"sync"

	"finitefield.org/storefront-portal/internal/portal/i18n"
)

type localeContextKey struct{}

var defaultBundle = sync.OnceValue(func() *i18n.Bundle {
	b, err := i18n.Default()
	if err != nil {
		return nil
	}
	return b
})

// Locale picks the page language from Accept-Language and attaches a localizer.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	if bundle == nil {
		bundle = defaultBundle()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Language")
			lang := bundle.Resolve(r.Header.Get("Accept-Language"))
			ctx := context.WithValue(r.Context(), localeContextKey{}, bundle.Localizer(lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocalizerFromContext returns the request localizer, defaulting to the
// embedded bundle's fallback language.
func LocalizerFromContext(ctx context.Context) i18n.Localizer {
	if ctx != nil {
		if loc, ok := ctx.Value(localeContextKey{}).(i18n.Localizer); ok {
			return loc
		}
	}
	if b := defaultBundle(); b != nil {
		return b.Localizer(b.Fallback())
	}
	return i18n.Localizer{}
}

// Translate returns a MessageFunc resolving key in the request language.
func Translate(key string) MessageFunc {
	return func(r *http.Request) string {
		return LocalizerFromContext(r.Context()).T(key)
	}
}
