package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/storefront-portal/internal/portal/logging"
	"finitefield.org/storefront-portal/internal/portal/rbac"
)

// RequireCapability aborts the request when the authenticated user lacks the
// capability. onForbidden renders the 403 body; nil falls back to plain text.
func RequireCapability(capability rbac.Capability, onForbidden http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || !rbac.HasCapability(user.Role, capability) {
				role := ""
				if ok {
					role = user.Role
				}
				logging.FromContext(r.Context()).Info("capability denied",
					zap.String("capability", string(capability)),
					zap.String("role", role),
				)
				forbidden(w, r, onForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, r *http.Request, body http.Handler) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
	}
	if body == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	body.ServeHTTP(&statusOverride{ResponseWriter: w, status: http.StatusForbidden}, r)
}

// statusOverride forces the status code written by a reused page handler.
type statusOverride struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusOverride) WriteHeader(int) {
	if s.wroteHeader {
		return
	}
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(s.status)
}

func (s *statusOverride) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(s.status)
	}
	return s.ResponseWriter.Write(b)
}
