package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/storefront-portal/internal/portal/logging"
	appsession "finitefield.org/storefront-portal/internal/portal/session"
)

type authContextKey string

const userContextKey authContextKey = "auth.user"

// User represents the signed-in account for the current request.
type User struct {
	UID      string
	Username string
	Email    string
	Role     string
	Token    string
}

// Authenticator verifies the token stored in the session on every guarded request.
// Fields it returns override the ones recorded at sign-in.
type Authenticator interface {
	Authenticate(r *http.Request, token string) (*User, error)
}

var (
	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthError contains reason codes for failed authentication attempts.
type AuthError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError constructs an AuthError with the provided reason.
func NewAuthError(reason string, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

const (
	// ReasonMissingToken indicates a request without a signed-in session.
	ReasonMissingToken = "missing_token"
	// ReasonTokenInvalid indicates a malformed or revoked token.
	ReasonTokenInvalid = "token_invalid"
	// ReasonTokenExpired indicates an expired token; the user is asked to sign in again.
	ReasonTokenExpired = "token_expired"
)

// MessageFunc produces a localized message for the current request.
type MessageFunc func(r *http.Request) string

// DefaultAuthenticator trusts any non-empty session token. Tokens issued by the
// static identity provider are opaque, so there is nothing further to verify.
func DefaultAuthenticator() Authenticator {
	return &passthroughAuthenticator{}
}

// Auth requires an authenticated session. Anonymous requests are sent to loginPath.
// When the authenticator reports an expired token the session is signed out and
// expiredMessage is left for the login page to show once.
func Auth(authenticator Authenticator, loginPath string, expiredMessage MessageFunc) func(http.Handler) http.Handler {
	if authenticator == nil {
		authenticator = DefaultAuthenticator()
	}
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.FromContext(r.Context())
			sess, ok := SessionFromContext(r.Context())
			if !ok || !sess.Authenticated() {
				logger.Debug("auth required", zap.String("reason", ReasonMissingToken))
				handleUnauthorized(w, r, loginPath)
				return
			}

			verified, err := authenticator.Authenticate(r, sess.Token())
			if err != nil || verified == nil {
				reason := ReasonTokenInvalid
				var authErr *AuthError
				if errors.As(err, &authErr) && authErr.Reason != "" {
					reason = authErr.Reason
				}
				if err == nil {
					err = ErrUnauthorized
				}
				logger.Info("auth failure", zap.String("reason", reason), zap.Error(err))
				sess.SignOut()
				if reason == ReasonTokenExpired && expiredMessage != nil {
					sess.SetAuthExpiredMessage(expiredMessage(r))
				}
				handleUnauthorized(w, r, loginPath)
				return
			}

			user := mergeUser(sess.User(), sess.Token(), verified)
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx. Intended for handlers and tests that bypass Auth.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func mergeUser(stored *appsession.User, token string, verified *User) *User {
	user := &User{Token: token}
	if stored != nil {
		user.UID = stored.UID
		user.Username = stored.Username
		user.Email = stored.Email
		user.Role = stored.Role
	}
	if verified == nil {
		return user
	}
	if v := strings.TrimSpace(verified.UID); v != "" {
		user.UID = v
	}
	if v := strings.TrimSpace(verified.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(verified.Email); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(verified.Role); v != "" {
		user.Role = v
	}
	if v := strings.TrimSpace(verified.Token); v != "" {
		user.Token = v
	}
	return user
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath string) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", loginPath)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusFound)
}

type passthroughAuthenticator struct{}

func (p *passthroughAuthenticator) Authenticate(_ *http.Request, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, NewAuthError(ReasonMissingToken, ErrUnauthorized)
	}
	return &User{Token: token}, nil
}
