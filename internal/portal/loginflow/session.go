package loginflow

import "context"

// Well-known navigation targets.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// User is the identity exposed to pages once a session is authenticated.
type User struct {
	Username string
	Role     string
}

// Session is a read-only snapshot of the externally owned auth state.
type Session struct {
	IsAuthenticated    bool
	AuthExpiredMessage string
	User               *User
}

// AuthContext is the set of session capabilities the login form may invoke.
// The form never mutates session state directly.
type AuthContext interface {
	Session() Session
	Login(ctx context.Context, email, password string) error
	Logout()
	ClearAuthExpiredMessage()
}

// NavigateOptions mirrors a history transition request.
type NavigateOptions struct {
	// Replace overwrites the current history entry instead of pushing a new one.
	Replace bool
	// State is an optional payload carried to the next page.
	State any
}

// Navigator performs page transitions.
type Navigator interface {
	Navigate(path string, opts NavigateOptions)
}

// UserMessager is implemented by errors whose text is safe to show verbatim.
type UserMessager interface {
	UserMessage() string
}
