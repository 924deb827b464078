package loginflow

import (
	"context"
	"errors"
)

// Controller drives Transition against real capabilities.
type Controller struct {
	auth AuthContext
	nav  Navigator
}

// NewController wires the auth context and navigator used by the form.
func NewController(auth AuthContext, nav Navigator) (*Controller, error) {
	if auth == nil {
		return nil, errors.New("loginflow: auth context is required")
	}
	if nav == nil {
		return nil, errors.New("loginflow: navigator is required")
	}
	return &Controller{auth: auth, nav: nav}, nil
}

// Mount runs the session redirector. It reports whether a navigation happened,
// in which case the form should not be rendered.
func (c *Controller) Mount(ctx context.Context, s State) (State, bool) {
	return c.dispatch(ctx, s, Mounted{Session: c.auth.Session()})
}

// Submit applies the credentials and runs the submit pipeline, including the
// login call when validation passes. It reports whether a navigation happened.
func (c *Controller) Submit(ctx context.Context, s State, creds Credentials) (State, bool) {
	s, _ = Transition(s, EmailChanged{Value: creds.Email})
	s, _ = Transition(s, PasswordChanged{Value: creds.Password})
	return c.dispatch(ctx, s, Submitted{})
}

func (c *Controller) dispatch(ctx context.Context, s State, ev Event) (State, bool) {
	queue := []Event{ev}
	navigated := false
	for len(queue) > 0 {
		var effects []Effect
		s, effects = Transition(s, queue[0])
		queue = queue[1:]
		for _, eff := range effects {
			switch e := eff.(type) {
			case CallLogin:
				if err := c.auth.Login(ctx, e.Email, e.Password); err != nil {
					queue = append(queue, LoginFailed{Err: err})
				} else {
					queue = append(queue, LoginSucceeded{})
				}
			case Navigate:
				c.nav.Navigate(e.Path, e.Options)
				navigated = true
			case ClearAuthExpiredMessage:
				c.auth.ClearAuthExpiredMessage()
			}
		}
	}
	return s, navigated
}

// Logout clears the session and returns to the login page. The navigation is
// unconditional and carries no state.
func Logout(auth AuthContext, nav Navigator) {
	auth.Logout()
	nav.Navigate(LoginPath, NavigateOptions{Replace: true, State: nil})
}
