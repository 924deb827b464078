package loginflow

import (
	"errors"
	"strings"
)

// State is the local state of one login form instance.
type State struct {
	Email          string
	Password       string
	EmailResult    ValidationResult
	PasswordResult ValidationResult
	// Error holds a message taken verbatim from a rejected login.
	Error string
	// ErrorKey is set instead of Error when the rejection carried no message.
	ErrorKey string
	// Notice holds the one-shot auth expired message captured on mount.
	Notice     string
	Submitting bool
}

// Event is an input to Transition.
type Event interface{ isEvent() }

// Mounted is delivered once when the form is first rendered for a request.
type Mounted struct{ Session Session }

// EmailChanged records new email input.
type EmailChanged struct{ Value string }

// PasswordChanged records new password input.
type PasswordChanged struct{ Value string }

// Submitted is the submit control being activated.
type Submitted struct{}

// LoginSucceeded reports that the login capability resolved.
type LoginSucceeded struct{}

// LoginFailed reports that the login capability rejected.
type LoginFailed struct{ Err error }

func (Mounted) isEvent()         {}
func (EmailChanged) isEvent()    {}
func (PasswordChanged) isEvent() {}
func (Submitted) isEvent()       {}
func (LoginSucceeded) isEvent()  {}
func (LoginFailed) isEvent()     {}

// Effect is a side effect requested by Transition for the caller to perform.
type Effect interface{ isEffect() }

// CallLogin asks the caller to invoke AuthContext.Login.
type CallLogin struct {
	Email    string
	Password string
}

// Navigate asks the caller to move to Path.
type Navigate struct {
	Path    string
	Options NavigateOptions
}

// ClearAuthExpiredMessage asks the caller to consume the session's expired message.
type ClearAuthExpiredMessage struct{}

func (CallLogin) isEffect()               {}
func (Navigate) isEffect()                {}
func (ClearAuthExpiredMessage) isEffect() {}

// Transition applies ev to s and returns the next state along with the effects
// to run, in order. It performs no I/O.
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Mounted:
		if e.Session.IsAuthenticated {
			return s, []Effect{Navigate{Path: DashboardPath, Options: NavigateOptions{Replace: true}}}
		}
		if msg := strings.TrimSpace(e.Session.AuthExpiredMessage); msg != "" {
			s.Notice = msg
			return s, []Effect{ClearAuthExpiredMessage{}}
		}
		return s, nil

	case EmailChanged:
		s.Email = e.Value
		s.EmailResult = Valid
		return s, nil

	case PasswordChanged:
		s.Password = e.Value
		s.PasswordResult = Valid
		return s, nil

	case Submitted:
		if s.Submitting {
			return s, nil
		}
		s.Error = ""
		s.ErrorKey = ""
		s.EmailResult, s.PasswordResult = ValidateCredentials(Credentials{Email: s.Email, Password: s.Password})
		if !s.EmailResult.OK() || !s.PasswordResult.OK() {
			return s, nil
		}
		s.Submitting = true
		return s, []Effect{CallLogin{Email: strings.TrimSpace(s.Email), Password: s.Password}}

	case LoginSucceeded:
		s.Submitting = false
		s.Password = ""
		return s, []Effect{Navigate{Path: DashboardPath, Options: NavigateOptions{Replace: true}}}

	case LoginFailed:
		s.Submitting = false
		s.Password = ""
		if msg := MessageFromError(e.Err); msg != "" {
			s.Error = msg
		} else {
			s.ErrorKey = KeyLoginFailed
		}
		return s, nil
	}
	return s, nil
}

// MessageFromError extracts the user-facing text carried by a rejection, if any.
func MessageFromError(err error) string {
	if err == nil {
		return ""
	}
	var m UserMessager
	if errors.As(err, &m) {
		return strings.TrimSpace(m.UserMessage())
	}
	return ""
}
