package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidCredentials matches any rejection caused by a wrong email or password.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// InvalidCredentialsMessage is the text shown when the account or password is wrong.
const InvalidCredentialsMessage = "帳號或密碼錯誤"

// Provider exchanges credentials for an authenticated identity.
type Provider interface {
	// Login verifies the credentials and returns the issued token and user profile.
	Login(ctx context.Context, email, password string) (*Identity, error)
}

// Identity is the result of a successful login.
type Identity struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User is the profile attached to an identity.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// APIError carries a rejection returned by the identity backend. Message is
// safe to display verbatim.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	code := strings.TrimSpace(e.Code)
	if code == "" {
		code = http.StatusText(e.Status)
	}
	return fmt.Sprintf("identity: backend error (%d %s): %s", e.Status, code, e.Message)
}

// UserMessage returns the backend message for display.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Is reports credential rejections as ErrInvalidCredentials.
func (e *APIError) Is(target error) bool {
	if target != ErrInvalidCredentials {
		return false
	}
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
