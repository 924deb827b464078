package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Account is a locally configured login.
type Account struct {
	User         User
	PasswordHash []byte
}

// NewAccount hashes password with the given bcrypt cost (0 selects the default).
func NewAccount(user User, password string, cost int) (Account, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return Account{}, fmt.Errorf("identity: hash password: %w", err)
	}
	return Account{User: user, PasswordHash: hash}, nil
}

// StaticProvider authenticates against an in-memory account list for
// development and tests.
type StaticProvider struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewStaticProvider indexes accounts by lower-cased email.
func NewStaticProvider(accounts ...Account) *StaticProvider {
	p := &StaticProvider{accounts: make(map[string]Account, len(accounts))}
	for _, acct := range accounts {
		p.Add(acct)
	}
	return p
}

// DefaultAccounts returns the development logins: an admin and a regular user.
func DefaultAccounts() ([]Account, error) {
	admin, err := NewAccount(User{ID: "u-admin", Username: "Admin", Email: "admin@example.com", Role: "admin"}, "admin1234", 0)
	if err != nil {
		return nil, err
	}
	user, err := NewAccount(User{ID: "u-user", Username: "TestUser", Email: "test@example.com", Role: "user"}, "password123", 0)
	if err != nil {
		return nil, err
	}
	return []Account{admin, user}, nil
}

// Add registers or replaces an account.
func (p *StaticProvider) Add(acct Account) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[normaliseEmail(acct.User.Email)] = acct
}

// Login compares the password against the stored hash.
func (p *StaticProvider) Login(ctx context.Context, email, password string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	acct, ok := p.accounts[normaliseEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return nil, invalidCredentials()
	}
	token, err := issueToken()
	if err != nil {
		return nil, err
	}
	return &Identity{Token: token, User: acct.User}, nil
}

func invalidCredentials() error {
	return &APIError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: InvalidCredentialsMessage}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func issueToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("identity: generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
