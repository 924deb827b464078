package loginflow

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted by the login form.
const MinPasswordLength = 8

// ValidationResult is the outcome of validating a single credential field.
type ValidationResult int

const (
	// Valid means the field may be submitted.
	Valid ValidationResult = iota
	// InvalidEmailFormat means the email does not look like local@domain.tld.
	InvalidEmailFormat
	// PasswordTooShort means the password has fewer than MinPasswordLength characters.
	PasswordTooShort
	// PasswordMissingComplexity means the password lacks a letter or a digit.
	PasswordMissingComplexity
)

// Message keys resolved through the locale bundle.
const (
	KeyInvalidEmail       = "login.error.invalid_email"
	KeyPasswordTooShort   = "login.error.password_too_short"
	KeyPasswordComplexity = "login.error.password_complexity"
	KeyLoginFailed        = "login.error.generic"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Credentials is the raw form input.
type Credentials struct {
	Email    string
	Password string
}

// OK reports whether the result allows submission.
func (r ValidationResult) OK() bool {
	return r == Valid
}

// MessageKey returns the locale key describing the failure, or "" for Valid.
func (r ValidationResult) MessageKey() string {
	switch r {
	case InvalidEmailFormat:
		return KeyInvalidEmail
	case PasswordTooShort:
		return KeyPasswordTooShort
	case PasswordMissingComplexity:
		return KeyPasswordComplexity
	default:
		return ""
	}
}

func (r ValidationResult) String() string {
	switch r {
	case Valid:
		return "valid"
	case InvalidEmailFormat:
		return "invalid_email_format"
	case PasswordTooShort:
		return "password_too_short"
	case PasswordMissingComplexity:
		return "password_missing_complexity"
	default:
		return "unknown"
	}
}

// ValidateEmail checks the address against the local@domain.tld shape.
func ValidateEmail(s string) ValidationResult {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return InvalidEmailFormat
	}
	return Valid
}

// ValidatePassword enforces the minimum length first, then requires at least
// one ASCII letter and one ASCII digit.
func ValidatePassword(s string) ValidationResult {
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return PasswordTooShort
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return PasswordMissingComplexity
	}
	return Valid
}

// ValidateCredentials runs both field validators.
func ValidateCredentials(c Credentials) (email, password ValidationResult) {
	return ValidateEmail(c.Email), ValidatePassword(c.Password)
}
