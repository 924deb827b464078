package loginflow

// Translator resolves locale message keys.
type Translator interface {
	T(key string) string
}

// View is the render projection of State.
type View struct {
	Email          string
	EmailError     string
	PasswordError  string
	Error          string
	Notice         string
	SubmitDisabled bool
}

// Render projects s into display values. The password value is never part of
// the projection.
func Render(s State, t Translator) View {
	v := View{
		Email:          s.Email,
		Notice:         s.Notice,
		Error:          s.Error,
		SubmitDisabled: s.Submitting,
	}
	if key := s.EmailResult.MessageKey(); key != "" {
		v.EmailError = t.T(key)
	}
	if key := s.PasswordResult.MessageKey(); key != "" {
		v.PasswordError = t.T(key)
	}
	if v.Error == "" && s.ErrorKey != "" {
		v.Error = t.T(s.ErrorKey)
	}
	return v
}
