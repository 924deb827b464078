package loginflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionSubmitEmitsSingleLogin(t *testing.T) {
	s := State{Email: " test@example.com ", Password: "password123"}

	next, effects := Transition(s, Submitted{})
	require.True(t, next.Submitting)
	require.Equal(t, []Effect{CallLogin{Email: "test@example.com", Password: "password123"}}, effects)

	again, effects := Transition(next, Submitted{})
	require.Nil(t, effects, "a second submit while in flight must not issue another login")
	require.Equal(t, next, again)
}

func TestTransitionEditClearsFieldError(t *testing.T) {
	s, _ := Transition(State{Email: "bad"}, Submitted{})
	require.Equal(t, InvalidEmailFormat, s.EmailResult)

	s, effects := Transition(s, EmailChanged{Value: "bad@example.com"})
	require.Nil(t, effects)
	require.Equal(t, Valid, s.EmailResult)
	require.Equal(t, "bad@example.com", s.Email)
}

func TestTransitionSubmitClearsPreviousError(t *testing.T) {
	s := State{Email: "test@example.com", Password: "password123", Error: "帳號或密碼錯誤"}
	s, _ = Transition(s, Submitted{})
	require.Empty(t, s.Error)
}

func TestTransitionLoginFailedWithoutError(t *testing.T) {
	s, effects := Transition(State{Submitting: true}, LoginFailed{})
	require.Nil(t, effects)
	require.False(t, s.Submitting)
	require.Equal(t, KeyLoginFailed, s.ErrorKey)
}

func TestMessageFromError(t *testing.T) {
	require.Empty(t, MessageFromError(nil))
	require.Empty(t, MessageFromError(errors.New("plain")))
	require.Equal(t, "無法載入", MessageFromError(&apiRejection{message: " 無法載入 "}))
}

func TestMountedAuthenticatedIgnoresExpiredMessage(t *testing.T) {
	s, effects := Transition(State{}, Mounted{Session: Session{IsAuthenticated: true, AuthExpiredMessage: "登入已過期"}})
	require.Empty(t, s.Notice)
	require.Equal(t, []Effect{Navigate{Path: DashboardPath, Options: NavigateOptions{Replace: true}}}, effects)
}
