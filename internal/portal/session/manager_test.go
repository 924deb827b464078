package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}

func newTestManager(t *testing.T) (*Manager, *fixedClock) {
	t.Helper()

	hashKey := []byte("12345678901234567890123456789012")
	blockKey := []byte("abcdefghijklmnopqrstuv0123456789")
	clock := &fixedClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	httpOnly := true
	mgr, err := NewManager(Config{
		CookieName:       "test_session",
		HashKey:          hashKey,
		BlockKey:         blockKey,
		CookiePath:       "/",
		CookieHTTPOnly:   &httpOnly,
		IdleTimeout:      10 * time.Minute,
		Lifetime:         2 * time.Hour,
		RememberLifetime: 48 * time.Hour,
		Now:              clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return mgr, clock
}

func TestManager_RejectsInvalidConfig(t *testing.T) {
	if _, err := NewManager(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig without hash key, got %v", err)
	}
	if _, err := NewManager(Config{HashKey: []byte("k"), BlockKey: []byte("short")}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for bad block key, got %v", err)
	}
}

func TestManager_SignInRoundTrip(t *testing.T) {
	mgr, clock := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess.ID() == "" {
		t.Fatalf("expected session ID")
	}
	if sess.Authenticated() {
		t.Fatalf("fresh session must not be authenticated")
	}
	if !sess.CreatedAt().Equal(clock.current) {
		t.Fatalf("unexpected CreatedAt: %v", sess.CreatedAt())
	}

	sess.SetAuthExpiredMessage("stale")
	sess.SignIn(User{UID: "u-1", Username: "TestUser", Email: "test@example.com", Role: "user"}, "tok-1")
	if sess.AuthExpiredMessage() != "" {
		t.Fatalf("sign in should drop pending expired message")
	}
	sess.SetRememberMe(true)
	sess.SetFlash("saved")
	token, err := sess.EnsureCSRFToken()
	if err != nil || token == "" {
		t.Fatalf("expected csrf token: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}

	clock.current = clock.current.Add(5 * time.Minute)
	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req2.AddCookie(cookie)
	sess2, err := mgr.Load(req2)
	if err != nil {
		t.Fatalf("Load existing error: %v", err)
	}
	if !sess2.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if sess2.User().Username != "TestUser" || sess2.User().Role != "user" {
		t.Fatalf("unexpected user %+v", sess2.User())
	}
	if sess2.Token() != "tok-1" {
		t.Fatalf("expected token to persist")
	}
	if !sess2.RememberMe() {
		t.Fatalf("expected remember-me flag")
	}
	if sess2.CSRFToken() != token {
		t.Fatalf("expected csrf token to persist")
	}
	if got := sess2.TakeFlash(); got != "saved" {
		t.Fatalf("expected flash, got %q", got)
	}
	if got := sess2.TakeFlash(); got != "" {
		t.Fatalf("flash must be one-shot, got %q", got)
	}
}

func TestManager_IdleTimeoutReturnsStaleSession(t *testing.T) {
	mgr, clock := newTestManager(t)
	sess, err := mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	sess.SignIn(User{UID: "u-1", Username: "TestUser"}, "tok")
	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")

	clock.current = clock.current.Add(20 * time.Minute)
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	stale, err := mgr.Load(req2)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if stale == nil || !stale.Authenticated() {
		t.Fatalf("expected stale authenticated session alongside ErrExpired")
	}
}

func TestManager_Destroy(t *testing.T) {
	mgr, _ := newTestManager(t)
	sess, _ := mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	rec := httptest.NewRecorder()
	sess.Destroy()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("expected session cookie cleared")
	}
}

func TestSession_SignOutKeepsSession(t *testing.T) {
	mgr, _ := newTestManager(t)
	sess := mgr.New()
	sess.SignIn(User{UID: "u-1"}, "tok")
	id := sess.ID()

	sess.SignOut()
	if sess.Authenticated() || sess.User() != nil || sess.Token() != "" {
		t.Fatalf("expected signed out session")
	}
	if sess.ID() != id || sess.Destroyed() {
		t.Fatalf("sign out must keep the session alive")
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
