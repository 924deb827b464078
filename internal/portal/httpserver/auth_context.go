package httpserver

import (
	"context"
	"net/http"
	"strings"

	custommw "finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/identity"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	appsession "finitefield.org/storefront-portal/internal/portal/session"
)

// sessionAuth exposes the request session and identity provider as the
// capabilities the login flow may call.
type sessionAuth struct {
	sess     *appsession.Session
	provider identity.Provider
	// lastErr keeps the most recent Login failure for logging and metrics.
	lastErr error
}

func newSessionAuth(sess *appsession.Session, provider identity.Provider) *sessionAuth {
	return &sessionAuth{sess: sess, provider: provider}
}

func (a *sessionAuth) Session() loginflow.Session {
	out := loginflow.Session{
		IsAuthenticated:    a.sess.Authenticated(),
		AuthExpiredMessage: a.sess.AuthExpiredMessage(),
	}
	if u := a.sess.User(); u != nil && out.IsAuthenticated {
		out.User = &loginflow.User{Username: u.Username, Role: u.Role}
	}
	return out
}

func (a *sessionAuth) Login(ctx context.Context, email, password string) error {
	id, err := a.provider.Login(ctx, email, password)
	if err != nil {
		a.lastErr = err
		return err
	}
	username := strings.TrimSpace(id.User.Username)
	if username == "" {
		username = id.User.Email
	}
	a.sess.SignIn(appsession.User{
		UID:      id.User.ID,
		Username: username,
		Email:    id.User.Email,
		Role:     id.User.Role,
	}, id.Token)
	return nil
}

func (a *sessionAuth) Logout() {
	a.sess.SignOut()
	a.sess.ClearAuthExpiredMessage()
}

func (a *sessionAuth) ClearAuthExpiredMessage() {
	a.sess.ClearAuthExpiredMessage()
}

// httpNavigator turns a navigation request into the response for this request.
// Only the first navigation is honoured since a response can redirect once.
type httpNavigator struct {
	w         http.ResponseWriter
	r         *http.Request
	sess      *appsession.Session
	navigated bool
	target    string
}

func newNavigator(w http.ResponseWriter, r *http.Request, sess *appsession.Session) *httpNavigator {
	return &httpNavigator{w: w, r: r, sess: sess}
}

// Navigate redirects to path. A string State travels to the next page as a
// flash message. After a form POST the redirect is 303, which also keeps the
// submission out of the browser history.
func (n *httpNavigator) Navigate(path string, opts loginflow.NavigateOptions) {
	if n.navigated {
		return
	}
	n.navigated = true
	n.target = path

	if msg, ok := opts.State.(string); ok && n.sess != nil {
		n.sess.SetFlash(msg)
	}

	status := http.StatusFound
	if n.r.Method != http.MethodGet && n.r.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	if opts.Replace && custommw.IsHTMXRequest(n.r.Context()) {
		n.w.Header().Set("HX-Replace-Url", path)
	}
	custommw.Redirect(n.w, n.r, path, status)
}
