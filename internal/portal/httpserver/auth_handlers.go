package httpserver

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	custommw "finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/identity"
	"finitefield.org/storefront-portal/internal/portal/logging"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/metrics"
	appsession "finitefield.org/storefront-portal/internal/portal/session"
	"finitefield.org/storefront-portal/internal/portal/templates/auth"
)

type authHandlers struct {
	provider identity.Provider
	metrics  *metrics.Metrics
}

func newAuthHandlers(provider identity.Provider, m *metrics.Metrics) *authHandlers {
	if provider == nil {
		panic("auth: identity provider is required")
	}
	return &authHandlers{provider: provider, metrics: m}
}

// LoginForm mounts the login flow: signed-in sessions go straight to the
// dashboard, everyone else gets the form with any pending expired notice.
func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctrl, nav, _, err := h.controller(w, r, sess)
	if err != nil {
		logging.FromContext(r.Context()).Error("login controller", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	state, navigated := ctrl.Mount(r.Context(), loginflow.State{})
	if navigated {
		logging.FromContext(r.Context()).Debug("login skipped for signed-in session", zap.String("target", nav.target))
		return
	}
	h.renderLoginPage(w, r, state, sess.TakeFlash(), http.StatusOK)
}

// LoginSubmit runs validation and, when both fields pass, the login call.
func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		state := loginflow.State{ErrorKey: "login.error.form"}
		h.renderLoginPage(w, r, state, "", http.StatusBadRequest)
		return
	}
	ctrl, _, authCtx, err := h.controller(w, r, sess)
	if err != nil {
		logger.Error("login controller", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	creds := loginflow.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	state, navigated := ctrl.Submit(r.Context(), loginflow.State{}, creds)
	if navigated {
		h.metrics.LoginAttempt(metrics.LoginSucceeded)
		logger.Info("login succeeded", zap.String("user_id", sess.User().UID))
		return
	}

	status := http.StatusUnprocessableEntity
	switch {
	case authCtx.lastErr == nil:
		h.metrics.LoginAttempt(metrics.LoginInvalid)
	case errors.Is(authCtx.lastErr, identity.ErrInvalidCredentials):
		h.metrics.LoginAttempt(metrics.LoginRejected)
		logger.Info("login rejected", zap.Error(authCtx.lastErr))
		status = http.StatusUnauthorized
	default:
		h.metrics.LoginAttempt(metrics.LoginError)
		logger.Warn("login failed", zap.Error(authCtx.lastErr))
		status = http.StatusBadGateway
	}
	h.renderLoginPage(w, r, state, "", status)
}

// Logout signs the session out and returns to the login page.
func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if sess.Authenticated() {
		sess.SetFlash(custommw.LocalizerFromContext(r.Context()).T("login.logged_out"))
	}
	loginflow.Logout(newSessionAuth(sess, h.provider), newNavigator(w, r, sess))
}

func (h *authHandlers) controller(w http.ResponseWriter, r *http.Request, sess *appsession.Session) (*loginflow.Controller, *httpNavigator, *sessionAuth, error) {
	authCtx := newSessionAuth(sess, h.provider)
	nav := newNavigator(w, r, sess)
	ctrl, err := loginflow.NewController(authCtx, nav)
	return ctrl, nav, authCtx, err
}

func (h *authHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, state loginflow.State, flash string, status int) {
	view := loginflow.Render(state, custommw.LocalizerFromContext(r.Context()))
	data := auth.BuildLoginPageData(r.Context(), view, flash)
	templ.Handler(auth.LoginPage(data), templ.WithStatus(status)).ServeHTTP(w, r)
}
