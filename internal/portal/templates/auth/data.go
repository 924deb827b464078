package auth

import (
	"context"

	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// LoginPageData encapsulates rendering state for the login screen.
type LoginPageData struct {
	Page          layout.Page
	Form          loginflow.View
	Heading       string
	Subtitle      string
	EmailLabel    string
	PasswordLabel string
	SubmitLabel   string
	Flash         string
	Action        string
	CSRFToken     string
}

// BuildLoginPageData localizes the form projection for the current request.
func BuildLoginPageData(ctx context.Context, form loginflow.View, flash string) LoginPageData {
	loc := middleware.LocalizerFromContext(ctx)
	submit := loc.T("login.submit")
	if form.SubmitDisabled {
		submit = loc.T("login.submitting")
	}
	return LoginPageData{
		Page:          layout.PageFromContext(ctx, "login.title"),
		Form:          form,
		Heading:       loc.T("login.title"),
		Subtitle:      loc.T("login.subtitle"),
		EmailLabel:    loc.T("login.email"),
		PasswordLabel: loc.T("login.password"),
		SubmitLabel:   submit,
		Flash:         flash,
		Action:        loginflow.LoginPath,
		CSRFToken:     middleware.CSRFTokenFromContext(ctx),
	}
}
