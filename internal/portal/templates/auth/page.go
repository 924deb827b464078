package auth

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/templates/helpers"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// LoginPage renders the full login document.
func LoginPage(data LoginPageData) templ.Component {
	return layout.Base(data.Page, LoginForm(data))
}

// LoginForm renders the credential form. The password input never carries a value.
func LoginForm(data LoginPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		f := data.Form
		h := helpers.NewHTML(ctx, w)
		h.Raw(`<section class="card login-card" data-login>`)
		h.Raw("<h1>").Text(data.Heading).Raw("</h1>")
		h.Raw(`<p class="subtitle">`).Text(data.Subtitle).Raw("</p>")

		if data.Flash != "" {
			h.Raw(`<div class="flash" role="status" data-flash>`).Text(data.Flash).Raw("</div>")
		}
		if f.Notice != "" {
			h.Raw(`<div class="notice" role="status" data-notice>`).Text(f.Notice).Raw("</div>")
		}
		if f.Error != "" {
			h.Raw(`<div class="error-banner" role="alert" data-login-error>`).Text(f.Error).Raw("</div>")
		}

		h.Raw(`<form method="post" novalidate data-login-form`).Attr("action", data.Action).Raw(">")
		h.Raw(`<input type="hidden"`).Attr("name", middleware.DefaultCSRFField).Attr("value", data.CSRFToken).Raw(">")

		h.Raw(`<div class="field">`)
		h.Raw(`<label for="email">`).Text(data.EmailLabel).Raw("</label>")
		h.Raw(`<input id="email" name="email" type="email" autocomplete="username"`).Attr("value", f.Email)
		if f.EmailError != "" {
			h.Raw(` aria-invalid="true" aria-describedby="email-error"`)
		}
		h.Raw(">")
		if f.EmailError != "" {
			h.Raw(`<p id="email-error" class="field-error" data-field-error="email">`).Text(f.EmailError).Raw("</p>")
		}
		h.Raw("</div>")

		h.Raw(`<div class="field">`)
		h.Raw(`<label for="password">`).Text(data.PasswordLabel).Raw("</label>")
		h.Raw(`<input id="password" name="password" type="password" autocomplete="current-password"`)
		if f.PasswordError != "" {
			h.Raw(` aria-invalid="true" aria-describedby="password-error"`)
		}
		h.Raw(">")
		if f.PasswordError != "" {
			h.Raw(`<p id="password-error" class="field-error" data-field-error="password">`).Text(f.PasswordError).Raw("</p>")
		}
		h.Raw("</div>")

		h.Raw(`<button type="submit" class="primary"`).AttrIf(f.SubmitDisabled, "disabled").Raw(">").Text(data.SubmitLabel).Raw("</button>")
		h.Raw("</form></section>")
		return h.Err()
	})
}
