package layout

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/templates/helpers"
)

const htmxSrc = "https://unpkg.com/htmx.org@1.9.12"

// Page carries the document chrome shared by every full page.
type Page struct {
	Title       string
	AppName     string
	Lang        string
	CSRFToken   string
	Environment string
}

// PageFromContext fills the chrome from request-scoped middleware values.
func PageFromContext(ctx context.Context, titleKey string) Page {
	loc := middleware.LocalizerFromContext(ctx)
	return Page{
		Title:       loc.T(titleKey),
		AppName:     loc.T("app.name"),
		Lang:        loc.Lang(),
		CSRFToken:   middleware.CSRFTokenFromContext(ctx),
		Environment: middleware.EnvironmentFromContext(ctx),
	}
}

// Base wraps body in the HTML document.
func Base(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := p.Lang
		if lang == "" {
			lang = "zh-TW"
		}
		title := p.Title
		if p.AppName != "" && p.AppName != p.Title {
			title = p.Title + " · " + p.AppName
		}

		h := helpers.NewHTML(ctx, w)
		h.Raw("<!DOCTYPE html><html").Attr("lang", lang).Raw(">")
		h.Raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw("<title>").Text(title).Raw("</title>")
		h.Raw(`<link rel="stylesheet" href="/public/static/app.css">`)
		h.Raw("<script defer").Attr("src", htmxSrc).Raw("></script>")
		if p.CSRFToken != "" {
			h.Raw(`<meta name="csrf-token"`).Attr("content", p.CSRFToken).Raw(">")
		}
		h.Raw("</head><body")
		if p.CSRFToken != "" {
			h.Attr("hx-headers", fmt.Sprintf(`{"X-CSRF-Token":%q}`, p.CSRFToken))
		}
		h.Attr("data-environment", p.Environment).Raw(">")
		if p.Environment != "" && !strings.EqualFold(p.Environment, "production") {
			h.Raw(`<div class="env-badge" data-environment-badge>`).Text(p.Environment).Raw("</div>")
		}
		h.Raw(`<main class="container">`).Component(body).Raw("</main></body></html>")
		return h.Err()
	})
}

// Message renders a standalone notice page such as the 403 response.
func Message(p Page, heading, text, backHref, backLabel string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTML(ctx, w)
		h.Raw(`<section class="card message" data-message-page>`)
		h.Raw("<h1>").Text(heading).Raw("</h1>")
		h.Raw("<p>").Text(text).Raw("</p>")
		if backHref != "" {
			h.Raw("<a").Attr("href", backHref).Raw(">").Text(backLabel).Raw("</a>")
		}
		h.Raw("</section>")
		return h.Err()
	})
	return Base(p, body)
}

// LogoutForm renders the sign-out button as a CSRF-protected POST form.
func LogoutForm(csrfToken, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTML(ctx, w)
		h.Raw(`<form method="post" action="/logout" class="logout-form" data-logout-form>`)
		h.Raw(`<input type="hidden"`).Attr("name", middleware.DefaultCSRFField).Attr("value", csrfToken).Raw(">")
		h.Raw(`<button type="submit" class="logout-button">`).Text(label).Raw("</button></form>")
		return h.Err()
	})
}
