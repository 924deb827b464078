package admin

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"finitefield.org/storefront-portal/internal/portal/templates/helpers"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// Page renders the admin console document.
func Page(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTML(ctx, w)
		h.Raw(`<header class="page-header" data-admin-header>`)
		h.Raw(`<a class="back-link" data-back-link`).Attr("href", data.BackHref).Raw(">").Text(data.BackLabel).Raw("</a>")
		h.Raw("<h1>").Text(data.Title).Raw("</h1>")
		h.Component(layout.LogoutForm(data.CSRFToken, data.LogoutLabel))
		h.Raw("</header>")

		h.Raw(`<section class="card">`)
		h.Raw(`<p class="restricted" data-restricted>`).Text(data.Restricted).Raw("</p>")
		h.Raw(`<p class="account">`).Text(data.Username).Raw(" ")
		h.Raw("<span").Attr("class", data.RoleClass).Raw(" data-role-badge>").Text(data.RoleLabel).Raw("</span>")
		h.Raw("</p></section>")
		return h.Err()
	})
	return layout.Base(data.Page, body)
}
