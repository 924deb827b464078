package dashboard

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"finitefield.org/storefront-portal/internal/portal/templates/helpers"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// Page renders the dashboard document.
func Page(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTML(ctx, w)
		h.Raw(`<header class="page-header" data-dashboard-header>`)
		h.Raw("<h1>").Text(data.Title).Raw("</h1>")
		h.Raw(`<p class="welcome" data-welcome>`).Text(data.Welcome).Raw("</p>")
		h.Raw(`<nav class="header-actions">`)
		if data.Header.ShowAdminLink {
			h.Raw(`<a class="admin-link" data-admin-link`).Attr("href", data.Header.AdminPath).Raw(">").Text(data.AdminLinkLabel).Raw("</a>")
		}
		h.Component(layout.LogoutForm(data.CSRFToken, data.LogoutLabel))
		h.Raw("</nav></header>")

		h.Raw(`<section class="products">`)
		h.Raw("<h2>").Text(data.ProductsHeading).Raw("</h2>")
		h.Raw(`<div id="products" hx-trigger="load" hx-swap="innerHTML" data-products`).Attr("hx-get", data.ProductsEndpoint).Raw(">")
		h.Component(ProductsFragment(data.Products))
		h.Raw("</div></section>")
		return h.Err()
	})
	return layout.Base(data.Page, body)
}

// ProductsFragment renders the product list in its loading, failed or loaded state.
func ProductsFragment(data ProductsFragmentData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTML(ctx, w)
		switch {
		case data.Loading:
			h.Raw(`<p class="loading" aria-busy="true" data-products-loading>`).Text(data.LoadingText).Raw("</p>")
		case data.Error != "":
			h.Raw(`<div class="error-banner" role="alert" data-products-error>`).Text(data.Error).Raw("</div>")
		case len(data.Products) == 0:
			h.Raw(`<p class="empty" data-products-empty>`).Text(data.EmptyText).Raw("</p>")
		default:
			h.Raw(`<ul class="product-grid">`)
			for _, p := range data.Products {
				h.Raw(`<li class="product-card"`).Attr("data-product-id", p.ID).Raw(">")
				h.Raw(`<h3 class="product-name">`).Text(p.Name).Raw("</h3>")
				h.Raw(`<p class="price">`).Text(p.Price).Raw("</p>")
				// DescriptionHTML has been through the sanitizer.
				h.Raw(`<div class="description">`).Raw(p.DescriptionHTML).Raw("</div>")
				h.Raw("</li>")
			}
			h.Raw("</ul>")
		}
		return h.Err()
	})
}
