package dashboard

import (
	"context"
	"strconv"

	portaldashboard "finitefield.org/storefront-portal/internal/portal/dashboard"
	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/templates/helpers"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// ProductsEndpoint serves the product list fragment.
const ProductsEndpoint = "/dashboard/products"

// PageData represents the full dashboard SSR payload.
type PageData struct {
	Page             layout.Page
	Header           portaldashboard.Header
	Title            string
	Welcome          string
	AdminLinkLabel   string
	LogoutLabel      string
	ProductsHeading  string
	ProductsEndpoint string
	Products         ProductsFragmentData
	CSRFToken        string
}

// ProductsFragmentData holds one state of the product list.
type ProductsFragmentData struct {
	Loading     bool
	LoadingText string
	Products    []ProductView
	Error       string
	EmptyText   string
}

// ProductView is the rendered representation of a product card.
type ProductView struct {
	ID              string
	Name            string
	Price           string
	DescriptionHTML string
}

// BuildPageData prepares the page; the product list starts in its loading state.
func BuildPageData(ctx context.Context, header portaldashboard.Header) PageData {
	loc := middleware.LocalizerFromContext(ctx)
	return PageData{
		Page:             layout.PageFromContext(ctx, "dashboard.title"),
		Header:           header,
		Title:            loc.T("dashboard.title"),
		Welcome:          loc.F("dashboard.welcome", header.Username),
		AdminLinkLabel:   loc.T("dashboard.admin_link"),
		LogoutLabel:      loc.T("common.logout"),
		ProductsHeading:  loc.T("dashboard.products.heading"),
		ProductsEndpoint: ProductsEndpoint,
		Products:         ProductsPayload(ctx, portaldashboard.Loading()),
		CSRFToken:        middleware.CSRFTokenFromContext(ctx),
	}
}

// ProductsPayload converts a load result into display values.
func ProductsPayload(ctx context.Context, state portaldashboard.ProductsState) ProductsFragmentData {
	loc := middleware.LocalizerFromContext(ctx)
	data := ProductsFragmentData{
		Loading:     state.Loading,
		LoadingText: loc.T("dashboard.products.loading"),
		Error:       state.Error,
		EmptyText:   loc.T("dashboard.products.empty"),
	}
	for _, p := range state.Products {
		data.Products = append(data.Products, ProductView{
			ID:              strconv.FormatInt(p.ID, 10),
			Name:            p.Name,
			Price:           helpers.Price(loc, p.Price),
			DescriptionHTML: helpers.Markdown(p.Description),
		})
	}
	return data
}
