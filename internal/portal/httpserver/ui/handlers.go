package ui

import (
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	portaldashboard "finitefield.org/storefront-portal/internal/portal/dashboard"
	custommw "finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/logging"
	"finitefield.org/storefront-portal/internal/portal/metrics"
	"finitefield.org/storefront-portal/internal/portal/products"
	admintpl "finitefield.org/storefront-portal/internal/portal/templates/admin"
	dashboardtpl "finitefield.org/storefront-portal/internal/portal/templates/dashboard"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	Products products.Service
	Metrics  *metrics.Metrics
}

// Handlers exposes HTTP handlers for the signed-in pages and fragments.
type Handlers struct {
	products products.Service
	metrics  *metrics.Metrics
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	service := deps.Products
	if service == nil {
		service = products.NewStaticService()
	}
	return &Handlers{
		products: service,
		metrics:  deps.Metrics,
	}
}

// Dashboard renders the dashboard shell with the product list still loading.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := custommw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	header := portaldashboard.NewHeader(&loginflow.User{Username: user.Username, Role: user.Role})
	templ.Handler(dashboardtpl.Page(dashboardtpl.BuildPageData(r.Context(), header))).ServeHTTP(w, r)
}

// ProductsFragment loads the product list with the session token and renders
// the cards, or the failure message.
func (h *Handlers) ProductsFragment(w http.ResponseWriter, r *http.Request) {
	user, ok := custommw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	state := portaldashboard.LoadProducts(r.Context(), h.products, user.Token)
	if state.Err != nil {
		logging.FromContext(r.Context()).Warn("product fetch failed", zap.Error(state.Err))
		h.metrics.ProductFetch(metrics.FetchError)
	} else {
		h.metrics.ProductFetch(metrics.FetchOK)
	}

	// Failures render as content so htmx swaps the message in.
	templ.Handler(dashboardtpl.ProductsFragment(dashboardtpl.ProductsPayload(r.Context(), state))).ServeHTTP(w, r)
}

// Admin renders the admin console. Access control happens in middleware.
func (h *Handlers) Admin(w http.ResponseWriter, r *http.Request) {
	templ.Handler(admintpl.Page(admintpl.BuildPageData(r.Context()))).ServeHTTP(w, r)
}

// Forbidden renders the 403 page for signed-in users lacking a capability.
func (h *Handlers) Forbidden(w http.ResponseWriter, r *http.Request) {
	loc := custommw.LocalizerFromContext(r.Context())
	page := layout.PageFromContext(r.Context(), "admin.restricted")
	component := layout.Message(page, loc.T("admin.restricted"), loc.T("common.forbidden"), loginflow.DashboardPath, loc.T("admin.back"))
	templ.Handler(component, templ.WithStatus(http.StatusForbidden)).ServeHTTP(w, r)
}
