package admin

import (
	"context"

	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/rbac"
	"finitefield.org/storefront-portal/internal/portal/templates/helpers"
	"finitefield.org/storefront-portal/internal/portal/templates/layout"
)

// PageData is the admin console payload.
type PageData struct {
	Page        layout.Page
	Title       string
	BackHref    string
	BackLabel   string
	LogoutLabel string
	Restricted  string
	Username    string
	RoleClass   string
	RoleLabel   string
	CSRFToken   string
}

// BuildPageData prepares the admin console for the signed-in user.
func BuildPageData(ctx context.Context) PageData {
	loc := middleware.LocalizerFromContext(ctx)
	role := helpers.CurrentRole(ctx)
	if role != rbac.RoleAdmin {
		role = rbac.RoleUser
	}
	username := ""
	if user, ok := middleware.UserFromContext(ctx); ok {
		username = user.Username
	}
	return PageData{
		Page:        layout.PageFromContext(ctx, "admin.title"),
		Title:       loc.T("admin.title"),
		BackHref:    loginflow.DashboardPath,
		BackLabel:   loc.T("admin.back"),
		LogoutLabel: loc.T("common.logout"),
		Restricted:  loc.T("admin.restricted"),
		Username:    username,
		RoleClass:   helpers.RoleBadgeClass(string(role)),
		RoleLabel:   loc.T("admin.role." + string(role)),
		CSRFToken:   middleware.CSRFTokenFromContext(ctx),
	}
}
