package dashboard

import (
	"context"
	"errors"
	"fmt"

	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/products"
	"finitefield.org/storefront-portal/internal/portal/rbac"
)

// ErrNotConfigured indicates the dashboard has no product source.
var ErrNotConfigured = errors.New("dashboard product source not configured")

// FallbackErrorMessage is shown when a failure carries no displayable text.
const FallbackErrorMessage = "無法載入商品資料"

// Header describes the dashboard title bar for the signed-in user.
type Header struct {
	Username      string
	Role          rbac.Role
	ShowAdminLink bool
	AdminPath     string
	LogoutPath    string
}

// NewHeader builds the header for user. The admin link is only offered to roles
// holding the admin console capability.
func NewHeader(user *loginflow.User) Header {
	h := Header{
		AdminPath:  loginflow.AdminPath,
		LogoutPath: "/logout",
	}
	if user == nil {
		return h
	}
	h.Username = user.Username
	h.Role = rbac.Normalise(user.Role)
	h.ShowAdminLink = rbac.HasCapability(user.Role, rbac.CapAdminConsole)
	return h
}

// ProductsState is the product list lifecycle: loading, loaded or failed.
type ProductsState struct {
	Loading  bool
	Products []products.Product
	// Error is the display text of a failed load; empty on success.
	Error string
	Err   error
}

// Loading is the state rendered before the product fragment arrives.
func Loading() ProductsState {
	return ProductsState{Loading: true}
}

// LoadProducts fetches the product list once. Failures are not retried.
func LoadProducts(ctx context.Context, source products.Service, token string) ProductsState {
	if source == nil {
		return ProductsState{Error: FallbackErrorMessage, Err: ErrNotConfigured}
	}
	items, err := source.GetProducts(ctx, token)
	if err != nil {
		return ProductsState{
			Error: messageFor(err),
			Err:   fmt.Errorf("dashboard: load products: %w", err),
		}
	}
	if items == nil {
		items = []products.Product{}
	}
	return ProductsState{Products: items}
}

func messageFor(err error) string {
	if msg := loginflow.MessageFromError(err); msg != "" {
		return msg
	}
	return FallbackErrorMessage
}
