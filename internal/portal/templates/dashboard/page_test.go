package dashboard

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	portaldashboard "finitefield.org/storefront-portal/internal/portal/dashboard"
	"finitefield.org/storefront-portal/internal/portal/httpserver/middleware"
	"finitefield.org/storefront-portal/internal/portal/loginflow"
	"finitefield.org/storefront-portal/internal/portal/products"
)

func render(t *testing.T, ctx context.Context, c interface {
	Render(context.Context, io.Writer) error
}) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc
}

func TestPageShowsAdminLinkOnlyForAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	admin := render(t, ctx, Page(BuildPageData(ctx, portaldashboard.NewHeader(&loginflow.User{Username: "Admin", Role: "admin"}))))
	require.Equal(t, "儀表板", admin.Find("h1").Text())
	require.Equal(t, "Welcome, Admin", admin.Find("[data-welcome]").Text())
	link := admin.Find("[data-admin-link]")
	require.Equal(t, 1, link.Length())
	require.Equal(t, "/admin", link.AttrOr("href", ""))
	require.Equal(t, "🛠️ 管理後台", link.Text())

	user := render(t, ctx, Page(BuildPageData(ctx, portaldashboard.NewHeader(&loginflow.User{Username: "TestUser", Role: "user"}))))
	require.Equal(t, 0, user.Find("[data-admin-link]").Length())
	require.Equal(t, "登出", strings.TrimSpace(user.Find("[data-logout-form] button").Text()))
	require.Equal(t, "/logout", user.Find("[data-logout-form]").AttrOr("action", ""))
}

func TestPageStartsWithLoadingPlaceholder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc := render(t, ctx, Page(BuildPageData(ctx, portaldashboard.NewHeader(&loginflow.User{Username: "TestUser"}))))
	container := doc.Find("[data-products]")
	require.Equal(t, "/dashboard/products", container.AttrOr("hx-get", ""))
	require.Equal(t, "load", container.AttrOr("hx-trigger", ""))
	require.Equal(t, "載入商品中...", container.Find("[data-products-loading]").Text())
}

func TestProductsFragmentStates(t *testing.T) {
	t.Parallel()
	ctx := middleware.WithUser(context.Background(), &middleware.User{UID: "u-1"})

	loaded := render(t, ctx, ProductsFragment(ProductsPayload(ctx, portaldashboard.ProductsState{
		Products: []products.Product{
			{ID: 1, Name: "Product 1", Price: 100, Description: "**Bold**"},
			{ID: 2, Name: "Product 2", Price: 200},
		},
	})))
	cards := loaded.Find(".product-card")
	require.Equal(t, 2, cards.Length())
	require.Equal(t, "Product 1", cards.First().Find(".product-name").Text())
	require.Equal(t, "NT$ 100", cards.First().Find(".price").Text())
	require.Equal(t, "NT$ 200", cards.Last().Find(".price").Text())
	require.Equal(t, "Bold", cards.First().Find(".description strong").Text())

	failed := render(t, ctx, ProductsFragment(ProductsPayload(ctx, portaldashboard.ProductsState{Error: "伺服器忙碌中"})))
	require.Equal(t, "伺服器忙碌中", failed.Find("[data-products-error]").Text())
	require.Equal(t, 0, failed.Find(".product-card").Length())

	empty := render(t, ctx, ProductsFragment(ProductsPayload(ctx, portaldashboard.ProductsState{Products: []products.Product{}})))
	require.Equal(t, "目前沒有商品", empty.Find("[data-products-empty]").Text())
}
