package helpers

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"finitefield.org/storefront-portal/internal/portal/i18n"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	policy   = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return p
	})
)

// Price formats whole New Taiwan dollars, e.g. "NT$ 1,280".
func Price(loc i18n.Localizer, amount int64) string {
	return loc.F("dashboard.products.price", loc.Number(amount))
}

// Markdown converts product copy to sanitized HTML. Conversion failures fall
// back to the escaped source text.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return templ.EscapeString(src)
	}
	return policy().Sanitize(buf.String())
}

// RoleBadgeClass returns the class list for a role badge.
func RoleBadgeClass(role string) string {
	if role == "" {
		role = "user"
	}
	return "role-badge " + role
}

// TextComponent returns a templ component that renders escaped text.
func TextComponent(value string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(value))
		return err
	})
}
