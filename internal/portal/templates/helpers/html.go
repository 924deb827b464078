package helpers

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup for hand-built components. It keeps the first write error
// so a component can be written top to bottom and checked once at the end.
type HTML struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewHTML wraps w for a component render.
func NewHTML(ctx context.Context, w io.Writer) *HTML {
	return &HTML{ctx: ctx, w: w}
}

// Raw writes trusted markup unchanged.
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

// Text writes s with HTML escaping.
func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped.
func (h *HTML) Attr(name, value string) *HTML {
	return h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// AttrIf writes a boolean attribute when on is true.
func (h *HTML) AttrIf(on bool, name string) *HTML {
	if !on {
		return h
	}
	return h.Raw(" " + name)
}

// Component renders a nested component.
func (h *HTML) Component(c templ.Component) *HTML {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
	return h
}

// Err returns the first error encountered.
func (h *HTML) Err() error { return h.err }
