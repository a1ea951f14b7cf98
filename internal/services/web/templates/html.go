package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
)

// Localizer renders catalog copy for views.
type Localizer = webi18n.Localizer

func t(loc Localizer, key string, fallback string, args ...any) string {
	return webi18n.T(loc, key, fallback, args...)
}

// markup accumulates escaped HTML and keeps the first write error.
type markup struct {
	w   io.Writer
	err error
}

func component(fn func(ctx context.Context, m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		fn(ctx, m)
		return m.err
	})
}

func (m *markup) raw(parts ...string) {
	for _, part := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, part)
	}
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) attr(name, value string) {
	m.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (m *markup) attrIf(cond bool, name, value string) {
	if cond {
		m.attr(name, value)
	}
}

func (m *markup) flag(cond bool, name string) {
	if cond {
		m.raw(" ", name)
	}
}

func (m *markup) href(name, value string) {
	m.attr(name, string(templ.URL(value)))
}

func (m *markup) intAttr(name string, value int) {
	m.attr(name, strconv.Itoa(value))
}

// open writes "<tag" and attrs; callers close with m.raw(">").
func (m *markup) open(tag string, attrs ...string) {
	m.raw("<", tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		m.attr(attrs[i], attrs[i+1])
	}
}

func (m *markup) element(tag string, class string, body string) {
	m.open(tag)
	m.attrIf(class != "", "class", class)
	m.raw(">")
	m.text(body)
	m.raw("</", tag, ">")
}

func (m *markup) render(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

func (m *markup) children(ctx context.Context) {
	children := templ.GetChildren(ctx)
	m.render(templ.ClearChildren(ctx), children)
}

// Fragments renders components back to back, for responses that carry
// out-of-band swaps next to the primary target.
func Fragments(components ...templ.Component) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		for _, c := range components {
			m.render(ctx, c)
		}
	})
}
