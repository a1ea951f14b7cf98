package templates

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

// ErrorPageTitle returns the document title for an error page.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return t(loc, "error.not_found", "Page not found")
	}
	return t(loc, "core.error.title", "Something went wrong")
}

// ErrorState renders the body of an error page.
func ErrorState(statusCode int, message string, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<section id="app-error-state" class="error-state" role="alert">`)
		m.element("h1", "", ErrorPageTitle(statusCode, loc))
		if message != "" {
			m.element("p", "", message)
		}
		m.open("a", "class", "button", "href", routepath.Root)
		m.raw(">")
		m.text(t(loc, "core.error.back_home", "Back to home"))
		m.raw("</a></section>")
	})
}

// Banner renders an inline error above a form.
func Banner(message string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		if message == "" {
			return
		}
		m.open("div", "class", "banner banner-error", "role", "alert")
		m.raw(">")
		m.text(message)
		m.raw("</div>")
	})
}
