// Package modulehandler provides a composable base for protected web module handlers.
//
// Protected modules (those mounted under /app/) share viewer resolution,
// localization, page rendering and error handling. Modules embed Base rather
// than duplicating that scaffold.
package modulehandler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/hubbble/internal/portalapi"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
	"github.com/louisbranch/hubbble/internal/services/web/platform/flash"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/platform/pagerender"
	"github.com/louisbranch/hubbble/internal/services/web/platform/weberror"
	"golang.org/x/text/language"
)

// Base carries the request-scoped resolvers used by protected module handlers.
type Base struct {
	resolveViewer      module.ResolveViewer
	handleUnauthorized module.HandleUnauthorized
	flash              flash.Store
}

// NewBase builds a handler base from module dependencies.
func NewBase(deps module.Dependencies) Base {
	return Base{
		resolveViewer:      deps.ResolveViewer,
		handleUnauthorized: deps.HandleUnauthorized,
		flash:              deps.Flash,
	}
}

// NewTestBase builds a handler base with no resolvers.
func NewTestBase() Base {
	return Base{}
}

// ResolveRequestViewer resolves app chrome viewer state for a request.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// FlashStore returns the notice store shared with the layouts.
func (b Base) FlashStore() flash.Store {
	return b.flash
}

// SetFlash queues a notice for the next rendered page.
func (b Base) SetFlash(w http.ResponseWriter, r *http.Request, notice flash.Notice) {
	b.flash.Set(w, r, notice)
}

// PageLocalizer resolves the request language and its printer.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webi18n.Localizer, language.Tag) {
	tag, loc := webi18n.Resolve(w, r)
	return loc, tag
}

// WritePage renders a module page, HTMX-aware.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteAppPage(w, r, b, pagerender.Page{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteFragment renders a bare HTMX fragment.
func (b Base) WriteFragment(w http.ResponseWriter, r *http.Request, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteFragment(w, r, statusCode, fragment); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteError renders a localized module error response. A portal API
// rejection of the session token tears the session down and redirects to
// the login page instead.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if b.HandleUnauthorized(w, r, err) {
		return
	}
	weberror.WriteModuleError(w, r, apperrors.MapPortalError(err), b)
}

// HandleUnauthorized runs the session teardown when err is a portal API
// auth failure and reports whether the response was written.
func (b Base) HandleUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !portalapi.IsAuth(err) || b.handleUnauthorized == nil {
		return false
	}
	return b.handleUnauthorized(w, r)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	_, loc := webi18n.Resolve(w, r)
	weberror.WriteAppError(w, r, http.StatusNotFound, webi18n.T(loc, "error.not_found", "Page not found"), b)
}
