// Package publichandler provides a shared base for unauthenticated web module handlers.
// It centralizes error handling, localization and page rendering that would
// otherwise be duplicated across public modules.
package publichandler

import (
	"net/http"

	"github.com/a-h/templ"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
	"github.com/louisbranch/hubbble/internal/services/web/platform/flash"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/platform/pagerender"
	"github.com/louisbranch/hubbble/internal/services/web/platform/weberror"
	"golang.org/x/text/language"
)

// Base provides shared error handling and page rendering for public modules.
type Base struct {
	resolveViewer   module.ResolveViewer
	resolveSignedIn module.ResolveSignedIn
	flash           flash.Store
}

// Option configures a Base.
type Option func(*Base)

// WithDependencies copies the viewer, signed-in and flash wiring from deps.
func WithDependencies(deps module.Dependencies) Option {
	return func(b *Base) {
		b.resolveViewer = deps.ResolveViewer
		b.resolveSignedIn = deps.ResolveSignedIn
		b.flash = deps.Flash
	}
}

// WithResolveViewer attaches a viewer resolver.
func WithResolveViewer(rv module.ResolveViewer) Option {
	return func(b *Base) { b.resolveViewer = rv }
}

// WithResolveViewerSignedIn attaches a direct signed-in resolver.
func WithResolveViewerSignedIn(resolver module.ResolveSignedIn) Option {
	return func(b *Base) { b.resolveSignedIn = resolver }
}

// NewBase builds a public handler base with the given options.
func NewBase(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		if o != nil {
			o(&b)
		}
	}
	return b
}

// ResolveRequestViewer resolves viewer state for the request.
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

// IsViewerSignedIn reports whether the current request is authenticated.
func (b Base) IsViewerSignedIn(r *http.Request) bool {
	if b.resolveSignedIn != nil {
		return b.resolveSignedIn(r)
	}
	return false
}

// PageLocalizer resolves the request language and its printer.
func (Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webi18n.Localizer, language.Tag) {
	tag, loc := webi18n.Resolve(w, r)
	return loc, tag
}

// WritePublicPage renders a full public page using the auth layout.
func (b Base) WritePublicPage(w http.ResponseWriter, r *http.Request, title string, statusCode int, body templ.Component) {
	if err := pagerender.WritePublicPage(w, r, b, pagerender.Page{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   body,
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

// WriteNotFound renders a localized 404 error page using the public layout.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	_, loc := webi18n.Resolve(w, r)
	weberror.WritePublicError(w, r, http.StatusNotFound, webi18n.T(loc, "error.not_found", "Page not found"), b)
}

// WriteError renders a user-safe error response: error pages for not-found
// and server errors, plain-text status messages for everything else.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	err = apperrors.MapPortalError(err)
	statusCode := apperrors.HTTPStatus(err)
	_, loc := webi18n.Resolve(w, r)
	message := weberror.PublicMessage(loc, err)
	if weberror.ShouldRenderAppError(statusCode) {
		weberror.WritePublicError(w, r, statusCode, message, b)
		return
	}
	http.Error(w, message, statusCode)
}
