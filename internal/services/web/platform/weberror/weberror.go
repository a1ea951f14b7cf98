// Package weberror renders shared error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message. Raw error
// text is never returned.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	fallback := strings.TrimSpace(http.StatusText(statusCode))
	if fallback == "" {
		fallback = http.StatusText(http.StatusInternalServerError)
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		return webi18n.T(loc, key, fallback)
	}
	return fallback
}

// WriteAppError writes an error page inside the app shell.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, message string, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	_, loc := webi18n.Resolve(w, r)
	page := pagerender.Page{
		Title:      webtemplates.ErrorPageTitle(statusCode, loc),
		StatusCode: statusCode,
		Fragment:   webtemplates.ErrorState(statusCode, message, loc),
	}
	if err := pagerender.WriteAppPage(w, r, resolver, page); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WritePublicError writes an error page inside the signed-out layout.
func WritePublicError(w http.ResponseWriter, r *http.Request, statusCode int, message string, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	_, loc := webi18n.Resolve(w, r)
	page := pagerender.Page{
		Title:      webtemplates.ErrorPageTitle(statusCode, loc),
		StatusCode: statusCode,
		Fragment:   webtemplates.ErrorState(statusCode, message, loc),
	}
	if err := pagerender.WritePublicPage(w, r, resolver, page); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes a localized error response for err: an error page
// for not-found and server failures, plain text otherwise.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	_, loc := webi18n.Resolve(w, r)
	message := PublicMessage(loc, err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, message, resolver)
		return
	}
	http.Error(w, message, statusCode)
}
