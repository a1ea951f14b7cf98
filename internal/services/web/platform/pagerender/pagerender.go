// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	"github.com/louisbranch/hubbble/internal/services/web/platform/flash"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

// RequestResolver supplies the request-scoped chrome a layout needs.
type RequestResolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	FlashStore() flash.Store
}

// Page describes one rendered response.
type Page struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// WriteAppPage renders page inside the app shell, or the bare fragment for
// HTMX requests that swap #main.
func WriteAppPage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page Page) error {
	if httpx.IsHTMXRequest(r) {
		return WriteFragment(w, r, page.StatusCode, page.Fragment)
	}
	return writeDocument(w, r, resolver, page, webtemplates.AppLayout)
}

// WritePublicPage renders page inside the signed-out auth layout.
func WritePublicPage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page Page) error {
	return writeDocument(w, r, resolver, page, webtemplates.AuthLayout)
}

// WriteFragment renders a bare component. Nothing is written when
// rendering fails so the caller can still report the error.
func WriteFragment(w http.ResponseWriter, r *http.Request, statusCode int, fragment templ.Component) error {
	if w == nil {
		return nil
	}
	if fragment == nil {
		fragment = templ.NopComponent
	}
	var buf bytes.Buffer
	if err := fragment.Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	return flush(w, statusCode, &buf)
}

func writeDocument(
	w http.ResponseWriter,
	r *http.Request,
	resolver RequestResolver,
	page Page,
	layout func(webtemplates.PageMeta) templ.Component,
) error {
	if w == nil {
		return nil
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}
	meta := PageMeta(w, r, resolver, page.Title)
	var buf bytes.Buffer
	if err := layout(meta).Render(templ.WithChildren(httpx.RequestContext(r), fragment), &buf); err != nil {
		return err
	}
	return flush(w, page.StatusCode, &buf)
}

// PageMeta resolves the language, viewer and pending flash notice for r.
func PageMeta(w http.ResponseWriter, r *http.Request, resolver RequestResolver, title string) webtemplates.PageMeta {
	tag, loc := webi18n.Resolve(w, r)
	meta := webtemplates.PageMeta{Title: title, Lang: tag, Loc: loc}
	if r != nil && r.URL != nil {
		meta.Path = r.URL.Path
		meta.Query = r.URL.RawQuery
	}
	var notices flash.Store
	if resolver != nil {
		meta.Viewer = resolver.ResolveRequestViewer(r)
		notices = resolver.FlashStore()
	}
	if notice, ok := notices.Take(w, r); ok {
		meta.Notice = &webtemplates.Notice{
			Kind:    string(notice.Kind),
			Message: webi18n.T(loc, notice.Key, notice.Key),
		}
	}
	return meta
}

func flush(w http.ResponseWriter, statusCode int, buf *bytes.Buffer) error {
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write(buf.Bytes())
	return err
}
