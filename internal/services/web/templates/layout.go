package templates

import (
	"context"

	"github.com/a-h/templ"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	"golang.org/x/text/language"
)

const htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Notice is a one-time message shown above the page body.
type Notice struct {
	Kind    string
	Message string
}

// PageMeta carries the chrome shared by every full page.
type PageMeta struct {
	Title  string
	Lang   language.Tag
	Loc    Localizer
	Path   string
	Query  string
	Viewer module.Viewer
	Notice *Notice
}

func (p PageMeta) documentTitle() string {
	app := t(p.Loc, "core.app.name", "Hubbble")
	if p.Title == "" {
		return app
	}
	return p.Title + " · " + app
}

func documentHead(m *markup, meta PageMeta) {
	m.raw("<!doctype html>")
	m.open("html", "lang", meta.Lang.String())
	m.raw("><head><meta charset=\"utf-8\">")
	m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	m.raw("<title>")
	m.text(meta.documentTitle())
	m.raw("</title>")
	m.open("link", "rel", "stylesheet", "href", routepath.StaticPrefix+"app.css")
	m.raw(">")
	m.open("script", "src", htmxScriptURL, "defer", "defer")
	m.raw("></script></head>")
}

func noticeBanner(m *markup, notice *Notice) {
	if notice == nil || notice.Message == "" {
		return
	}
	m.open("div", "class", "notice notice-"+notice.Kind, "role", "status")
	m.raw(">")
	m.text(notice.Message)
	m.raw("</div>")
}

func languageSwitcher(m *markup, meta PageMeta) {
	m.open("nav", "class", "language-switcher", "aria-label", t(meta.Loc, "core.language.label", "Language"))
	m.raw(">")
	for _, option := range webi18n.BuildLanguageOptions(meta.Loc, meta.Lang, meta.Path, meta.Query) {
		m.open("a")
		m.href("href", option.URL)
		m.attr("hreflang", option.Tag)
		m.attrIf(option.Active, "aria-current", "true")
		m.raw(">")
		m.text(option.Label)
		m.raw("</a>")
	}
	m.raw("</nav>")
}

// AppLayout wraps its children in the signed-in application shell.
func AppLayout(meta PageMeta) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		documentHead(m, meta)
		m.raw(`<body class="app">`)
		m.open("a", "class", "skip-link", "href", "#main")
		m.raw(">")
		m.text(t(meta.Loc, "core.nav.skip", "Skip to content"))
		m.raw(`</a><header class="app-header">`)
		m.open("a", "class", "brand", "href", routepath.AppDashboard)
		m.raw(">")
		m.text(t(meta.Loc, "core.app.name", "Hubbble"))
		m.raw(`</a><nav class="app-nav">`)
		m.open("a", "href", routepath.AppDashboard)
		m.attrIf(meta.Path == routepath.AppDashboard, "aria-current", "page")
		m.raw(">")
		m.text(t(meta.Loc, "core.nav.dashboard", "Dashboard"))
		m.raw("</a>")
		m.open("a", "href", routepath.AppPortalsNew)
		m.attrIf(meta.Path == routepath.AppPortalsNew, "aria-current", "page")
		m.raw(">")
		m.text(t(meta.Loc, "core.nav.new_portal", "New portal"))
		m.raw("</a></nav>")
		if meta.Viewer.DisplayName != "" {
			m.element("span", "viewer", meta.Viewer.DisplayName)
		}
		m.open("form", "method", "post", "action", routepath.Logout, "class", "logout")
		m.raw(`><button type="submit">`)
		m.text(t(meta.Loc, "core.nav.logout", "Sign out"))
		m.raw("</button></form>")
		languageSwitcher(m, meta)
		m.raw("</header>")
		noticeBanner(m, meta.Notice)
		m.raw(`<main id="main" class="app-main">`)
		m.children(ctx)
		m.raw("</main></body></html>")
	})
}

// AuthLayout wraps its children in the centered sign-in card.
func AuthLayout(meta PageMeta) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		documentHead(m, meta)
		m.raw(`<body class="auth"><div class="auth-card">`)
		m.element("p", "brand", t(meta.Loc, "core.app.name", "Hubbble"))
		m.element("p", "tagline", t(meta.Loc, "core.app.tagline", "Client portals for independent professionals"))
		noticeBanner(m, meta.Notice)
		m.raw(`<main id="main">`)
		m.children(ctx)
		m.raw("</main>")
		languageSwitcher(m, meta)
		m.raw("</div></body></html>")
	})
}
