package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

// DashboardEmpty selects which empty state, if any, replaces the card grid.
type DashboardEmpty int

const (
	DashboardEmptyNone DashboardEmpty = iota
	DashboardEmptyNoRecords
	DashboardEmptyNoMatches
)

// DashboardTab is one status filter.
type DashboardTab struct {
	Label  string
	URL    string
	Count  int
	Active bool
}

// DashboardCard is one portal summary.
type DashboardCard struct {
	ID          string
	Title       string
	ClientName  string
	Status      string
	StatusLabel string
	Updated     string
	Description string
}

// DashboardView is the portal list page.
type DashboardView struct {
	Tabs       []DashboardTab
	Cards      []DashboardCard
	Empty      DashboardEmpty
	ShowAllURL string
}

// DashboardPage renders the portal list with its status filter.
func DashboardPage(view DashboardView, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<section class="dashboard"><header class="page-header"><div>`)
		m.element("h1", "", t(loc, "dashboard.title", "Client portals"))
		m.element("p", "subtitle", t(loc, "dashboard.subtitle", "Everything you share with your clients, in one place"))
		m.raw("</div>")
		m.open("a", "class", "button primary", "href", routepath.AppPortalsNew)
		m.raw(">")
		m.text(t(loc, "dashboard.create", "Create portal"))
		m.raw("</a></header>")

		if view.Empty != DashboardEmptyNoRecords {
			dashboardTabs(m, view.Tabs, loc)
		}
		switch view.Empty {
		case DashboardEmptyNoRecords:
			emptyState(m,
				t(loc, "dashboard.empty.no_records.title", "No portals yet"),
				t(loc, "dashboard.empty.no_records.body", "Create your first client portal to get started."),
				t(loc, "dashboard.create", "Create portal"),
				routepath.AppPortalsNew,
			)
		case DashboardEmptyNoMatches:
			emptyState(m,
				t(loc, "dashboard.empty.no_matches.title", "No portals match this filter"),
				t(loc, "dashboard.empty.no_matches.body", "Try another status or show every portal."),
				t(loc, "dashboard.empty.no_matches.cta", "Show all"),
				view.ShowAllURL,
			)
		default:
			m.raw(`<ul class="cards">`)
			for _, card := range view.Cards {
				dashboardCard(m, card, loc)
			}
			m.raw("</ul>")
		}
		m.raw("</section>")
	})
}

func dashboardTabs(m *markup, tabs []DashboardTab, loc Localizer) {
	m.open("nav", "class", "tabs", "aria-label", t(loc, "dashboard.filter.label", "Filter by status"))
	m.raw(">")
	for _, tab := range tabs {
		m.open("a", "class", "tab")
		m.href("href", tab.URL)
		m.attrIf(tab.Active, "aria-current", "page")
		m.attr("hx-get", tab.URL)
		m.attr("hx-target", "#main")
		m.attr("hx-push-url", "true")
		m.raw(">")
		m.text(tab.Label)
		m.raw(` <span class="count">`)
		m.text(strconv.Itoa(tab.Count))
		m.raw("</span></a>")
	}
	m.raw("</nav>")
}

func dashboardCard(m *markup, card DashboardCard, loc Localizer) {
	m.open("li", "class", "card", "data-status", card.Status, "id", "portal-"+card.ID)
	m.raw(`><div class="card-head">`)
	m.element("h2", "", card.Title)
	m.element("span", "badge badge-"+card.Status, card.StatusLabel)
	m.raw("</div>")
	client := card.ClientName
	if client == "" {
		client = t(loc, "dashboard.card.no_client", "No client")
	}
	m.element("p", "client", client)
	description := card.Description
	if description == "" {
		description = t(loc, "dashboard.card.no_description", "No description")
	}
	m.element("p", "description", description)
	if card.Updated != "" {
		m.element("p", "updated", t(loc, "dashboard.card.updated", "Updated %s", card.Updated))
	}
	m.raw("</li>")
}

func emptyState(m *markup, title, body, cta, href string) {
	m.raw(`<div class="empty-state">`)
	m.element("h2", "", title)
	m.element("p", "", body)
	m.open("a", "class", "button")
	m.href("href", href)
	m.raw(">")
	m.text(cta)
	m.raw("</a></div>")
}
