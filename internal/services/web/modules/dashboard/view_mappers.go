package dashboard

import (
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

func dashboardView(board *Board, selected Filter, loc webi18n.Localizer) webtemplates.DashboardView {
	view := webtemplates.DashboardView{ShowAllURL: routepath.AppDashboard}
	for _, f := range Filters {
		view.Tabs = append(view.Tabs, webtemplates.DashboardTab{
			Label:  filterLabel(f, loc),
			URL:    routepath.AppDashboardWithStatus(string(f)),
			Count:  board.Count(f),
			Active: f == selected,
		})
	}
	switch board.Empty(selected) {
	case EmptyNoRecords:
		view.Empty = webtemplates.DashboardEmptyNoRecords
	case EmptyNoMatches:
		view.Empty = webtemplates.DashboardEmptyNoMatches
	default:
		for _, card := range board.Cards(selected) {
			view.Cards = append(view.Cards, webtemplates.DashboardCard{
				ID:          card.ID,
				Title:       card.Title,
				ClientName:  card.ClientName,
				Status:      card.Status,
				StatusLabel: statusLabel(card.Status, loc),
				Updated:     card.LastUpdated,
				Description: card.Description,
			})
		}
	}
	return view
}

func filterLabel(f Filter, loc webi18n.Localizer) string {
	if f == FilterAll {
		return webi18n.T(loc, "dashboard.filter.all", "All")
	}
	return statusLabel(string(f), loc)
}

func statusLabel(status string, loc webi18n.Localizer) string {
	switch Filter(status) {
	case FilterActive:
		return webi18n.T(loc, "dashboard.status.active", "Active")
	case FilterWaiting:
		return webi18n.T(loc, "dashboard.status.waiting", "Waiting")
	case FilterCompleted:
		return webi18n.T(loc, "dashboard.status.completed", "Completed")
	default:
		return status
	}
}
