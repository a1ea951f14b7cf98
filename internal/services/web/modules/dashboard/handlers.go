package dashboard

import (
	"net/http"

	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.loadBoard(r.Context())
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	selected := ParseFilter(r.URL.Query().Get(routepath.DashboardStatusQuery))
	h.WritePage(w, r, webi18n.T(loc, "core.nav.dashboard", "Dashboard"), http.StatusOK,
		webtemplates.DashboardPage(dashboardView(board, selected, loc), loc))
}
