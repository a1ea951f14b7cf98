package dashboard

import (
	"net/http"
	"strings"

	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

// registerRoutes mounts the board and its status shortcuts. A status segment
// such as /app/dashboard/waiting redirects to the canonical ?status= form.
func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	board := http.MethodGet + " " + routepath.DashboardPrefix
	mux.HandleFunc(http.MethodGet+" "+routepath.AppDashboard, h.handleIndex)
	mux.HandleFunc(board+"{$}", h.handleIndex)
	mux.HandleFunc(board+"{status}", h.handleStatusPath)
	mux.HandleFunc(board+"{status}/{rest...}", h.WriteNotFound)
}

func (h handlers) handleStatusPath(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.PathValue("status"))
	filter := ParseFilter(raw)
	if filter == FilterAll && !strings.EqualFold(raw, string(FilterAll)) {
		h.WriteNotFound(w, r)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppDashboardWithStatus(string(filter)))
}
