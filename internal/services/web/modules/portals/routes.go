package portals

import (
	"net/http"

	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppPortalsNew, h.handleNew)
	for path, handle := range map[string]http.HandlerFunc{
		routepath.AppPortalsCombobox: h.handleCombobox,
		routepath.AppPortalsNext:     h.handleNext,
		routepath.AppPortalsBack:     h.handleBack,
		routepath.AppPortalsSubmit:   h.handleSubmit,
	} {
		mux.HandleFunc(http.MethodPost+" "+path, handle)
		mux.HandleFunc(http.MethodGet+" "+path, httpx.MethodNotAllowed(http.MethodPost))
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppPortalsRest, h.WriteNotFound)
}
