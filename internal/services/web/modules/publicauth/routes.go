package publicauth

import (
	"net/http"

	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	authView := func(fn http.HandlerFunc) http.Handler {
		return h.sessions.RedirectAuthenticated(fn)
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleLanding)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.Handle(http.MethodGet+" "+routepath.Login, authView(h.handleLoginGet))
	mux.Handle(http.MethodPost+" "+routepath.Login, authView(h.handleLoginPost))
	mux.Handle(http.MethodGet+" "+routepath.Signup, authView(h.handleSignupGet))
	mux.Handle(http.MethodPost+" "+routepath.Signup, authView(h.handleSignupPost))
	mux.Handle(http.MethodPost+" "+routepath.SignupValidate, authView(h.handleSignupValidate))
	mux.HandleFunc(routepath.SignupValidate, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
	mux.HandleFunc(routepath.Logout, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.Root, h.WriteNotFound)
}
