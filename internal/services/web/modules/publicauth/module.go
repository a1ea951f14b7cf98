// Package publicauth serves the signed-out surface: the landing redirect,
// login, signup with inline validation, and logout.
package publicauth

import (
	"context"
	"net/http"

	"github.com/louisbranch/hubbble/internal/portalapi"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	"github.com/louisbranch/hubbble/internal/services/web/platform/publichandler"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// Sessions is the subset of the session gate used by auth handlers.
type Sessions interface {
	Set(w http.ResponseWriter, r *http.Request, auth portalapi.AuthResult) (storage.Session, error)
	Clear(w http.ResponseWriter, r *http.Request) error
	ResolveLandingRoute(r *http.Request) string
	RedirectAuthenticated(next http.Handler) http.Handler
	WithAccessToken(r *http.Request) context.Context
}

// Option configures a publicauth module.
type Option func(*Module)

// WithGateway sets the auth gateway.
func WithGateway(g AuthGateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithSessions sets the session gate.
func WithSessions(s Sessions) Option {
	return func(m *Module) { m.sessions = s }
}

// WithBase sets the handler base for public routes.
func WithBase(b publichandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// Module provides the public auth routes.
type Module struct {
	gateway  AuthGateway
	sessions Sessions
	base     publichandler.Base
}

// New returns a publicauth module configured by the given options.
// Without a gateway the module starts in degraded mode.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "publicauth" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires the public route handlers at the site root.
func (m Module) Mount() (module.Mount, error) {
	if m.sessions == nil {
		return module.Mount{}, errSessionsRequired
	}
	mux := http.NewServeMux()
	h := newHandlers(newService(m.gateway), m.sessions, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

var _ module.HealthReporter = Module{}
