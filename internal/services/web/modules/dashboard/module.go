// Package dashboard lists the viewer's client portals with a status filter.
package dashboard

import (
	"net/http"
	"time"

	module "github.com/louisbranch/hubbble/internal/services/web/module"
	"github.com/louisbranch/hubbble/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

// Option configures a dashboard module.
type Option func(*Module)

// WithGateway sets the portal gateway.
func WithGateway(g PortalGateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithBase sets the handler base for authenticated routes.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithClock sets the reference time used for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Module) { m.now = now }
}

// Module provides authenticated dashboard routes.
type Module struct {
	gateway PortalGateway
	base    modulehandler.Base
	now     func() time.Time
}

// New returns a dashboard module configured by the given options.
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
func (Module) ID() string { return "dashboard" }

// Healthy reports whether the dashboard module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires dashboard route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.gateway, m.now), m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.DashboardPrefix, Handler: mux}, nil
}
