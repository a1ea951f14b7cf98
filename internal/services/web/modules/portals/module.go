// Package portals serves the create-portal wizard and its client picker.
//
// The wizard and picker state machines live in the wizard and combobox
// subpackages; this package persists them per session as a draft between
// HTTP round trips and renders the HTMX fragments for each event.
package portals

import (
	"net/http"
	"time"

	module "github.com/louisbranch/hubbble/internal/services/web/module"
	"github.com/louisbranch/hubbble/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// DefaultDraftTTL bounds how long an abandoned wizard draft is kept.
const DefaultDraftTTL = 24 * time.Hour

// SessionIDResolver returns the browser session id for a signed-in request.
type SessionIDResolver func(*http.Request) (string, bool)

// Option configures a portals module.
type Option func(*Module)

// WithGateway sets the portal API gateway.
func WithGateway(g Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithBase sets the handler base for authenticated routes.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithDrafts sets the draft store and the retention applied on each save.
// A non-positive ttl uses DefaultDraftTTL.
func WithDrafts(store storage.DraftStore, ttl time.Duration) Option {
	return func(m *Module) {
		m.drafts = store
		m.draftTTL = ttl
	}
}

// WithSessionID sets the resolver that keys drafts by session.
func WithSessionID(resolve SessionIDResolver) Option {
	return func(m *Module) { m.sessionID = resolve }
}

// WithClock sets the clock used for draft timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Module) { m.now = now }
}

// Module provides the authenticated portal creation routes.
type Module struct {
	gateway   Gateway
	base      modulehandler.Base
	drafts    storage.DraftStore
	draftTTL  time.Duration
	sessionID SessionIDResolver
	now       func() time.Time
}

// New returns a portals module configured by the given options.
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
func (Module) ID() string { return "portals" }

// Healthy reports whether the portals module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires portal route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.drafts == nil {
		return module.Mount{}, errDraftsRequired
	}
	if m.sessionID == nil {
		return module.Mount{}, errSessionIDRequired
	}
	mux := http.NewServeMux()
	svc := newService(m.gateway, newDraftRepo(m.drafts, m.draftTTL, m.now))
	registerRoutes(mux, newHandlers(svc, m.base, m.sessionID))
	return module.Mount{Prefix: routepath.PortalsPrefix, Handler: mux}, nil
}
