// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/louisbranch/hubbble/internal/services/web/platform/flash"
)

// Viewer contains user-facing chrome data for app pages.
type Viewer struct {
	DisplayName string
	Email       string
	SignedIn    bool
}

// ResolveViewer resolves app chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveSignedIn reports whether the request carries a usable session.
type ResolveSignedIn func(*http.Request) bool

// HandleUnauthorized tears down a session the portal API rejected and reports
// whether it already wrote the response.
type HandleUnauthorized func(http.ResponseWriter, *http.Request) bool

// Dependencies carries request-scoped resolvers shared by every module.
type Dependencies struct {
	ResolveViewer      ResolveViewer
	ResolveSignedIn    ResolveSignedIn
	HandleUnauthorized HandleUnauthorized
	Flash              flash.Store
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is implemented by modules whose gateway may be missing.
type HealthReporter interface {
	Healthy() bool
}
