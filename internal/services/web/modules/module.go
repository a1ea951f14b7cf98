// Package modules defines web module registry helpers.
package modules

import (
	"time"

	"github.com/louisbranch/hubbble/internal/portalapi"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals"
	"github.com/louisbranch/hubbble/internal/services/web/modules/publicauth"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the process-level collaborators needed to compose the
// web module registry. Modules receive narrow gateways built from these, never
// the fields themselves.
type Dependencies struct {
	// Shared request-scoped resolvers.
	Module module.Dependencies

	// PortalAPI is nil when no API base URL is configured; modules then start
	// degraded.
	PortalAPI *portalapi.Client

	// Session lifecycle for the auth views.
	Sessions publicauth.Sessions

	// Wizard draft persistence keyed by browser session.
	Drafts    storage.DraftStore
	DraftTTL  time.Duration
	SessionID portals.SessionIDResolver
}
