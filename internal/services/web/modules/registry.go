package modules

import (
	"github.com/louisbranch/hubbble/internal/services/web/modules/dashboard"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals"
	"github.com/louisbranch/hubbble/internal/services/web/modules/publicauth"
	"github.com/louisbranch/hubbble/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/hubbble/internal/services/web/platform/publichandler"
)

// DefaultPublicModules returns the modules served without a session.
func DefaultPublicModules(deps Dependencies) []Module {
	return []Module{
		publicauth.New(
			publicauth.WithGateway(publicauth.NewPortalGateway(deps.PortalAPI)),
			publicauth.WithSessions(deps.Sessions),
			publicauth.WithBase(publichandler.NewBase(publichandler.WithDependencies(deps.Module))),
		),
	}
}

// DefaultProtectedModules returns the modules mounted under /app/.
func DefaultProtectedModules(deps Dependencies) []Module {
	base := modulehandler.NewBase(deps.Module)
	return []Module{
		dashboard.New(
			dashboard.WithGateway(dashboardGateway(deps)),
			dashboard.WithBase(base),
		),
		portals.New(
			portals.WithGateway(portalsGateway(deps)),
			portals.WithBase(base),
			portals.WithDrafts(deps.Drafts, deps.DraftTTL),
			portals.WithSessionID(deps.SessionID),
		),
	}
}

// The gateway constructors take interfaces; a nil client must stay an
// untyped nil so they fall back to the unavailable gateway.

func dashboardGateway(deps Dependencies) dashboard.PortalGateway {
	if deps.PortalAPI == nil {
		return dashboard.NewPortalAPIGateway(nil)
	}
	return dashboard.NewPortalAPIGateway(deps.PortalAPI)
}

func portalsGateway(deps Dependencies) portals.Gateway {
	if deps.PortalAPI == nil {
		return portals.NewPortalAPIGateway(nil)
	}
	return portals.NewPortalAPIGateway(deps.PortalAPI)
}
