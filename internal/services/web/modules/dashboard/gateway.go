package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/louisbranch/hubbble/internal/portalapi"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
)

// Portal is one project as the dashboard sees it.
type Portal struct {
	ID          string
	Name        string
	ClientName  string
	Status      string
	Description string
	UpdatedAt   time.Time
}

// PortalGateway loads the viewer's portals.
type PortalGateway interface {
	LoadPortals(ctx context.Context) ([]Portal, error)
}

// ProjectClient exposes the portal API project listing.
type ProjectClient interface {
	ListProjects(ctx context.Context) ([]portalapi.Project, error)
}

// NewPortalAPIGateway builds the production gateway from the portal API client.
func NewPortalAPIGateway(client ProjectClient) PortalGateway {
	if client == nil {
		return unavailableGateway{}
	}
	return portalAPIGateway{client: client}
}

type portalAPIGateway struct {
	client ProjectClient
}

func (g portalAPIGateway) LoadPortals(ctx context.Context) ([]Portal, error) {
	projects, err := g.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	portals := make([]Portal, 0, len(projects))
	for _, project := range projects {
		portals = append(portals, Portal{
			ID:          project.ID.String(),
			Name:        strings.TrimSpace(project.Name),
			ClientName:  strings.TrimSpace(project.ClientName()),
			Status:      strings.ToLower(strings.TrimSpace(project.Status)),
			Description: strings.TrimSpace(project.Description),
			UpdatedAt:   project.UpdatedAt.Time,
		})
	}
	return portals, nil
}

type unavailableGateway struct{}

func (unavailableGateway) LoadPortals(context.Context) ([]Portal, error) {
	return nil, apperrors.EK(apperrors.KindUnavailable, "error.portal_api_not_configured", "portal API is not configured")
}
