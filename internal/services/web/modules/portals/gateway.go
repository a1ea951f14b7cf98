package portals

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
)

var (
	errDraftsRequired    = errors.New("portals: draft store is required")
	errSessionIDRequired = errors.New("portals: session id resolver is required")
)

// Gateway lists picker candidates and creates the wizard's records.
type Gateway interface {
	ListClients(ctx context.Context) ([]combobox.Candidate, error)
	wizard.Gateway
}

// PortalClient exposes the portal API operations the wizard needs.
type PortalClient interface {
	ListClients(ctx context.Context) ([]portalapi.ClientRecord, error)
	CreateClient(ctx context.Context, in portalapi.NewClient) (portalapi.ClientRecord, error)
	CreateProject(ctx context.Context, in portalapi.NewProject) (portalapi.Project, error)
}

// NewPortalAPIGateway builds the production gateway from the portal API client.
func NewPortalAPIGateway(client PortalClient) Gateway {
	if client == nil {
		return unavailableGateway{}
	}
	return portalAPIGateway{client: client}
}

type portalAPIGateway struct {
	client PortalClient
}

func (g portalAPIGateway) ListClients(ctx context.Context) ([]combobox.Candidate, error) {
	clients, err := g.client.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]combobox.Candidate, 0, len(clients))
	for _, client := range clients {
		if client.ID.IsZero() {
			continue
		}
		candidates = append(candidates, combobox.Candidate{
			ID:    client.ID.String(),
			Name:  strings.TrimSpace(client.Name),
			Email: strings.TrimSpace(client.Email),
		})
	}
	return candidates, nil
}

func (g portalAPIGateway) CreateClient(ctx context.Context, name, email string) (string, error) {
	created, err := g.client.CreateClient(ctx, portalapi.NewClient{Name: name, Email: email})
	if err != nil {
		return "", err
	}
	return created.ID.String(), nil
}

func (g portalAPIGateway) CreateProject(ctx context.Context, req wizard.ProjectRequest) (string, error) {
	created, err := g.client.CreateProject(ctx, portalapi.NewProject{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		ClientID:    portalapi.ID(req.ClientID),
	})
	if err != nil {
		return "", err
	}
	return created.ID.String(), nil
}

type unavailableGateway struct{}

func (unavailableGateway) ListClients(context.Context) ([]combobox.Candidate, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) CreateClient(context.Context, string, string) (string, error) {
	return "", errUnavailable()
}

func (unavailableGateway) CreateProject(context.Context, wizard.ProjectRequest) (string, error) {
	return "", errUnavailable()
}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.portal_api_not_configured", "portal API is not configured")
}
