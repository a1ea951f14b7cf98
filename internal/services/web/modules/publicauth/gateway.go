package publicauth

import (
	"context"
	"errors"

	"github.com/louisbranch/hubbble/internal/portalapi"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
)

var errSessionsRequired = errors.New("publicauth: session gate is required")

// AuthGateway performs the remote account operations.
type AuthGateway interface {
	Login(ctx context.Context, in portalapi.Credentials) (portalapi.AuthResult, error)
	Signup(ctx context.Context, in portalapi.Registration) (portalapi.AuthResult, error)
	Logout(ctx context.Context) error
}

// NewPortalGateway builds the production gateway from the portal API client.
func NewPortalGateway(client *portalapi.Client) AuthGateway {
	if client == nil {
		return unavailableGateway{}
	}
	return client
}

type unavailableGateway struct{}

func (unavailableGateway) Login(context.Context, portalapi.Credentials) (portalapi.AuthResult, error) {
	return portalapi.AuthResult{}, errUnavailable()
}

func (unavailableGateway) Signup(context.Context, portalapi.Registration) (portalapi.AuthResult, error) {
	return portalapi.AuthResult{}, errUnavailable()
}

func (unavailableGateway) Logout(context.Context) error {
	return nil
}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.portal_api_not_configured", "portal API is not configured")
}
