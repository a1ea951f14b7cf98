package dashboard

import (
	"context"

	"github.com/louisbranch/hubbble/internal/portalapi"
)

// fakeGateway implements PortalGateway for tests with configurable return
// values and call tracking.
type fakeGateway struct {
	portals []Portal
	err     error
	calls   int
}

func (f *fakeGateway) LoadPortals(context.Context) ([]Portal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.portals, nil
}

type fakeProjectClient struct {
	projects []portalapi.Project
	err      error
}

func (f fakeProjectClient) ListProjects(context.Context) ([]portalapi.Project, error) {
	return f.projects, f.err
}
