package portals

import (
	"context"
	"sync"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessiongate"
)

// fakeGateway implements Gateway with configurable results and call tracking.
type fakeGateway struct {
	mu         sync.Mutex
	candidates []combobox.Candidate
	listErr    error
	clientErr  error
	projectErr error
	clients    []string
	projects   []wizard.ProjectRequest
}

func (f *fakeGateway) ListClients(context.Context) ([]combobox.Candidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.candidates, nil
}

func (f *fakeGateway) CreateClient(_ context.Context, name, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clientErr != nil {
		return "", f.clientErr
	}
	f.clients = append(f.clients, name+" <"+email+">")
	return "client-new", nil
}

func (f *fakeGateway) CreateProject(_ context.Context, req wizard.ProjectRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectErr != nil {
		return "", f.projectErr
	}
	f.projects = append(f.projects, req)
	return "project-1", nil
}

type fakePortalClient struct {
	clients    []portalapi.ClientRecord
	err        error
	newClient  portalapi.NewClient
	newProject portalapi.NewProject
}

func (f *fakePortalClient) ListClients(context.Context) ([]portalapi.ClientRecord, error) {
	return f.clients, f.err
}

func (f *fakePortalClient) CreateClient(_ context.Context, in portalapi.NewClient) (portalapi.ClientRecord, error) {
	f.newClient = in
	return portalapi.ClientRecord{ID: "c-9", Name: in.Name, Email: in.Email}, f.err
}

func (f *fakePortalClient) CreateProject(_ context.Context, in portalapi.NewProject) (portalapi.Project, error) {
	f.newProject = in
	return portalapi.Project{ID: "p-3", Name: in.Name}, f.err
}

type fakeEvents struct {
	subscribers []func(sessiongate.Event)
}

func (f *fakeEvents) Subscribe(fn func(sessiongate.Event)) func() {
	f.subscribers = append(f.subscribers, fn)
	return func() { f.subscribers = nil }
}

func (f *fakeEvents) publish(event sessiongate.Event) {
	for _, fn := range f.subscribers {
		fn(event)
	}
}
