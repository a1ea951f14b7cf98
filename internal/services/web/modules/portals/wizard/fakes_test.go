package wizard

import (
	"context"
	"fmt"
)

type fakeGateway struct {
	calls        []string
	clientID     string
	clientErr    error
	projectID    string
	projectErr   error
	lastName     string
	lastEmail    string
	lastProject  ProjectRequest
	clientCalls  int
	projectCalls int
}

func (f *fakeGateway) CreateClient(_ context.Context, name, email string) (string, error) {
	f.calls = append(f.calls, "client")
	f.clientCalls++
	f.lastName = name
	f.lastEmail = email
	if f.clientErr != nil {
		return "", f.clientErr
	}
	return f.clientID, nil
}

func (f *fakeGateway) CreateProject(_ context.Context, req ProjectRequest) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("project:%s", req.ClientID))
	f.projectCalls++
	f.lastProject = req
	if f.projectErr != nil {
		return "", f.projectErr
	}
	return f.projectID, nil
}
