package portalapi

import (
	"context"
	"strings"
)

// ListClients returns the signed-in user's clients in API order.
func (c *Client) ListClients(ctx context.Context) ([]ClientRecord, error) {
	var out []ClientRecord
	if err := c.get(ctx, "/clients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateClient creates a client. Email is optional at the API level.
func (c *Client) CreateClient(ctx context.Context, in NewClient) (ClientRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	var out ClientRecord
	if err := c.send(ctx, "/clients", in, true, &out); err != nil {
		return ClientRecord{}, err
	}
	return out, nil
}

// ListProjects returns the signed-in user's projects in API order.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.get(ctx, "/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject creates a project under an existing client. The status is
// lower-cased before sending.
func (c *Client) CreateProject(ctx context.Context, in NewProject) (Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	var out Project
	if err := c.send(ctx, "/projects", in, true, &out); err != nil {
		return Project{}, err
	}
	return out, nil
}
