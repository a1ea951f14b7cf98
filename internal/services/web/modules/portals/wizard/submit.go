package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SuccessRedirectDelay is how long the success screen is shown before the
// viewer is sent to the dashboard.
const SuccessRedirectDelay = 1500 * time.Millisecond

const tracerName = "github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"

var (
	// ErrNotReady means Submit was called outside ProjectDetails.
	ErrNotReady = errors.New("wizard is not on the project details step")
	// ErrProjectNameRequired means the project name is blank.
	ErrProjectNameRequired = errors.New("project name is required")
	// ErrClientDetailsRequired means a new client lacks a name or email.
	ErrClientDetailsRequired = errors.New("client name and email are required")
)

// ProjectRequest is the create-project payload. Status is lower case.
type ProjectRequest struct {
	Name        string
	Description string
	Status      string
	ClientID    string
}

// Gateway creates remote records on behalf of the wizard.
type Gateway interface {
	CreateClient(ctx context.Context, name, email string) (string, error)
	CreateProject(ctx context.Context, req ProjectRequest) (string, error)
}

// Submit runs the submission protocol: create the client when none is
// selected, then create the project referencing it. Calls are sequential and
// use ctx, so a cancelled request stops the flow.
//
// On failure the wizard returns to ProjectDetails with one generic Failure
// and the draft intact. A client created before a failed project call is
// kept as the selected client so a retry does not create it twice.
func (w *Wizard) Submit(ctx context.Context, gateway Gateway) (err error) {
	if gateway == nil {
		return errors.New("wizard gateway is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if w.Step != StepProjectDetails {
		return ErrNotReady
	}
	if !w.CanSubmit() {
		return ErrProjectNameRequired
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "wizard.submit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "portal submission failed")
		}
		span.End()
	}()

	w.Step = StepSubmitting
	w.Failure = FailureNone

	clientID := strings.TrimSpace(w.Draft.SelectedClientID)
	span.SetAttributes(attribute.Bool("hubbble.wizard.new_client", clientID == ""))
	if clientID == "" {
		name := strings.TrimSpace(w.Draft.ClientName)
		email := strings.TrimSpace(w.Draft.ClientEmail)
		if name == "" || email == "" {
			w.fail(FailureClientDetailsRequired)
			return ErrClientDetailsRequired
		}
		created, err := gateway.CreateClient(ctx, name, email)
		if err != nil {
			w.fail(FailureSubmit)
			return fmt.Errorf("create client: %w", err)
		}
		created = strings.TrimSpace(created)
		if created == "" {
			w.fail(FailureSubmit)
			return errors.New("create client: empty client id")
		}
		clientID = created
		w.Draft.SelectedClientID = created
	}

	projectID, err := gateway.CreateProject(ctx, ProjectRequest{
		Name:        strings.TrimSpace(w.Draft.ProjectName),
		Description: strings.TrimSpace(w.Draft.Description),
		Status:      strings.ToLower(string(w.statusOrDefault())),
		ClientID:    clientID,
	})
	if err != nil {
		w.fail(FailureSubmit)
		return fmt.Errorf("create project: %w", err)
	}

	w.Step = StepSuccess
	w.ProjectID = projectID
	return nil
}

func (w *Wizard) fail(f Failure) {
	w.Step = StepProjectDetails
	w.Failure = f
}

func (w *Wizard) statusOrDefault() Status {
	if _, ok := ParseStatus(string(w.Draft.Status)); ok {
		return w.Draft.Status
	}
	return StatusActive
}
