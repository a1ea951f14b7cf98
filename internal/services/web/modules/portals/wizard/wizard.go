// Package wizard implements the two-step "create client portal" flow:
// client identity first, project details second, then a sequential
// create-client/create-project submission.
package wizard

import (
	"strings"

	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
)

// Step is the wizard position. Exactly one step is current.
type Step string

const (
	StepClientInfo     Step = "client_info"
	StepProjectDetails Step = "project_details"
	StepSubmitting     Step = "submitting"
	StepSuccess        Step = "success"
)

// Status is the closed set of portal states.
type Status string

const (
	StatusActive    Status = "active"
	StatusWaiting   Status = "waiting"
	StatusCompleted Status = "completed"
)

// Statuses lists portal states in display order.
var Statuses = []Status{StatusActive, StatusWaiting, StatusCompleted}

// ParseStatus accepts any casing of a known status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, true
	case StatusWaiting:
		return StatusWaiting, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Label returns the English display label.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusWaiting:
		return "Waiting"
	case StatusCompleted:
		return "Completed"
	default:
		return ""
	}
}

// Failure is the single user-facing error a wizard can carry.
type Failure string

const (
	FailureNone                  Failure = ""
	FailureSubmit                Failure = "wizard.error.submit_failed"
	FailureClientDetailsRequired Failure = "wizard.error.client_details_required"
)

// Message returns the English copy for f.
func (f Failure) Message() string {
	switch f {
	case FailureSubmit:
		return "Failed to create client"
	case FailureClientDetailsRequired:
		return "Client name and email are required"
	default:
		return ""
	}
}

// Draft is everything the viewer has entered so far. SelectedClientID is set
// only when the client is an existing record.
type Draft struct {
	ClientName       string `json:"client_name"`
	ClientEmail      string `json:"client_email"`
	ProjectName      string `json:"project_name"`
	Description      string `json:"description"`
	Status           Status `json:"status"`
	SelectedClientID string `json:"selected_client_id,omitempty"`
}

// Wizard is the flow state. It is plain data so it can be stored between
// requests.
type Wizard struct {
	Step      Step    `json:"step"`
	Draft     Draft   `json:"draft"`
	Failure   Failure `json:"failure,omitempty"`
	ProjectID string  `json:"project_id,omitempty"`
}

// New returns a wizard on the first step with an Active status.
func New() Wizard {
	return Wizard{Step: StepClientInfo, Draft: Draft{Status: StatusActive}}
}

// ApplyIntent records the client picker outcome. Free text clears any
// previously selected client and its email.
func (w *Wizard) ApplyIntent(intent combobox.Intent) {
	switch in := intent.(type) {
	case combobox.NewClientIntent:
		w.Draft.ClientName = in.Text
		w.Draft.SelectedClientID = ""
		w.Draft.ClientEmail = ""
	case combobox.ExistingClientIntent:
		w.Draft.ClientName = in.Client.Name
		w.Draft.ClientEmail = in.Client.Email
		w.Draft.SelectedClientID = in.Client.ID
	}
}

// SetClientEmail records the optional email typed on the first step.
func (w *Wizard) SetClientEmail(email string) {
	w.Draft.ClientEmail = email
}

// SetProjectDetails records the second-step fields. An unknown status keeps
// the current one.
func (w *Wizard) SetProjectDetails(name, description, status string) {
	w.Draft.ProjectName = name
	w.Draft.Description = description
	if parsed, ok := ParseStatus(status); ok {
		w.Draft.Status = parsed
	}
}

// CanAdvance reports whether the first step is complete. Email is not
// considered.
func (w *Wizard) CanAdvance() bool {
	return strings.TrimSpace(w.Draft.ClientName) != ""
}

// Next moves from ClientInfo to ProjectDetails when CanAdvance holds.
func (w *Wizard) Next() bool {
	if w.Step != StepClientInfo || !w.CanAdvance() {
		return false
	}
	w.Step = StepProjectDetails
	w.Failure = FailureNone
	return true
}

// Back moves from ProjectDetails to ClientInfo. From ClientInfo it reports
// exit so the caller can leave the wizard.
func (w *Wizard) Back() (exit bool) {
	switch w.Step {
	case StepProjectDetails:
		w.Step = StepClientInfo
		w.Failure = FailureNone
		return false
	case StepClientInfo:
		return true
	default:
		return false
	}
}

// CanSubmit reports whether the second step is complete.
func (w *Wizard) CanSubmit() bool {
	return strings.TrimSpace(w.Draft.ProjectName) != ""
}

// NeedsClient reports whether submission has to create the client first.
func (w *Wizard) NeedsClient() bool {
	return strings.TrimSpace(w.Draft.SelectedClientID) == ""
}

// Done reports whether the portal was created.
func (w *Wizard) Done() bool {
	return w.Step == StepSuccess
}
