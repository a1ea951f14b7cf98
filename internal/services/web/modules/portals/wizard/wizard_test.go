package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
)

func TestNewStartsOnClientInfo(t *testing.T) {
	t.Parallel()

	w := New()
	if w.Step != StepClientInfo || w.Draft.Status != StatusActive {
		t.Fatalf("New() = %+v", w)
	}
}

func TestCanAdvanceDependsOnlyOnTrimmedClientName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "", email: "a@b.co", want: false},
		{name: "   ", email: "a@b.co", want: false},
		{name: "Acme", email: "", want: true},
		{name: " Acme ", email: "not-an-email", want: true},
	}
	for _, tc := range tests {
		w := New()
		w.Draft.ClientName = tc.name
		w.Draft.ClientEmail = tc.email
		if got := w.CanAdvance(); got != tc.want {
			t.Fatalf("CanAdvance(%q, %q) = %v, want %v", tc.name, tc.email, got, tc.want)
		}
	}
}

func TestNextAndBackTransitions(t *testing.T) {
	t.Parallel()

	w := New()
	if w.Next() {
		t.Fatal("Next() should be blocked without a client name")
	}
	if exit := w.Back(); !exit {
		t.Fatal("Back() from client info should exit")
	}

	w.ApplyIntent(combobox.NewClientIntent{Text: "Acme"})
	if !w.Next() || w.Step != StepProjectDetails {
		t.Fatalf("Next() step = %q, want %q", w.Step, StepProjectDetails)
	}
	if w.Next() {
		t.Fatal("Next() from project details should not move")
	}
	w.SetProjectDetails("Site", "desc", "Waiting")
	if exit := w.Back(); exit || w.Step != StepClientInfo {
		t.Fatalf("Back() = %v step %q, want false %q", exit, w.Step, StepClientInfo)
	}
	want := Draft{ClientName: "Acme", ProjectName: "Site", Description: "desc", Status: StatusWaiting}
	if diff := cmp.Diff(want, w.Draft); diff != "" {
		t.Fatalf("draft mismatch after back (-want +got):\n%s", diff)
	}
}

func TestApplyIntentKeepsExistingAndNewMutuallyExclusive(t *testing.T) {
	t.Parallel()

	w := New()
	w.ApplyIntent(combobox.ExistingClientIntent{Client: combobox.Candidate{ID: "7", Name: "Acme", Email: "hi@acme.io"}})
	if w.Draft.SelectedClientID != "7" || w.Draft.ClientEmail != "hi@acme.io" || w.Draft.ClientName != "Acme" {
		t.Fatalf("draft after existing = %+v", w.Draft)
	}

	w.ApplyIntent(combobox.NewClientIntent{Text: "Acme Labs"})
	if w.Draft.SelectedClientID != "" || w.Draft.ClientEmail != "" || w.Draft.ClientName != "Acme Labs" {
		t.Fatalf("draft after typing = %+v", w.Draft)
	}
}

func TestSetProjectDetailsIgnoresUnknownStatus(t *testing.T) {
	t.Parallel()

	w := New()
	w.SetProjectDetails("Site", "", "archived")
	if w.Draft.Status != StatusActive {
		t.Fatalf("status = %q, want %q", w.Draft.Status, StatusActive)
	}
}

func TestSubmitCreatesClientBeforeProject(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{clientID: "42", projectID: "99"}
	w := readyWizard("Gamma", "g@gamma.io")
	w.SetProjectDetails(" Site ", " New site ", "Completed")

	if err := w.Submit(context.Background(), gw); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if diff := cmp.Diff([]string{"client", "project:42"}, gw.calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	wantProject := ProjectRequest{Name: "Site", Description: "New site", Status: "completed", ClientID: "42"}
	if diff := cmp.Diff(wantProject, gw.lastProject); diff != "" {
		t.Fatalf("project request mismatch (-want +got):\n%s", diff)
	}
	if !w.Done() || w.ProjectID != "99" || w.Failure != FailureNone {
		t.Fatalf("wizard = %+v", w)
	}
}

func TestSubmitWithSelectedClientSkipsCreateClient(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{projectID: "5"}
	w := New()
	w.ApplyIntent(combobox.ExistingClientIntent{Client: combobox.Candidate{ID: "3", Name: "Acme"}})
	w.Next()
	w.SetProjectDetails("Logo", "", "active")

	if err := w.Submit(context.Background(), gw); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if diff := cmp.Diff([]string{"project:3"}, gw.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitRequiresEmailForNewClient(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{clientID: "1"}
	w := readyWizard("Gamma", "")
	w.SetProjectDetails("Site", "", "active")

	err := w.Submit(context.Background(), gw)
	if !errors.Is(err, ErrClientDetailsRequired) {
		t.Fatalf("Submit() error = %v, want %v", err, ErrClientDetailsRequired)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("calls = %v, want none", gw.calls)
	}
	if w.Step != StepProjectDetails || w.Failure != FailureClientDetailsRequired {
		t.Fatalf("wizard = %+v", w)
	}
	if got := w.Failure.Message(); got != "Client name and email are required" {
		t.Fatalf("Failure.Message() = %q", got)
	}
}

func TestSubmitGuardsStepAndProjectName(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	w := New()
	if err := w.Submit(context.Background(), gw); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Submit() on step 1 error = %v", err)
	}
	w = readyWizard("Acme", "a@acme.io")
	w.SetProjectDetails("   ", "", "active")
	if err := w.Submit(context.Background(), gw); !errors.Is(err, ErrProjectNameRequired) {
		t.Fatalf("Submit() blank project error = %v", err)
	}
	if w.Step != StepProjectDetails || len(gw.calls) != 0 {
		t.Fatalf("wizard = %+v calls = %v", w, gw.calls)
	}
	if err := w.Submit(context.Background(), nil); err == nil {
		t.Fatal("expected nil gateway error")
	}
}

func TestSubmitClientFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	gw := &fakeGateway{clientErr: boom}
	w := readyWizard("Gamma", "g@gamma.io")
	w.SetProjectDetails("Site", "desc", "waiting")
	before := w.Draft

	err := w.Submit(context.Background(), gw)
	if !errors.Is(err, boom) {
		t.Fatalf("Submit() error = %v, want wrapped %v", err, boom)
	}
	if w.Step != StepProjectDetails || w.Failure != FailureSubmit {
		t.Fatalf("wizard = %+v", w)
	}
	if diff := cmp.Diff(before, w.Draft); diff != "" {
		t.Fatalf("draft changed (-want +got):\n%s", diff)
	}
	if gw.projectCalls != 0 {
		t.Fatalf("projectCalls = %d, want 0", gw.projectCalls)
	}
	if got := w.Failure.Message(); got != "Failed to create client" {
		t.Fatalf("Failure.Message() = %q", got)
	}
}

func TestSubmitPartialFailureAdoptsCreatedClient(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{clientID: "42", projectErr: errors.New("project down")}
	w := readyWizard("Gamma", "g@gamma.io")
	w.SetProjectDetails("Site", "", "active")

	if err := w.Submit(context.Background(), gw); err == nil {
		t.Fatal("expected project failure")
	}
	if w.Draft.SelectedClientID != "42" || w.Failure != FailureSubmit || w.Step != StepProjectDetails {
		t.Fatalf("wizard after partial failure = %+v", w)
	}

	gw.projectErr = nil
	gw.projectID = "77"
	if err := w.Submit(context.Background(), gw); err != nil {
		t.Fatalf("retry Submit() error = %v", err)
	}
	if gw.clientCalls != 1 {
		t.Fatalf("clientCalls = %d, want 1", gw.clientCalls)
	}
	if diff := cmp.Diff([]string{"client", "project:42", "project:42"}, gw.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if !w.Done() {
		t.Fatalf("step = %q, want success", w.Step)
	}
}

func TestSubmitRejectsEmptyClientID(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{clientID: " "}
	w := readyWizard("Gamma", "g@gamma.io")
	w.SetProjectDetails("Site", "", "active")

	if err := w.Submit(context.Background(), gw); err == nil {
		t.Fatal("expected empty id error")
	}
	if gw.projectCalls != 0 || w.Draft.SelectedClientID != "" {
		t.Fatalf("projectCalls = %d draft = %+v", gw.projectCalls, w.Draft)
	}
}

func TestParseStatusAndLabels(t *testing.T) {
	t.Parallel()

	for _, status := range Statuses {
		parsed, ok := ParseStatus(status.Label())
		if !ok || parsed != status {
			t.Fatalf("ParseStatus(%q) = %q, %v", status.Label(), parsed, ok)
		}
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Fatal("ParseStatus(archived) should fail")
	}
	if Status("archived").Label() != "" {
		t.Fatal("unknown status should have no label")
	}
}

func readyWizard(name, email string) Wizard {
	w := New()
	w.ApplyIntent(combobox.NewClientIntent{Text: name})
	w.SetClientEmail(email)
	w.Next()
	return w
}
