package portals

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessiongate"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
	"github.com/louisbranch/hubbble/internal/services/web/storage/memory"
)

var testCandidates = []combobox.Candidate{
	{ID: "1", Name: "Acme Corp", Email: "ops@acme.io"},
	{ID: "2", Name: "Beta Studio", Email: "hi@beta.io"},
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.New(16)
	if err != nil {
		t.Fatalf("memory.New() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestService(t *testing.T, gateway Gateway) (service, *memory.Store) {
	t.Helper()
	store := newTestStore(t)
	return newService(gateway, newDraftRepo(store, time.Hour, nil)), store
}

func TestStartLoadsCandidates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakeGateway{candidates: testCandidates})
	state, err := svc.start(context.Background())
	if err != nil {
		t.Fatalf("start() error = %v", err)
	}
	if diff := cmp.Diff(testCandidates, state.Picker.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	if state.Wizard.Step != wizard.StepClientInfo || state.LoadFailed {
		t.Fatalf("state = %+v, want fresh client step", state)
	}
}

func TestStartFlagsFailedCandidateLoad(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakeGateway{listErr: errors.New("boom")})
	state, err := svc.start(context.Background())
	var unavailable errCandidatesUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("start() error = %v, want errCandidatesUnavailable", err)
	}
	if !state.LoadFailed || len(state.Picker.Candidates) != 0 {
		t.Fatalf("state = %+v, want load failure with no candidates", state)
	}
}

func TestStartReturnsAuthErrors(t *testing.T) {
	t.Parallel()

	authErr := &portalapi.Error{Kind: portalapi.KindAuth, StatusCode: 401, Message: "expired"}
	svc, _ := newTestService(t, &fakeGateway{listErr: authErr})
	if _, err := svc.start(context.Background()); !portalapi.IsAuth(err) {
		t.Fatalf("start() error = %v, want auth error", err)
	}
}

func TestResumeReturnsSavedDraft(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{candidates: testCandidates}
	svc, _ := newTestService(t, gateway)
	state := newDraftState(testCandidates)
	state.Wizard.Draft.ClientName = "Acme"
	if err := svc.drafts.save(context.Background(), "s1", state); err != nil {
		t.Fatalf("save() error = %v", err)
	}
	gateway.candidates = nil

	got, err := svc.resume(context.Background(), "s1")
	if err != nil {
		t.Fatalf("resume() error = %v", err)
	}
	if got.Wizard.Draft.ClientName != "Acme" || len(got.Picker.Candidates) != 2 {
		t.Fatalf("resume() = %+v, want saved draft", got)
	}
}

func TestDraftRepoDiscardsUndecodablePayload(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.SaveDraft(context.Background(), storage.Draft{SessionID: "s1", Payload: []byte("{nope")}); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	_, ok, err := newDraftRepo(store, 0, nil).load(context.Background(), "s1")
	if err != nil || ok {
		t.Fatalf("load() = ok %v err %v, want no draft", ok, err)
	}
}

func TestDraftRepoSetsExpiry(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	now := time.Now().UTC()
	repo := newDraftRepo(store, 2*time.Hour, func() time.Time { return now })
	if err := repo.save(context.Background(), "s1", newDraftState(nil)); err != nil {
		t.Fatalf("save() error = %v", err)
	}
	record, ok, err := store.LoadDraft(context.Background(), "s1")
	if err != nil || !ok {
		t.Fatalf("LoadDraft() = ok %v err %v", ok, err)
	}
	if !record.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
		t.Fatalf("ExpiresAt = %v, want %v", record.ExpiresAt, now.Add(2*time.Hour))
	}
}

func TestApplyPickerEvent(t *testing.T) {
	t.Parallel()

	state := newDraftState(testCandidates)
	committed, err := applyPickerEvent(&state, url.Values{"event": {"input"}, "client_name": {"beta"}})
	if err != nil || committed {
		t.Fatalf("input = committed %v err %v", committed, err)
	}
	if !state.Picker.Open || state.Wizard.Draft.ClientName != "beta" {
		t.Fatalf("after input state = %+v", state)
	}

	committed, err = applyPickerEvent(&state, url.Values{"event": {"keydown"}, "key": {"ArrowDown"}})
	if err != nil || committed {
		t.Fatalf("arrow down = committed %v err %v", committed, err)
	}
	committed, err = applyPickerEvent(&state, url.Values{"event": {"keydown"}, "key": {"Enter"}})
	if err != nil || !committed {
		t.Fatalf("enter = committed %v err %v, want commit", committed, err)
	}
	want := wizard.Draft{ClientName: "Beta Studio", ClientEmail: "hi@beta.io", SelectedClientID: "2", Status: wizard.StatusActive}
	if diff := cmp.Diff(want, state.Wizard.Draft); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	committed, err = applyPickerEvent(&state, url.Values{"event": {"keydown"}, "key": {"Tab"}})
	if err != nil || committed {
		t.Fatalf("unhandled key = committed %v err %v", committed, err)
	}
}

func TestApplyPickerEventRejectsBadInput(t *testing.T) {
	t.Parallel()

	for _, form := range []url.Values{
		{"event": {"teleport"}},
		{"event": {"pick"}, "index": {"first"}},
	} {
		state := newDraftState(testCandidates)
		if _, err := applyPickerEvent(&state, form); err == nil {
			t.Fatalf("applyPickerEvent(%v) error = nil", form)
		}
	}
}

func TestApplyPickerEventPickCommitsCandidate(t *testing.T) {
	t.Parallel()

	state := newDraftState(testCandidates)
	state.Picker.Focus()
	committed, err := applyPickerEvent(&state, url.Values{"event": {"pick"}, "index": {"0"}})
	if err != nil || !committed {
		t.Fatalf("pick = committed %v err %v", committed, err)
	}
	if state.Wizard.Draft.SelectedClientID != "1" || state.Picker.Open {
		t.Fatalf("after pick state = %+v", state)
	}
}

func TestApplyClientStepTreatsTypedTextAsNewClient(t *testing.T) {
	t.Parallel()

	state := newDraftState(testCandidates)
	state.Wizard.ApplyIntent(combobox.ExistingClientIntent{Client: testCandidates[0]})
	applyClientStep(&state, url.Values{"client_name": {"Gamma"}, "client_email": {" g@gamma.io "}})

	if state.Wizard.Draft.SelectedClientID != "" {
		t.Fatalf("SelectedClientID = %q, want cleared", state.Wizard.Draft.SelectedClientID)
	}
	if state.Wizard.Draft.ClientEmail != "g@gamma.io" {
		t.Fatalf("ClientEmail = %q, want %q", state.Wizard.Draft.ClientEmail, "g@gamma.io")
	}
}

func TestApplyClientStepKeepsSelectedEmail(t *testing.T) {
	t.Parallel()

	state := newDraftState(testCandidates)
	state.Wizard.ApplyIntent(combobox.ExistingClientIntent{Client: testCandidates[0]})
	applyClientStep(&state, url.Values{"client_name": {"Acme Corp"}, "client_email": {"other@x.io"}})

	if state.Wizard.Draft.ClientEmail != "ops@acme.io" {
		t.Fatalf("ClientEmail = %q, want %q", state.Wizard.Draft.ClientEmail, "ops@acme.io")
	}
}

func projectReadyState() draftState {
	state := newDraftState(testCandidates)
	state.Wizard.ApplyIntent(combobox.NewClientIntent{Text: "Gamma"})
	state.Wizard.SetClientEmail("g@gamma.io")
	state.Wizard.Next()
	state.Wizard.SetProjectDetails("Launch", "Site", "waiting")
	return state
}

func TestSubmitPersistsOutcome(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	svc, _ := newTestService(t, gateway)
	state := projectReadyState()
	if err := svc.submit(context.Background(), "s1", &state); err != nil {
		t.Fatalf("submit() error = %v", err)
	}
	saved, ok, err := svc.drafts.load(context.Background(), "s1")
	if err != nil || !ok {
		t.Fatalf("load() = ok %v err %v", ok, err)
	}
	if saved.Wizard.Step != wizard.StepSuccess || saved.Wizard.ProjectID != "project-1" {
		t.Fatalf("saved wizard = %+v, want success", saved.Wizard)
	}
	want := []wizard.ProjectRequest{{Name: "Launch", Description: "Site", Status: "waiting", ClientID: "client-new"}}
	if diff := cmp.Diff(want, gateway.projects); diff != "" {
		t.Fatalf("projects mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitFailureKeepsDraftAndCreatedClient(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{projectErr: errors.New("down")}
	svc, _ := newTestService(t, gateway)
	state := projectReadyState()
	if err := svc.submit(context.Background(), "s1", &state); err == nil {
		t.Fatal("submit() error = nil, want failure")
	}
	saved, _, _ := svc.drafts.load(context.Background(), "s1")
	if saved.Wizard.Step != wizard.StepProjectDetails || saved.Wizard.Failure != wizard.FailureSubmit {
		t.Fatalf("saved wizard = %+v, want failure on project step", saved.Wizard)
	}
	if saved.Wizard.Draft.SelectedClientID != "client-new" || saved.Wizard.Draft.ProjectName != "Launch" {
		t.Fatalf("saved draft = %+v, want created client kept", saved.Wizard.Draft)
	}
}

func TestDropDraftsOnSignOut(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	repo := newDraftRepo(store, time.Hour, nil)
	for _, id := range []string{"s1", "s2"} {
		if err := repo.save(context.Background(), id, newDraftState(nil)); err != nil {
			t.Fatalf("save(%q) error = %v", id, err)
		}
	}
	events := &fakeEvents{}
	unsubscribe := DropDraftsOnSignOut(events, store)
	defer unsubscribe()

	events.publish(sessiongate.Event{Kind: sessiongate.EventSignedIn, SessionID: "s2"})
	events.publish(sessiongate.Event{Kind: sessiongate.EventSignedOut, SessionID: "s1"})

	if _, ok, _ := store.LoadDraft(context.Background(), "s1"); ok {
		t.Fatal("draft s1 survived sign-out")
	}
	if _, ok, _ := store.LoadDraft(context.Background(), "s2"); !ok {
		t.Fatal("draft s2 was dropped on sign-in")
	}
}

func TestGatewayMapsPortalAPI(t *testing.T) {
	t.Parallel()

	client := &fakePortalClient{clients: []portalapi.ClientRecord{
		{ID: "7", Name: " Acme ", Email: "ops@acme.io"},
		{ID: "", Name: "Ghost"},
	}}
	gateway := NewPortalAPIGateway(client)

	candidates, err := gateway.ListClients(context.Background())
	if err != nil {
		t.Fatalf("ListClients() error = %v", err)
	}
	want := []combobox.Candidate{{ID: "7", Name: "Acme", Email: "ops@acme.io"}}
	if diff := cmp.Diff(want, candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	id, err := gateway.CreateProject(context.Background(), wizard.ProjectRequest{Name: "Launch", Status: "active", ClientID: "7"})
	if err != nil || id != "p-3" {
		t.Fatalf("CreateProject() = %q, %v", id, err)
	}
	if client.newProject.ClientID != "7" || client.newProject.Status != "active" {
		t.Fatalf("NewProject = %+v", client.newProject)
	}
}

func TestUnavailableGateway(t *testing.T) {
	t.Parallel()

	gateway := NewPortalAPIGateway(nil)
	if _, err := gateway.ListClients(context.Background()); err == nil {
		t.Fatal("ListClients() error = nil")
	}
	if _, err := gateway.CreateClient(context.Background(), "a", "b"); err == nil {
		t.Fatal("CreateClient() error = nil")
	}
}
