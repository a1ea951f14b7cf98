package portals

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
)

// Picker event names posted by the client combobox.
const (
	eventInput   = "input"
	eventFocus   = "focus"
	eventKeydown = "keydown"
	eventPick    = "pick"
	eventHover   = "hover"
	eventDismiss = "dismiss"
)

// Form field names posted by the wizard steps.
const (
	fieldClientName    = "client_name"
	fieldClientEmail   = "client_email"
	fieldProjectName   = "project_name"
	fieldDescription   = "description"
	fieldProjectStatus = "project_status"
)

type service struct {
	gateway Gateway
	drafts  draftRepo
}

func newService(gateway Gateway, drafts draftRepo) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway, drafts: drafts}
}

// start builds a fresh draft with the picker candidates loaded. A failed
// candidate load still opens the wizard, flagged, unless the API rejected
// the session.
func (s service) start(ctx context.Context) (draftState, error) {
	candidates, err := s.gateway.ListClients(ctx)
	if err != nil {
		if portalapi.IsAuth(err) {
			return draftState{}, err
		}
		state := newDraftState(nil)
		state.LoadFailed = true
		return state, errCandidatesUnavailable{err: err}
	}
	return newDraftState(candidates), nil
}

// errCandidatesUnavailable is returned next to a usable draft.
type errCandidatesUnavailable struct {
	err error
}

func (e errCandidatesUnavailable) Error() string { return "load clients: " + e.err.Error() }

func (e errCandidatesUnavailable) Unwrap() error { return e.err }

// resume loads the session's draft or starts a new one.
func (s service) resume(ctx context.Context, sessionID string) (draftState, error) {
	state, ok, err := s.drafts.load(ctx, sessionID)
	if err != nil {
		return draftState{}, err
	}
	if ok {
		return state, nil
	}
	return s.start(ctx)
}

// applyPickerEvent feeds one combobox event into the draft. It reports
// whether the picker committed a value the input box must show.
func applyPickerEvent(state *draftState, form url.Values) (committed bool, err error) {
	picker := &state.Picker
	switch strings.TrimSpace(form.Get("event")) {
	case eventInput:
		state.Wizard.ApplyIntent(picker.Input(form.Get(fieldClientName)))
	case eventFocus:
		picker.Focus()
	case eventKeydown:
		key, ok := combobox.ParseKey(form.Get("key"))
		if !ok {
			return false, nil
		}
		if intent := picker.Key(key); intent != nil {
			state.Wizard.ApplyIntent(intent)
			return true, nil
		}
	case eventPick:
		index, err := parseIndex(form)
		if err != nil {
			return false, err
		}
		if intent, ok := picker.Pick(index); ok {
			state.Wizard.ApplyIntent(intent)
			return true, nil
		}
	case eventHover:
		index, err := parseIndex(form)
		if err != nil {
			return false, err
		}
		picker.Hover(index)
	case eventDismiss:
		picker.Dismiss()
	default:
		return false, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "unknown picker event")
	}
	return false, nil
}

func parseIndex(form url.Values) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(form.Get("index")))
	if err != nil {
		return 0, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "picker index must be a number")
	}
	return index, nil
}

// applyClientStep records the first step's fields. Text typed without the
// picker round trip (no JavaScript, or a submit inside the debounce window)
// is treated as free text.
func applyClientStep(state *draftState, form url.Values) {
	name := form.Get(fieldClientName)
	if name != state.Wizard.Draft.ClientName {
		state.Wizard.ApplyIntent(state.Picker.Input(name))
	}
	state.Picker.Dismiss()
	if state.Wizard.NeedsClient() {
		state.Wizard.SetClientEmail(strings.TrimSpace(form.Get(fieldClientEmail)))
	}
}

func applyProjectStep(state *draftState, form url.Values) {
	state.Wizard.SetProjectDetails(
		form.Get(fieldProjectName),
		form.Get(fieldDescription),
		form.Get(fieldProjectStatus),
	)
}

// submit runs the creation protocol. The draft is first persisted in the
// submitting step so a concurrent submit renders progress instead of
// creating records twice. A failed submission leaves a Failure on the
// wizard; any other error means nothing was attempted.
func (s service) submit(ctx context.Context, sessionID string, state *draftState) error {
	guard := *state
	guard.Wizard.Step = wizard.StepSubmitting
	if err := s.drafts.save(ctx, sessionID, guard); err != nil {
		return err
	}
	submitErr := state.Wizard.Submit(ctx, s.gateway)
	if err := s.drafts.save(ctx, sessionID, *state); err != nil {
		log.Printf("persist submitted draft failed step=%s err=%v", state.Wizard.Step, err)
	}
	return submitErr
}
