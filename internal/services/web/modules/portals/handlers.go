package portals

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service   service
	sessionID SessionIDResolver
}

func newHandlers(s service, base modulehandler.Base, sessionID SessionIDResolver) handlers {
	return handlers{Base: base, service: s, sessionID: sessionID}
}

// handleNew starts the wizard over with a freshly loaded client list.
func (h handlers) handleNew(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	state, err := h.service.start(r.Context())
	if !h.acceptStart(w, r, err) {
		return
	}
	if err := h.service.drafts.save(r.Context(), sessionID, state); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.renderWizard(w, r, http.StatusOK, state, nil)
}

func (h handlers) handleCombobox(w http.ResponseWriter, r *http.Request) {
	sessionID, state, ok := h.resumeDraft(w, r)
	if !ok {
		return
	}
	if state.Wizard.Step != wizard.StepClientInfo {
		h.renderWizard(w, r, http.StatusOK, state, nil)
		return
	}
	selectedBefore := state.Wizard.Draft.SelectedClientID
	committed, err := applyPickerEvent(&state, r.PostForm)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if err := h.service.drafts.save(r.Context(), sessionID, state); err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	view := wizardView(state, nil, loc)
	syncEmail := selectedBefore != state.Wizard.Draft.SelectedClientID
	h.WriteFragment(w, r, http.StatusOK, webtemplates.ComboboxUpdate(view, committed, syncEmail, loc))
}

func (h handlers) handleNext(w http.ResponseWriter, r *http.Request) {
	sessionID, state, ok := h.resumeDraft(w, r)
	if !ok {
		return
	}
	var fieldErrors map[string]string
	if state.Wizard.Step == wizard.StepClientInfo {
		applyClientStep(&state, r.PostForm)
		if !state.Wizard.Next() {
			loc, _ := h.PageLocalizer(w, r)
			fieldErrors = map[string]string{
				fieldClientName: webi18n.T(loc, "wizard.error.client_name_required", "Client name is required"),
			}
		}
		if err := h.service.drafts.save(r.Context(), sessionID, state); err != nil {
			h.WriteError(w, r, err)
			return
		}
	}
	h.renderWizard(w, r, formStatus(r, fieldErrors), state, fieldErrors)
}

// handleBack steps back, or leaves the wizard from the first step.
func (h handlers) handleBack(w http.ResponseWriter, r *http.Request) {
	sessionID, state, ok := h.resumeDraft(w, r)
	if !ok {
		return
	}
	if state.Wizard.Step == wizard.StepProjectDetails {
		applyProjectStep(&state, r.PostForm)
	}
	if state.Wizard.Back() {
		if err := h.service.drafts.delete(r.Context(), sessionID); err != nil {
			log.Printf("drop draft on exit failed request_id=%s err=%v", httpx.RequestIDFromRequest(r), err)
		}
		httpx.WriteRedirect(w, r, routepath.AppDashboard)
		return
	}
	if err := h.service.drafts.save(r.Context(), sessionID, state); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.renderWizard(w, r, http.StatusOK, state, nil)
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID, state, ok := h.resumeDraft(w, r)
	if !ok {
		return
	}
	if state.Wizard.Step != wizard.StepProjectDetails {
		h.renderWizard(w, r, http.StatusOK, state, nil)
		return
	}
	applyProjectStep(&state, r.PostForm)
	if !state.Wizard.CanSubmit() {
		loc, _ := h.PageLocalizer(w, r)
		fieldErrors := map[string]string{
			fieldProjectName: webi18n.T(loc, "wizard.error.project_name_required", "Project name is required"),
		}
		if err := h.service.drafts.save(r.Context(), sessionID, state); err != nil {
			h.WriteError(w, r, err)
			return
		}
		h.renderWizard(w, r, formStatus(r, fieldErrors), state, fieldErrors)
		return
	}

	if err := h.service.submit(r.Context(), sessionID, &state); err != nil {
		if h.HandleUnauthorized(w, r, err) {
			return
		}
		if state.Wizard.Failure == wizard.FailureNone {
			h.WriteError(w, r, err)
			return
		}
		log.Printf("portal submission failed request_id=%s failure=%s err=%v", httpx.RequestIDFromRequest(r), state.Wizard.Failure, err)
		h.renderWizard(w, r, failureStatus(r, state.Wizard.Failure), state, nil)
		return
	}
	if !httpx.IsHTMXRequest(r) {
		w.Header().Set("Refresh", refreshHeader(wizard.SuccessRedirectDelay, routepath.AppDashboard))
	}
	h.renderWizard(w, r, http.StatusOK, state, nil)
}

func (h handlers) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.sessionID != nil {
		if sessionID, ok := h.sessionID(r); ok && sessionID != "" {
			return sessionID, true
		}
	}
	h.WriteError(w, r, apperrors.E(apperrors.KindUnauthorized, "portal wizard requires a session"))
	return "", false
}

// resumeDraft parses the form and loads the session draft, writing the
// error response when either fails.
func (h handlers) resumeDraft(w http.ResponseWriter, r *http.Request) (string, draftState, bool) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "failed to parse wizard form"))
		return "", draftState{}, false
	}
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return "", draftState{}, false
	}
	state, err := h.service.resume(r.Context(), sessionID)
	if !h.acceptStart(w, r, err) {
		return "", draftState{}, false
	}
	return sessionID, state, true
}

// acceptStart logs a failed candidate load and lets the wizard continue
// without suggestions. Any other error is written as the response.
func (h handlers) acceptStart(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return true
	}
	var unavailable errCandidatesUnavailable
	if errors.As(err, &unavailable) {
		log.Printf("load picker clients failed request_id=%s err=%v", httpx.RequestIDFromRequest(r), unavailable.err)
		return true
	}
	h.WriteError(w, r, err)
	return false
}

func (h handlers) renderWizard(w http.ResponseWriter, r *http.Request, status int, state draftState, fieldErrors map[string]string) {
	loc, _ := h.PageLocalizer(w, r)
	view := wizardView(state, fieldErrors, loc)
	if httpx.IsHTMXRequest(r) && r.Method == http.MethodPost {
		h.WriteFragment(w, r, status, webtemplates.Wizard(view, loc))
		return
	}
	h.WritePage(w, r, webi18n.T(loc, "wizard.title", "Create client portal"), status, webtemplates.WizardPage(view, loc))
}

// formStatus keeps HTMX swaps on 200 and reports rejected input to plain
// form posts.
func formStatus(r *http.Request, problems map[string]string) int {
	if len(problems) == 0 || httpx.IsHTMXRequest(r) {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

func failureStatus(r *http.Request, failure wizard.Failure) int {
	switch {
	case httpx.IsHTMXRequest(r):
		return http.StatusOK
	case failure == wizard.FailureClientDetailsRequired:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func refreshHeader(delay time.Duration, location string) string {
	seconds := int((delay + time.Second - 1) / time.Second)
	return strconv.Itoa(seconds) + "; url=" + location
}
