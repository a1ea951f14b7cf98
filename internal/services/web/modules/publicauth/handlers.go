package publicauth

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/forms"
	apperrors "github.com/louisbranch/hubbble/internal/services/web/platform/errors"
	"github.com/louisbranch/hubbble/internal/services/web/platform/flash"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	"github.com/louisbranch/hubbble/internal/services/web/platform/publichandler"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

// eventInput marks a keystroke-driven validation request.
const eventInput = "input"

type handlers struct {
	publichandler.Base
	service  service
	sessions Sessions
}

func newHandlers(s service, sessions Sessions, base publichandler.Base) handlers {
	return handlers{Base: base, service: s, sessions: sessions}
}

func (h handlers) handleLanding(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, h.sessions.ResolveLandingRoute(r))
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, h.service.healthBody())
}

func (h handlers) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, webtemplates.LoginView{})
}

func (h handlers) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "failed to parse login form"))
		return
	}
	form := loginFormFromRequest(r)
	loc, _ := h.PageLocalizer(w, r)
	view := loginView(form)
	if verdict := forms.ValidateLogin(form); !verdict.Valid {
		view.Errors = localizeProblems(loc, verdict.Errors)
		h.renderLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	auth, err := h.service.login(r.Context(), form)
	if err != nil {
		if portalapi.KindOf(err) == "" {
			h.WriteError(w, r, err)
			return
		}
		log.Printf("login failed request_id=%s kind=%s err=%v", httpx.RequestIDFromRequest(r), portalapi.KindOf(err), err)
		view.Errors = apiFieldErrors(err, forms.FieldEmail, forms.FieldPassword)
		view.Banner = failureBanner(loc, err, "auth.login.failed", "Login failed")
		h.renderLogin(w, r, failureStatus(err), view)
		return
	}
	h.startSession(w, r, auth)
}

func (h handlers) handleSignupGet(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	h.renderSignup(w, r, http.StatusOK, signupView(forms.SignupForm{}, loc))
}

func (h handlers) handleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "failed to parse signup form"))
		return
	}
	form := signupFormFromRequest(r)
	loc, _ := h.PageLocalizer(w, r)
	view := signupView(form, loc)
	if verdict := forms.ValidateSignup(form); !verdict.Valid {
		view.Errors = localizeProblems(loc, verdict.Errors)
		h.renderSignup(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	auth, err := h.service.signup(r.Context(), form)
	if err != nil {
		if portalapi.KindOf(err) == "" {
			h.WriteError(w, r, err)
			return
		}
		log.Printf("signup failed request_id=%s kind=%s err=%v", httpx.RequestIDFromRequest(r), portalapi.KindOf(err), err)
		view.Errors = apiFieldErrors(err, forms.FieldFullName, forms.FieldEmail, forms.FieldPassword, forms.FieldProfession)
		view.Banner = failureBanner(loc, err, "auth.signup.failed", "Signup failed")
		h.renderSignup(w, r, failureStatus(err), view)
		return
	}
	h.startSession(w, r, auth)
}

// handleSignupValidate answers one blur or keystroke check with the fragment
// that replaces the field's message slot.
func (h handlers) handleSignupValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "failed to parse signup form"))
		return
	}
	form := signupFormFromRequest(r)
	loc, _ := h.PageLocalizer(w, r)
	field := strings.TrimSpace(r.PostFormValue("field"))

	switch field {
	case forms.FieldProfession, forms.FieldProfessionOther:
		view := signupView(form, loc)
		if message := localizeProblem(loc, form.Field(forms.FieldProfession)); message != "" {
			view.Errors = map[string]string{forms.FieldProfession: message}
		}
		h.WriteFragment(w, r, http.StatusOK, webtemplates.ProfessionField(view, loc))
	case forms.FieldPassword:
		message := ""
		if r.PostFormValue("event") != eventInput {
			message = localizeProblem(loc, form.Field(field))
		}
		h.WriteFragment(w, r, http.StatusOK, webtemplates.Fragments(
			webtemplates.FieldError(field, message),
			webtemplates.StrengthMeter(strengthView(form.Password, loc), true, loc),
		))
	case forms.FieldFullName, forms.FieldEmail, forms.FieldConfirmPassword:
		h.WriteFragment(w, r, http.StatusOK, webtemplates.FieldError(field, localizeProblem(loc, form.Field(field))))
	default:
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "unknown signup field"))
	}
}

// handleLogout revokes the token upstream on a best-effort basis and always
// clears the local session.
func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestIDFromRequest(r)
	if err := h.service.logout(h.sessions.WithAccessToken(r)); err != nil {
		log.Printf("logout upstream failed request_id=%s err=%v", requestID, err)
	}
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("clear session failed request_id=%s err=%v", requestID, err)
	}
	h.SetFlash(w, r, flash.Info("auth.logout.done"))
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) startSession(w http.ResponseWriter, r *http.Request, auth portalapi.AuthResult) {
	if _, err := h.sessions.Set(w, r, auth); err != nil {
		h.WriteError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppDashboard)
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, view webtemplates.LoginView) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePublicPage(w, r, webi18n.T(loc, "auth.login.submit", "Sign in"), status, webtemplates.LoginPage(view, loc))
}

func (h handlers) renderSignup(w http.ResponseWriter, r *http.Request, status int, view webtemplates.SignupView) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePublicPage(w, r, webi18n.T(loc, "auth.signup.submit", "Create account"), status, webtemplates.SignupPage(view, loc))
}
