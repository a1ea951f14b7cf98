package publicauth

import (
	"net/http"
	"strings"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/forms"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

func loginFormFromRequest(r *http.Request) forms.LoginForm {
	return forms.LoginForm{
		Email:    r.PostFormValue(forms.FieldEmail),
		Password: r.PostFormValue(forms.FieldPassword),
	}
}

func signupFormFromRequest(r *http.Request) forms.SignupForm {
	return forms.SignupForm{
		FullName:        r.PostFormValue(forms.FieldFullName),
		Email:           r.PostFormValue(forms.FieldEmail),
		Password:        r.PostFormValue(forms.FieldPassword),
		ConfirmPassword: r.PostFormValue(forms.FieldConfirmPassword),
		Profession:      r.PostFormValue(forms.FieldProfession),
		ProfessionOther: r.PostFormValue(forms.FieldProfessionOther),
	}
}

func localizeProblem(loc webi18n.Localizer, problem forms.Problem) string {
	if problem.OK() {
		return ""
	}
	return webi18n.T(loc, problem.Key, problem.Message)
}

func localizeProblems(loc webi18n.Localizer, problems map[string]forms.Problem) map[string]string {
	if len(problems) == 0 {
		return nil
	}
	out := make(map[string]string, len(problems))
	for field, problem := range problems {
		out[field] = localizeProblem(loc, problem)
	}
	return out
}

func professionOptions(selected string, loc webi18n.Localizer) []webtemplates.Option {
	selected = strings.TrimSpace(selected)
	options := make([]webtemplates.Option, 0, len(forms.Professions))
	for _, profession := range forms.Professions {
		options = append(options, webtemplates.Option{
			Value:    profession,
			Label:    webi18n.T(loc, "auth.profession."+strings.ToLower(profession), profession),
			Selected: strings.EqualFold(profession, selected),
		})
	}
	return options
}

func strengthView(password string, loc webi18n.Localizer) webtemplates.StrengthView {
	strength := forms.PasswordStrength(password)
	level := string(strength.Level)
	label := strength.Label()
	if level != "" {
		label = webi18n.T(loc, "auth.strength."+level, label)
	}
	return webtemplates.StrengthView{Score: strength.Score, Level: level, Label: label}
}

func loginView(f forms.LoginForm) webtemplates.LoginView {
	return webtemplates.LoginView{Email: f.Email}
}

func signupView(f forms.SignupForm, loc webi18n.Localizer) webtemplates.SignupView {
	return webtemplates.SignupView{
		FullName:        f.FullName,
		Email:           f.Email,
		Professions:     professionOptions(f.Profession, loc),
		ProfessionOther: f.ProfessionOther,
		ShowOther:       strings.EqualFold(strings.TrimSpace(f.Profession), forms.ProfessionOther),
	}
}

// apiFieldErrors keeps the API's per-field messages for fields the form
// renders. Anything else is left to the banner.
func apiFieldErrors(err error, known ...string) map[string]string {
	raw := portalapi.FieldErrorsOf(err)
	if len(raw) == 0 {
		return nil
	}
	out := map[string]string{}
	for _, field := range known {
		if message := strings.TrimSpace(raw[field]); message != "" {
			out[field] = message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// failureBanner picks the banner copy for a failed login or signup.
func failureBanner(loc webi18n.Localizer, err error, key string, fallback string) string {
	if portalapi.IsNetwork(err) {
		return webi18n.T(loc, "error.network", "Network error. Please check your connection.")
	}
	return webi18n.T(loc, key, fallback)
}

func failureStatus(err error) int {
	switch portalapi.KindOf(err) {
	case portalapi.KindAuth:
		return http.StatusUnauthorized
	case portalapi.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
