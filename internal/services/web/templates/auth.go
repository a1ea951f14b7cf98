package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

// Option is one entry of a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// StrengthView is the password meter reading.
type StrengthView struct {
	Score int
	Level string
	Label string
}

// LoginView is the sign-in form state.
type LoginView struct {
	Email  string
	Errors map[string]string
	Banner string
}

// SignupView is the account creation form state. Passwords are never
// echoed back.
type SignupView struct {
	FullName        string
	Email           string
	Professions     []Option
	ProfessionOther string
	ShowOther       bool
	Errors          map[string]string
	Banner          string
	Strength        StrengthView
}

type inputSpec struct {
	name         string
	label        string
	kind         string
	value        string
	autocomplete string
	placeholder  string
	err          string
	validate     bool
	liveValidate bool
}

func validationAttrs(m *markup, field string, live bool) {
	m.attr("hx-post", routepath.SignupValidate)
	m.attr("hx-include", "closest form")
	m.attr("hx-swap", "outerHTML")
	switch {
	case field == "profession":
		m.attr("hx-target", "#profession-field")
		m.attr("hx-trigger", "change, blur")
		m.attr("hx-vals", `{"field": "profession"}`)
	case live:
		m.attr("hx-target", "#error-"+field)
		m.attr("hx-trigger", "blur, input changed delay:300ms")
		m.attr("hx-vals", `js:{field: "`+field+`", event: event.type}`)
	default:
		m.attr("hx-target", "#error-"+field)
		m.attr("hx-trigger", "blur")
		m.attr("hx-vals", `{"field": "`+field+`"}`)
	}
}

func fieldLabel(m *markup, name, label string) {
	m.open("label", "for", "field-"+name)
	m.raw(">")
	m.text(label)
	m.raw("</label>")
}

func textInput(ctx context.Context, m *markup, field inputSpec) {
	m.raw(`<div class="field">`)
	fieldLabel(m, field.name, field.label)
	m.open("input", "id", "field-"+field.name, "name", field.name, "type", field.kind)
	m.attrIf(field.value != "", "value", field.value)
	m.attrIf(field.autocomplete != "", "autocomplete", field.autocomplete)
	m.attrIf(field.placeholder != "", "placeholder", field.placeholder)
	m.attr("aria-describedby", "error-"+field.name)
	m.attrIf(field.err != "", "aria-invalid", "true")
	if field.validate {
		validationAttrs(m, field.name, field.liveValidate)
	}
	m.raw(">")
	m.render(ctx, FieldError(field.name, field.err))
	m.raw("</div>")
}

// FieldError renders the inline message slot for one field. An empty
// message renders the empty slot so it can be swapped later.
func FieldError(field string, message string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("p", "id", "error-"+field, "class", "field-error", "aria-live", "polite")
		m.flag(message == "", "hidden")
		m.raw(">")
		m.text(message)
		m.raw("</p>")
	})
}

// StrengthMeter renders the password meter. With oob set it is emitted as
// an HTMX out-of-band swap.
func StrengthMeter(view StrengthView, oob bool, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		class := "strength"
		if view.Level != "" {
			class += " strength-" + view.Level
		}
		m.open("div", "id", "password-strength", "class", class)
		m.attrIf(oob, "hx-swap-oob", "true")
		m.raw(">")
		m.element("span", "strength-label", t(loc, "auth.strength.label", "Password strength"))
		m.open("meter", "min", "0", "max", "5")
		m.intAttr("value", view.Score)
		m.raw("></meter>")
		if view.Level != "" {
			m.element("span", "strength-level", t(loc, "auth.strength."+view.Level, view.Label))
		}
		m.raw("</div>")
	})
}

// LoginPage renders the sign-in form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.element("h1", "", t(loc, "auth.login.title", "Welcome back"))
		m.element("p", "subtitle", t(loc, "auth.login.subtitle", "Sign in to your Hubbble account"))
		m.render(ctx, Banner(view.Banner))
		m.open("form", "method", "post", "action", routepath.Login, "novalidate", "novalidate")
		m.raw(">")
		textInput(ctx, m, inputSpec{
			name: "email", label: t(loc, "auth.field.email", "Email"), kind: "email",
			value: view.Email, autocomplete: "email", err: view.Errors["email"],
		})
		textInput(ctx, m, inputSpec{
			name: "password", label: t(loc, "auth.field.password", "Password"), kind: "password",
			autocomplete: "current-password", err: view.Errors["password"],
		})
		m.raw(`<button type="submit" class="primary">`)
		m.text(t(loc, "auth.login.submit", "Sign in"))
		m.raw("</button></form>")
		m.raw(`<p class="switch">`)
		m.text(t(loc, "auth.login.no_account", "Don't have an account?"))
		m.raw(" ")
		m.open("a", "href", routepath.Signup)
		m.raw(">")
		m.text(t(loc, "auth.login.signup_link", "Sign up"))
		m.raw("</a></p>")
	})
}

// SignupPage renders the account creation form with blur validation.
func SignupPage(view SignupView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.element("h1", "", t(loc, "auth.signup.title", "Create your account"))
		m.element("p", "subtitle", t(loc, "auth.signup.subtitle", "Start sharing portals with your clients"))
		m.render(ctx, Banner(view.Banner))
		m.open("form", "method", "post", "action", routepath.Signup, "novalidate", "novalidate")
		m.raw(">")
		textInput(ctx, m, inputSpec{
			name: "full_name", label: t(loc, "auth.field.full_name", "Full name"), kind: "text",
			value: view.FullName, autocomplete: "name", err: view.Errors["full_name"], validate: true,
		})
		textInput(ctx, m, inputSpec{
			name: "email", label: t(loc, "auth.field.email", "Email"), kind: "email",
			value: view.Email, autocomplete: "email", err: view.Errors["email"], validate: true,
		})
		m.render(ctx, ProfessionField(view, loc))
		textInput(ctx, m, inputSpec{
			name: "password", label: t(loc, "auth.field.password", "Password"), kind: "password",
			autocomplete: "new-password", err: view.Errors["password"], validate: true, liveValidate: true,
		})
		m.render(ctx, StrengthMeter(view.Strength, false, loc))
		textInput(ctx, m, inputSpec{
			name: "confirm_password", label: t(loc, "auth.field.confirm_password", "Confirm password"), kind: "password",
			autocomplete: "new-password", err: view.Errors["confirm_password"], validate: true,
		})
		m.raw(`<button type="submit" class="primary">`)
		m.text(t(loc, "auth.signup.submit", "Create account"))
		m.raw("</button></form>")
		m.raw(`<p class="switch">`)
		m.text(t(loc, "auth.signup.have_account", "Already have an account?"))
		m.raw(" ")
		m.open("a", "href", routepath.Login)
		m.raw(">")
		m.text(t(loc, "auth.signup.login_link", "Sign in"))
		m.raw("</a></p>")
	})
}

// ProfessionField renders the profession picker and its free-text
// companion, shown when Other is selected.
func ProfessionField(view SignupView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		professionField(ctx, m, view, loc)
	})
}

func professionField(ctx context.Context, m *markup, view SignupView, loc Localizer) {
	m.raw(`<div class="field" id="profession-field">`)
	fieldLabel(m, "profession", t(loc, "auth.field.profession", "Profession"))
	m.open("select", "id", "field-profession", "name", "profession", "aria-describedby", "error-profession")
	m.attrIf(view.Errors["profession"] != "", "aria-invalid", "true")
	validationAttrs(m, "profession", false)
	m.raw(`><option value="">`)
	m.text(t(loc, "auth.field.profession_placeholder", "Select your profession"))
	m.raw("</option>")
	for _, option := range view.Professions {
		m.open("option", "value", option.Value)
		m.flag(option.Selected, "selected")
		m.raw(">")
		m.text(option.Label)
		m.raw("</option>")
	}
	m.raw("</select>")
	m.open("input", "id", "field-profession_other", "name", "profession_other", "type", "text")
	m.attr("placeholder", t(loc, "auth.field.profession_other", "Your profession"))
	m.attr("aria-label", t(loc, "auth.field.profession_other", "Your profession"))
	m.attrIf(view.ProfessionOther != "", "value", view.ProfessionOther)
	m.flag(!view.ShowOther, "hidden")
	m.raw(">")
	m.render(ctx, FieldError("profession", view.Errors["profession"]))
	m.raw("</div>")
}
