package templates

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
)

// Wizard step identifiers as rendered.
const (
	WizardStepClientInfo     = "client_info"
	WizardStepProjectDetails = "project_details"
	WizardStepSubmitting     = "submitting"
	WizardStepSuccess        = "success"
)

// ComboOption is one visible client in the picker.
type ComboOption struct {
	Index       int
	Name        string
	Email       string
	Highlighted bool
}

// ComboboxView is the client picker state.
type ComboboxView struct {
	Query      string
	Open       bool
	Options    []ComboOption
	ShowCreate bool
	ShowEmpty  bool
	LoadFailed bool
}

// WizardView is the create-portal flow state.
type WizardView struct {
	Step          string
	StepNumber    int
	StepCount     int
	Combobox      ComboboxView
	ClientName    string
	ClientEmail   string
	EmailLocked   bool
	CanAdvance    bool
	ProjectName   string
	Description   string
	Statuses      []Option
	Error         string
	FieldErrors   map[string]string
	RedirectDelay time.Duration
}

// WizardPage renders the wizard with its page heading.
func WizardPage(view WizardView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<section class="wizard-page">`)
		m.element("h1", "", t(loc, "wizard.title", "Create client portal"))
		m.render(ctx, Wizard(view, loc))
		m.raw("</section>")
	})
}

// Wizard renders the swappable wizard body for the current step.
func Wizard(view WizardView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		switch view.Step {
		case WizardStepSuccess:
			wizardSuccess(m, view, loc)
			return
		case WizardStepSubmitting:
			m.raw(`<div id="wizard" class="wizard" aria-busy="true">`)
			m.element("p", "submitting", t(loc, "wizard.submitting", "Creating portal..."))
			m.raw("</div>")
			return
		}
		m.raw(`<div id="wizard" class="wizard">`)
		wizardProgress(m, view, loc)
		m.render(ctx, Banner(view.Error))
		if view.Step == WizardStepProjectDetails {
			projectDetailsStep(ctx, m, view, loc)
		} else {
			clientInfoStep(ctx, m, view, loc)
		}
		m.raw("</div>")
	})
}

func wizardProgress(m *markup, view WizardView, loc Localizer) {
	m.raw(`<ol class="steps">`)
	for i, step := range []struct{ key, fallback string }{
		{"wizard.step.client_info", "Client info"},
		{"wizard.step.project_details", "Project details"},
	} {
		m.open("li")
		m.attrIf(i+1 == view.StepNumber, "aria-current", "step")
		m.raw(">")
		m.text(t(loc, step.key, step.fallback))
		m.raw("</li>")
	}
	m.raw("</ol>")
	m.element("p", "progress", t(loc, "wizard.step.progress", "Step %d of %d", view.StepNumber, view.StepCount))
}

func wizardFormAttrs(m *markup, action string) {
	m.attr("method", "post")
	m.attr("action", action)
	m.attr("hx-post", action)
	m.attr("hx-target", "#wizard")
	m.attr("hx-swap", "outerHTML")
}

func clientInfoStep(ctx context.Context, m *markup, view WizardView, loc Localizer) {
	m.open("form", "class", "wizard-step")
	wizardFormAttrs(m, routepath.AppPortalsNext)
	m.raw(">")

	m.open("div", "id", "client-combobox", "class", "field combobox")
	m.attr("hx-post", routepath.AppPortalsCombobox)
	m.attr("hx-trigger", "focusout[!this.contains(event.relatedTarget)] delay:200ms")
	m.attr("hx-vals", `{"event": "dismiss"}`)
	m.attr("hx-target", "#client-listbox")
	m.attr("hx-swap", "outerHTML")
	m.attr("hx-sync", "this:queue all")
	m.raw(">")
	fieldLabel(m, "client_name", t(loc, "wizard.client.name", "Client name"))
	m.render(ctx, ComboboxInput(view.Combobox, false, loc))
	m.render(ctx, ComboboxListbox(view.Combobox, loc))
	m.render(ctx, FieldError("client_name", view.FieldErrors["client_name"]))
	m.raw("</div>")

	m.render(ctx, ClientEmailField(view, false, loc))

	m.raw(`<div class="actions">`)
	m.open("button", "type", "submit", "class", "secondary", "formaction", routepath.AppPortalsBack, "hx-post", routepath.AppPortalsBack)
	m.raw(">")
	m.text(t(loc, "wizard.cancel", "Cancel"))
	m.raw("</button>")
	m.render(ctx, NextButton(view.CanAdvance, false, loc))
	m.raw("</div></form>")
}

// ComboboxInput renders the picker's text box.
func ComboboxInput(view ComboboxView, oob bool, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("input", "id", "field-client_name", "name", "client_name", "type", "text")
		m.attr("role", "combobox")
		m.attr("autocomplete", "off")
		m.attr("aria-autocomplete", "list")
		m.attr("aria-controls", "client-listbox")
		m.attr("aria-expanded", strconv.FormatBool(view.Open))
		m.attr("aria-describedby", "error-client_name")
		m.attr("placeholder", t(loc, "wizard.client.placeholder", "Search or create a client"))
		m.attrIf(view.Query != "", "value", view.Query)
		m.attr("hx-post", routepath.AppPortalsCombobox)
		m.attr("hx-trigger", "input changed delay:150ms, focus, keydown[key=='ArrowDown'||key=='ArrowUp'||key=='Enter'||key=='Escape']")
		m.attr("hx-vals", `js:{event: event.type, key: event.key || ""}`)
		m.attr("hx-target", "#client-listbox")
		m.attr("hx-swap", "outerHTML")
		m.attr("hx-sync", "closest .combobox:queue all")
		m.attr("onkeydown", "if(event.key==='Enter'){event.preventDefault()}")
		m.attrIf(oob, "hx-swap-oob", "true")
		m.raw(">")
	})
}

// ComboboxListbox renders the picker's option list.
func ComboboxListbox(view ComboboxView, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("ul", "id", "client-listbox", "class", "combobox-list", "role", "listbox")
		m.flag(!view.Open, "hidden")
		m.raw(">")
		if view.Open {
			if view.LoadFailed {
				m.element("li", "combobox-note", t(loc, "wizard.client.load_failed", "Could not load clients"))
			}
			for _, option := range view.Options {
				m.open("li", "id", "client-option-"+strconv.Itoa(option.Index), "role", "option")
				m.attr("aria-selected", strconv.FormatBool(option.Highlighted))
				m.attrIf(option.Highlighted, "class", "highlighted")
				m.raw(">")
				m.open("button", "type", "button", "tabindex", "-1")
				m.attr("hx-post", routepath.AppPortalsCombobox)
				m.attr("hx-vals", `{"event": "pick", "index": "`+strconv.Itoa(option.Index)+`"}`)
				m.attr("hx-target", "#client-listbox")
				m.attr("hx-swap", "outerHTML")
				m.attr("hx-sync", "closest .combobox:queue all")
				m.raw(">")
				m.element("span", "option-name", option.Name)
				if option.Email != "" {
					m.element("span", "option-email", option.Email)
				}
				m.raw("</button></li>")
			}
			if view.ShowEmpty {
				m.element("li", "combobox-note", t(loc, "wizard.client.empty", "No clients found"))
			}
			if view.ShowCreate {
				m.raw(`<li class="combobox-create">`)
				m.open("button", "type", "button", "tabindex", "-1")
				m.attr("hx-post", routepath.AppPortalsCombobox)
				m.attr("hx-vals", `{"event": "dismiss"}`)
				m.attr("hx-target", "#client-listbox")
				m.attr("hx-swap", "outerHTML")
				m.raw(">")
				m.text(t(loc, "wizard.client.create", "Create \"%s\"", view.Query))
				m.raw("</button></li>")
			}
		}
		m.raw("</ul>")
	})
}

// ClientEmailField renders the client email input. It is read-only while an
// existing client is selected.
func ClientEmailField(view WizardView, oob bool, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.open("div", "id", "client-email-field", "class", "field")
		m.attrIf(oob, "hx-swap-oob", "true")
		m.raw(">")
		fieldLabel(m, "client_email", t(loc, "wizard.client.email", "Client email"))
		m.open("input", "id", "field-client_email", "name", "client_email", "type", "email", "autocomplete", "off")
		m.attr("placeholder", t(loc, "wizard.client.email_placeholder", "client@example.com"))
		m.attr("aria-describedby", "error-client_email")
		m.attrIf(view.ClientEmail != "", "value", view.ClientEmail)
		m.flag(view.EmailLocked, "readonly")
		m.raw(">")
		m.render(ctx, FieldError("client_email", view.FieldErrors["client_email"]))
		m.raw("</div>")
	})
}

// NextButton renders the first step's continue button.
func NextButton(enabled bool, oob bool, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("button", "id", "wizard-next", "type", "submit", "class", "primary")
		m.attrIf(!enabled, "aria-disabled", "true")
		m.attrIf(oob, "hx-swap-oob", "true")
		m.raw(">")
		m.text(t(loc, "wizard.next", "Next"))
		m.raw("</button>")
	})
}

func projectDetailsStep(ctx context.Context, m *markup, view WizardView, loc Localizer) {
	m.open("form", "class", "wizard-step")
	wizardFormAttrs(m, routepath.AppPortalsSubmit)
	m.attr("hx-disabled-elt", "find button")
	m.attr("hx-indicator", "#wizard-progress")
	m.raw(">")

	m.raw(`<p class="client-summary">`)
	m.element("strong", "", view.ClientName)
	if view.ClientEmail != "" {
		m.raw(" ")
		m.element("span", "", view.ClientEmail)
	}
	m.raw("</p>")

	textInput(ctx, m, inputSpec{
		name: "project_name", label: t(loc, "wizard.project.name", "Project name"), kind: "text",
		value: view.ProjectName, autocomplete: "off", err: view.FieldErrors["project_name"],
	})

	m.raw(`<div class="field">`)
	fieldLabel(m, "description", t(loc, "wizard.project.description", "Description"))
	m.raw(`<textarea id="field-description" name="description" rows="4">`)
	m.text(view.Description)
	m.raw("</textarea></div>")

	m.raw(`<div class="field">`)
	fieldLabel(m, "project_status", t(loc, "wizard.project.status", "Status"))
	m.raw(`<select id="field-project_status" name="project_status">`)
	for _, option := range view.Statuses {
		m.open("option", "value", option.Value)
		m.flag(option.Selected, "selected")
		m.raw(">")
		m.text(option.Label)
		m.raw("</option>")
	}
	m.raw("</select></div>")

	m.raw(`<div class="actions">`)
	m.open("button", "type", "submit", "class", "secondary", "formaction", routepath.AppPortalsBack, "hx-post", routepath.AppPortalsBack)
	m.raw(">")
	m.text(t(loc, "wizard.back", "Back"))
	m.raw(`</button><button type="submit" class="primary">`)
	m.text(t(loc, "wizard.submit", "Create portal"))
	m.raw(`</button><span id="wizard-progress" class="htmx-indicator">`)
	m.text(t(loc, "wizard.submitting", "Creating portal..."))
	m.raw("</span></div></form>")
}

func wizardSuccess(m *markup, view WizardView, loc Localizer) {
	delay := view.RedirectDelay
	if delay <= 0 {
		delay = 1500 * time.Millisecond
	}
	m.open("div", "id", "wizard", "class", "wizard wizard-success", "role", "status")
	m.attr("hx-get", routepath.AppDashboard)
	m.attr("hx-trigger", "load delay:"+strconv.FormatInt(delay.Milliseconds(), 10)+"ms")
	m.attr("hx-target", "#main")
	m.attr("hx-swap", "innerHTML")
	m.attr("hx-push-url", "true")
	m.raw(">")
	m.element("h2", "", t(loc, "wizard.success.title", "Portal created!"))
	m.element("p", "", t(loc, "wizard.success.body", "Redirecting to your dashboard..."))
	m.raw("</div>")
}

// ComboboxUpdate is the response to a picker event: the list plus whichever
// neighbouring controls changed, swapped out of band.
func ComboboxUpdate(view WizardView, syncInput bool, syncEmail bool, loc Localizer) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.render(ctx, ComboboxListbox(view.Combobox, loc))
		if syncInput {
			m.render(ctx, ComboboxInput(view.Combobox, true, loc))
		}
		if syncEmail {
			m.render(ctx, ClientEmailField(view, true, loc))
		}
		m.render(ctx, NextButton(view.CanAdvance, true, loc))
	})
}
