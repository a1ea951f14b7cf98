package portals

import (
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	webi18n "github.com/louisbranch/hubbble/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/hubbble/internal/services/web/templates"
)

const wizardStepCount = 2

func wizardView(state draftState, fieldErrors map[string]string, loc webi18n.Localizer) webtemplates.WizardView {
	w := state.Wizard
	view := webtemplates.WizardView{
		Step:          string(w.Step),
		StepNumber:    1,
		StepCount:     wizardStepCount,
		Combobox:      comboboxView(state),
		ClientName:    w.Draft.ClientName,
		ClientEmail:   w.Draft.ClientEmail,
		EmailLocked:   !w.NeedsClient(),
		CanAdvance:    w.CanAdvance(),
		ProjectName:   w.Draft.ProjectName,
		Description:   w.Draft.Description,
		Statuses:      statusOptions(w.Draft.Status, loc),
		FieldErrors:   fieldErrors,
		RedirectDelay: wizard.SuccessRedirectDelay,
	}
	if w.Step == wizard.StepProjectDetails {
		view.StepNumber = 2
	}
	if w.Failure != wizard.FailureNone {
		view.Error = webi18n.T(loc, string(w.Failure), w.Failure.Message())
	}
	return view
}

func comboboxView(state draftState) webtemplates.ComboboxView {
	picker := state.Picker
	view := webtemplates.ComboboxView{
		Query:      picker.Query,
		ShowCreate: picker.ShowCreateOption(),
		ShowEmpty:  picker.ShowEmptyHint(),
		LoadFailed: state.LoadFailed,
	}
	view.Open = picker.ListVisible() || (picker.Open && (view.ShowEmpty || view.LoadFailed))
	for i, candidate := range picker.Filtered() {
		view.Options = append(view.Options, webtemplates.ComboOption{
			Index:       i,
			Name:        candidate.Name,
			Email:       candidate.Email,
			Highlighted: i == picker.Highlighted,
		})
	}
	return view
}

func statusOptions(selected wizard.Status, loc webi18n.Localizer) []webtemplates.Option {
	options := make([]webtemplates.Option, 0, len(wizard.Statuses))
	for _, status := range wizard.Statuses {
		options = append(options, webtemplates.Option{
			Value:    string(status),
			Label:    webi18n.T(loc, "dashboard.status."+string(status), status.Label()),
			Selected: status == selected,
		})
	}
	return options
}
