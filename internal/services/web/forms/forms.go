package forms

import "strings"

// Field names as submitted by the login and signup forms.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldFullName        = "full_name"
	FieldProfession      = "profession"
	FieldProfessionOther = "profession_other"
)

// ProfessionOther is the preset that switches to free text.
const ProfessionOther = "Other"

// Professions lists the signup presets in display order.
var Professions = []string{"Designer", "Developer", "Writer", "Consultant", "Photographer", "Marketer", ProfessionOther}

// ResolveProfession returns the profession to send: the trimmed free text for
// Other, the trimmed preset otherwise.
func ResolveProfession(choice, other string) string {
	choice = strings.TrimSpace(choice)
	if strings.EqualFold(choice, ProfessionOther) {
		return strings.TrimSpace(other)
	}
	return choice
}

// LoginForm is the sign-in input.
type LoginForm struct {
	Email    string
	Password string
}

// SignupForm is the account creation input.
type SignupForm struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Profession      string
	ProfessionOther string
}

// Verdict is the outcome of validating a whole form.
type Verdict struct {
	Valid  bool
	Errors map[string]Problem
}

// Message returns the English message for field, or "".
func (v Verdict) Message(field string) string {
	return v.Errors[field].Message
}

type fieldCheck struct {
	name  string
	check func() Problem
}

func run(checks []fieldCheck) Verdict {
	errs := map[string]Problem{}
	for _, fc := range checks {
		if problem := fc.check(); !problem.OK() {
			errs[fc.name] = problem
		}
	}
	return Verdict{Valid: len(errs) == 0, Errors: errs}
}

func (f LoginForm) checks() []fieldCheck {
	return []fieldCheck{
		{FieldEmail, func() Problem { return Email(f.Email) }},
		{FieldPassword, func() Problem { return PasswordPresent(f.Password) }},
	}
}

func (f SignupForm) checks() []fieldCheck {
	return []fieldCheck{
		{FieldFullName, func() Problem { return FullName(f.FullName) }},
		{FieldEmail, func() Problem { return Email(f.Email) }},
		{FieldPassword, func() Problem { return Password(f.Password) }},
		{FieldConfirmPassword, func() Problem { return ConfirmPassword(f.Password, f.ConfirmPassword) }},
		{FieldProfession, func() Problem { return Profession(f.Profession, f.ProfessionOther) }},
	}
}

// ValidateLogin checks presence of both credentials and the email shape.
func ValidateLogin(f LoginForm) Verdict { return run(f.checks()) }

// ValidateSignup checks every signup field.
func ValidateSignup(f SignupForm) Verdict { return run(f.checks()) }

// ResolvedProfession returns the profession value to submit.
func (f SignupForm) ResolvedProfession() string {
	return ResolveProfession(f.Profession, f.ProfessionOther)
}

// Field validates one signup field exactly as ValidateSignup would. Unknown
// field names are accepted.
func (f SignupForm) Field(name string) Problem {
	if name == FieldProfessionOther {
		name = FieldProfession
	}
	for _, fc := range f.checks() {
		if fc.name == name {
			return fc.check()
		}
	}
	return Problem{}
}

// Field validates one login field exactly as ValidateLogin would.
func (f LoginForm) Field(name string) Problem {
	for _, fc := range f.checks() {
		if fc.name == name {
			return fc.check()
		}
	}
	return Problem{}
}
