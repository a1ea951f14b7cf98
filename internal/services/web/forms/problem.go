// Package forms validates login and signup input.
//
// Validators are pure and total: every string maps to a Problem, and the zero
// Problem means the value is acceptable. The same functions back inline blur
// checks and full-form submission, so a field never reports differently
// depending on how it was checked.
package forms

// Code classifies why a field was rejected.
type Code string

const (
	CodeRequired      Code = "required"
	CodeInvalidFormat Code = "invalid_format"
	CodeTooShort      Code = "too_short"
	CodeMismatch      Code = "mismatch"
)

// Problem describes one rejected field. Key is the localization key and
// Message the English copy.
type Problem struct {
	Code    Code
	Key     string
	Message string
}

// OK reports whether the value passed validation.
func (p Problem) OK() bool { return p.Code == "" }

var (
	emailRequired    = Problem{Code: CodeRequired, Key: "validation.email.required", Message: "Email is required"}
	emailInvalid     = Problem{Code: CodeInvalidFormat, Key: "validation.email.invalid", Message: "Please enter a valid email address"}
	passwordRequired = Problem{Code: CodeRequired, Key: "validation.password.required", Message: "Password is required"}
	passwordTooShort = Problem{Code: CodeTooShort, Key: "validation.password.too_short", Message: "Password must be at least 8 characters"}
	confirmRequired  = Problem{Code: CodeRequired, Key: "validation.confirm_password.required", Message: "Please confirm your password"}
	confirmMismatch  = Problem{Code: CodeMismatch, Key: "validation.confirm_password.mismatch", Message: "Passwords do not match"}
	fullNameRequired = Problem{Code: CodeRequired, Key: "validation.full_name.required", Message: "Full name is required"}
	professionNeeded = Problem{Code: CodeRequired, Key: "validation.profession.required", Message: "Profession is required"}
)
