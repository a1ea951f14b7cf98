package forms

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted signup password, in characters.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks presence and a lightweight local@domain.tld shape.
func Email(s string) Problem {
	if s == "" {
		return emailRequired
	}
	if strings.ContainsFunc(s, isEmailSpace) || !emailPattern.MatchString(s) {
		return emailInvalid
	}
	return Problem{}
}

// isEmailSpace covers Unicode whitespace, which RE2's \s leaves out.
func isEmailSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// Password checks presence and minimum length for new credentials.
func Password(s string) Problem {
	if s == "" {
		return passwordRequired
	}
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return passwordTooShort
	}
	return Problem{}
}

// PasswordPresent checks only that an existing credential was entered.
func PasswordPresent(s string) Problem {
	if s == "" {
		return passwordRequired
	}
	return Problem{}
}

// ConfirmPassword checks that confirmation was entered and matches exactly.
func ConfirmPassword(password, confirm string) Problem {
	if confirm == "" {
		return confirmRequired
	}
	if password != confirm {
		return confirmMismatch
	}
	return Problem{}
}

// FullName requires a non-blank name.
func FullName(s string) Problem {
	if strings.TrimSpace(s) == "" {
		return fullNameRequired
	}
	return Problem{}
}

// Profession requires a preset choice, or free text when Other is chosen.
func Profession(choice, other string) Problem {
	if ResolveProfession(choice, other) == "" {
		return professionNeeded
	}
	return Problem{}
}

// StrengthLevel buckets a password strength score.
type StrengthLevel string

const (
	StrengthNone   StrengthLevel = ""
	StrengthWeak   StrengthLevel = "weak"
	StrengthFair   StrengthLevel = "fair"
	StrengthGood   StrengthLevel = "good"
	StrengthStrong StrengthLevel = "strong"
)

// Strength is the password meter reading. Score ranges over 0..5.
type Strength struct {
	Score int
	Level StrengthLevel
}

// Label returns the English meter label.
func (s Strength) Label() string {
	switch s.Level {
	case StrengthWeak:
		return "Weak"
	case StrengthFair:
		return "Fair"
	case StrengthGood:
		return "Good"
	case StrengthStrong:
		return "Strong"
	default:
		return ""
	}
}

// PasswordStrength scores length, mixed case, digits and symbols. It is
// advisory only and never blocks submission.
func PasswordStrength(p string) Strength {
	if p == "" {
		return Strength{}
	}
	score := 0
	length := utf8.RuneCountInString(p)
	if length >= MinPasswordLength {
		score++
	}
	if length >= 12 {
		score++
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	if lower && upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}

	level := StrengthStrong
	switch {
	case score <= 2:
		level = StrengthWeak
	case score <= 3:
		level = StrengthFair
	case score <= 4:
		level = StrengthGood
	}
	return Strength{Score: score, Level: level}
}
