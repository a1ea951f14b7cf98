// Package combobox models the searchable client picker used by the portal
// wizard. The picker either selects an existing client or treats the typed
// text as the name of a client to create.
//
// State is plain data so handlers can persist it between HTTP round trips;
// every event is a method that mutates it and optionally returns an Intent.
package combobox

import "strings"

// NoHighlight marks that no option is highlighted.
const NoHighlight = -1

// Candidate is one existing client offered by the picker.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Intent is what the picker asks the wizard to record. It is either
// NewClientIntent or ExistingClientIntent.
type Intent interface {
	isIntent()
}

// NewClientIntent carries free text that may name a client to create.
type NewClientIntent struct {
	Text string
}

// ExistingClientIntent carries a picked existing client.
type ExistingClientIntent struct {
	Client Candidate
}

func (NewClientIntent) isIntent()      {}
func (ExistingClientIntent) isIntent() {}

// Key is a keyboard event the picker reacts to.
type Key string

const (
	KeyDown   Key = "ArrowDown"
	KeyUp     Key = "ArrowUp"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// ParseKey maps a DOM key name to a Key. Unknown names report false.
func ParseKey(raw string) (Key, bool) {
	switch Key(strings.TrimSpace(raw)) {
	case KeyDown:
		return KeyDown, true
	case KeyUp:
		return KeyUp, true
	case KeyEnter:
		return KeyEnter, true
	case KeyEscape:
		return KeyEscape, true
	default:
		return "", false
	}
}

// State is the picker: open flag, text buffer, highlighted row and the
// candidate list it filters.
type State struct {
	Open        bool        `json:"open"`
	Query       string      `json:"query"`
	Highlighted int         `json:"highlighted"`
	Candidates  []Candidate `json:"candidates"`
}

// New returns a closed picker over candidates with the buffer set to initial.
func New(candidates []Candidate, initial string) State {
	return State{
		Query:       initial,
		Highlighted: NoHighlight,
		Candidates:  append([]Candidate(nil), candidates...),
	}
}

// Filter returns candidates whose name contains query, case-insensitively,
// in input order. A blank query returns every candidate.
func Filter(candidates []Candidate, query string) []Candidate {
	if strings.TrimSpace(query) == "" {
		return append([]Candidate(nil), candidates...)
	}
	needle := strings.ToLower(query)
	out := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate.Name), needle) {
			out = append(out, candidate)
		}
	}
	return out
}

// Filtered returns the options currently offered.
func (s *State) Filtered() []Candidate {
	return Filter(s.Candidates, s.Query)
}

// Input replaces the buffer, opens the list and reports the text as a
// potential new client. The highlight is kept as is.
func (s *State) Input(text string) Intent {
	s.Query = text
	s.Open = true
	return NewClientIntent{Text: text}
}

// Focus opens the list.
func (s *State) Focus() {
	s.Open = true
}

// Hover highlights row i of the filtered options. Out of range is ignored.
func (s *State) Hover(i int) {
	if i >= 0 && i < len(s.Filtered()) {
		s.Highlighted = i
	}
}

// Pick commits row i of the filtered options.
func (s *State) Pick(i int) (Intent, bool) {
	filtered := s.Filtered()
	if i < 0 || i >= len(filtered) {
		return nil, false
	}
	picked := filtered[i]
	s.Query = picked.Name
	s.Open = false
	return ExistingClientIntent{Client: picked}, true
}

// Key applies a keyboard event. Only a committing Enter returns an intent.
func (s *State) Key(k Key) Intent {
	filtered := s.Filtered()
	switch k {
	case KeyDown:
		if s.Highlighted < len(filtered)-1 {
			s.Highlighted++
		}
	case KeyUp:
		if s.Highlighted > 0 {
			s.Highlighted--
		}
	case KeyEnter:
		if !s.Open {
			return nil
		}
		if s.Highlighted >= 0 && s.Highlighted < len(filtered) {
			intent, _ := s.Pick(s.Highlighted)
			return intent
		}
		if s.Highlighted == NoHighlight && s.Query != "" {
			s.Open = false
		}
	case KeyEscape:
		s.Open = false
	}
	return nil
}

// Dismiss closes the list after an interaction outside the picker. The
// buffer and any recorded intent are untouched.
func (s *State) Dismiss() {
	s.Open = false
}

// ExactMatch returns the candidate whose name equals the buffer,
// case-insensitively.
func (s *State) ExactMatch() (Candidate, bool) {
	needle := strings.ToLower(s.Query)
	for _, candidate := range s.Candidates {
		if strings.ToLower(candidate.Name) == needle {
			return candidate, true
		}
	}
	return Candidate{}, false
}

// ShowCreateOption reports whether the "create new client" row is offered.
func (s *State) ShowCreateOption() bool {
	if strings.TrimSpace(s.Query) == "" {
		return false
	}
	_, exact := s.ExactMatch()
	return !exact
}

// ListVisible reports whether the options list is rendered at all.
func (s *State) ListVisible() bool {
	return s.Open && (s.Query != "" || len(s.Filtered()) > 0)
}

// ShowEmptyHint reports whether the "start typing" hint replaces the options.
func (s *State) ShowEmptyHint() bool {
	return strings.TrimSpace(s.Query) == "" && len(s.Filtered()) == 0
}
