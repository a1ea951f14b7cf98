package portalapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a remote record identifier. The API emits numbers today; strings are
// accepted so a backend switch to opaque ids does not break decoding.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the raw id.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Timestamp decodes the API's ISO-8601 timestamps with or without a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// UnmarshalJSON accepts null, "" and the layouts in timestampLayouts.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("decode timestamp: unsupported format %q", raw)
}

// MarshalJSON emits RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup request body.
type Registration struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Profession string `json:"profession"`
}

// AuthResult is returned by login and signup.
type AuthResult struct {
	ID           ID     `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Profession   string `json:"profession"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// ClientRecord is a freelancer's customer record.
type ClientRecord struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NewClient is the create-client request body.
type NewClient struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ProjectClient is the client summary embedded in a project.
type ProjectClient struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Project is one client portal.
type Project struct {
	ID          ID             `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	PublicSlug  string         `json:"public_slug,omitempty"`
	Client      *ProjectClient `json:"client,omitempty"`
	UpdatedAt   Timestamp      `json:"updated_at"`
}

// ClientName returns the embedded client name or "".
func (p Project) ClientName() string {
	if p.Client == nil {
		return ""
	}
	return p.Client.Name
}

// NewProject is the create-project request body. Status is always sent in
// lower case.
type NewProject struct {
	Name        string `json:"project_name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"project_status"`
	ClientID    ID     `json:"client_id"`
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}
