package portalapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed API call.
type Kind string

const (
	// KindAuth means the API rejected the bearer token (HTTP 401).
	KindAuth Kind = "auth"
	// KindAPI means the API answered with any other non-2xx status.
	KindAPI Kind = "api"
	// KindNetwork means no response was received.
	KindNetwork Kind = "network"
)

const (
	defaultAuthMessage    = "Your session has expired. Please sign in again."
	defaultNetworkMessage = "Network error. Please check your connection."
)

// Error is the normalised failure returned by every Client method.
type Error struct {
	Kind        Kind
	Message     string
	FieldErrors map[string]string
	StatusCode  int
	Err         error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("portal api %s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("portal api %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HasFieldErrors reports whether the API attached per-field messages.
func (e *Error) HasFieldErrors() bool {
	return e != nil && len(e.FieldErrors) > 0
}

// KindOf returns the kind of err when it wraps an *Error, else "".
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.Kind
	}
	return ""
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

// FieldErrorsOf returns the per-field messages carried by err, if any.
func FieldErrorsOf(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.FieldErrors
	}
	return nil
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: defaultNetworkMessage, Err: err}
}

// statusError builds the error for a non-2xx response from its decoded body.
func statusError(status int, body []byte) *Error {
	var env envelope
	_ = json.Unmarshal(body, &env)

	message := strings.TrimSpace(env.Message)
	if status == http.StatusUnauthorized {
		if message == "" {
			message = defaultAuthMessage
		}
		return &Error{Kind: KindAuth, Message: message, StatusCode: status}
	}
	if message == "" {
		message = strings.TrimSpace(http.StatusText(status))
	}
	if message == "" {
		message = "An error occurred"
	}
	return &Error{
		Kind:        KindAPI,
		Message:     message,
		FieldErrors: decodeFieldErrors(env.Errors),
		StatusCode:  status,
	}
}

// decodeFieldErrors accepts {"field": "msg"}, {"field": ["msg", ...]} and
// [{"field": "f", "message": "msg"}] shapes, keeping the first message per
// field.
func decodeFieldErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := map[string]string{}

	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err == nil {
		keys := make([]string, 0, len(byField))
		for key := range byField {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if msg := firstMessage(byField[key]); msg != "" {
				out[key] = msg
			}
		}
	} else {
		var list []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, item := range list {
				field := strings.TrimSpace(item.Field)
				msg := strings.TrimSpace(item.Message)
				if field == "" || msg == "" {
					continue
				}
				if _, exists := out[field]; !exists {
					out[field] = msg
				}
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstMessage(raw json.RawMessage) string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, msg := range many {
			if msg = strings.TrimSpace(msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}
