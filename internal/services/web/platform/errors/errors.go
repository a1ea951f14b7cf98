// Package errors defines web typed application errors.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/louisbranch/hubbble/internal/portalapi"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Key)
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return portalErrorHTTPStatus(err, http.StatusInternalServerError)
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MapPortalError converts a portal API failure into a typed web error,
// keeping the API message. Other errors pass through unchanged.
func MapPortalError(err error) error {
	if err == nil {
		return nil
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return err
	}
	var apiErr *portalapi.Error
	if !stderrors.As(err, &apiErr) || apiErr == nil {
		return err
	}
	switch apiErr.Kind {
	case portalapi.KindAuth:
		return EK(KindUnauthorized, "error.session_expired", apiErr.Message)
	case portalapi.KindNetwork:
		return EK(KindUnavailable, "error.network", apiErr.Message)
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return E(KindInvalidInput, apiErr.Message)
	case http.StatusForbidden:
		return EK(KindForbidden, "error.forbidden", apiErr.Message)
	case http.StatusNotFound:
		return EK(KindNotFound, "error.not_found", apiErr.Message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return EK(KindUnavailable, "error.unavailable", apiErr.Message)
	default:
		return EK(KindUnknown, "error.request_failed", apiErr.Message)
	}
}

func portalErrorHTTPStatus(err error, fallback int) int {
	var apiErr *portalapi.Error
	if !stderrors.As(err, &apiErr) || apiErr == nil {
		return fallback
	}
	switch apiErr.Kind {
	case portalapi.KindAuth:
		return http.StatusUnauthorized
	case portalapi.KindNetwork:
		return http.StatusServiceUnavailable
	}
	if apiErr.StatusCode >= 400 && apiErr.StatusCode < 600 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}
