// Package portalapi is the HTTP/JSON client for the remote portal API.
//
// The web service never owns clients or projects; it reaches them through
// this package. Every call returns either a decoded payload or a *Error whose
// Kind tells the caller how to react: AuthError tears the session down,
// APIError may carry per-field messages, NetworkError means no response was
// received at all.
package portalapi
