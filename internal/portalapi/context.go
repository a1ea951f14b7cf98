package portalapi

import (
	"context"
	"strings"
)

type accessTokenKey struct{}

type requestIDKey struct{}

// WithAccessToken returns ctx carrying the bearer token for outbound calls.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, accessTokenKey{}, strings.TrimSpace(token))
}

// AccessTokenFromContext returns the bearer token attached to ctx.
func AccessTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// WithRequestID returns ctx carrying the inbound request id to forward.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the forwarded request id attached to ctx.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}
