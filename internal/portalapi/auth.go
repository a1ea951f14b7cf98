package portalapi

import (
	"context"
	"errors"
	"strings"
)

// Login exchanges credentials for tokens. No bearer token is sent.
func (c *Client) Login(ctx context.Context, in Credentials) (AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	var out AuthResult
	if err := c.send(ctx, "/auth/login", in, false, &out); err != nil {
		return AuthResult{}, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return AuthResult{}, &Error{Kind: KindAPI, Message: "Login response did not include an access token", Err: errors.New("missing access token")}
	}
	return out, nil
}

// Signup registers a new account and returns its tokens.
func (c *Client) Signup(ctx context.Context, in Registration) (AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Profession = strings.TrimSpace(in.Profession)
	var out AuthResult
	if err := c.send(ctx, "/auth/register", in, false, &out); err != nil {
		return AuthResult{}, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return AuthResult{}, &Error{Kind: KindAPI, Message: "Signup response did not include an access token", Err: errors.New("missing access token")}
	}
	return out, nil
}

// Logout asks the API to revoke the bearer token in ctx. Callers treat the
// result as best effort and clear the local session regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, "/auth/logout", nil, true, nil)
}
