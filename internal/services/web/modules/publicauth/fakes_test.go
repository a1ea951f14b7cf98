package publicauth

import (
	"context"
	"net/http"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// fakeGateway implements AuthGateway with configurable results and call
// tracking.
type fakeGateway struct {
	result       portalapi.AuthResult
	err          error
	logoutErr    error
	credentials  []portalapi.Credentials
	registration []portalapi.Registration
	logoutTokens []string
}

func (f *fakeGateway) Login(_ context.Context, in portalapi.Credentials) (portalapi.AuthResult, error) {
	f.credentials = append(f.credentials, in)
	if f.err != nil {
		return portalapi.AuthResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeGateway) Signup(_ context.Context, in portalapi.Registration) (portalapi.AuthResult, error) {
	f.registration = append(f.registration, in)
	if f.err != nil {
		return portalapi.AuthResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeGateway) Logout(ctx context.Context) error {
	f.logoutTokens = append(f.logoutTokens, portalapi.AccessTokenFromContext(ctx))
	return f.logoutErr
}

// fakeSessions implements Sessions without storage or cookies.
type fakeSessions struct {
	authenticated bool
	token         string
	setErr        error
	set           []portalapi.AuthResult
	clears        int
}

func (f *fakeSessions) Set(_ http.ResponseWriter, _ *http.Request, auth portalapi.AuthResult) (storage.Session, error) {
	if f.setErr != nil {
		return storage.Session{}, f.setErr
	}
	f.set = append(f.set, auth)
	return storage.Session{ID: "session-1", AccessToken: auth.AccessToken}, nil
}

func (f *fakeSessions) Clear(http.ResponseWriter, *http.Request) error {
	f.clears++
	return nil
}

func (f *fakeSessions) ResolveLandingRoute(*http.Request) string {
	if f.authenticated {
		return routepath.AppDashboard
	}
	return routepath.Login
}

func (f *fakeSessions) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.authenticated {
			httpx.WriteRedirect(w, r, routepath.AppDashboard)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeSessions) WithAccessToken(r *http.Request) context.Context {
	if f.token == "" {
		return r.Context()
	}
	return portalapi.WithAccessToken(r.Context(), f.token)
}
