package sessiongate

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/hubbble/internal/services/web/storage/memory"
)

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestGate(t *testing.T) (*Gate, *memory.Store) {
	t.Helper()
	store, err := memory.NewWithClock(16, func() time.Time { return testNow })
	if err != nil {
		t.Fatalf("memory.NewWithClock() error = %v", err)
	}
	codec, err := sessioncookie.New(sessioncookie.Options{HashKey: bytes.Repeat([]byte("k"), 32)})
	if err != nil {
		t.Fatalf("sessioncookie.New() error = %v", err)
	}
	ids := 0
	gate := New(Config{
		Store:   store,
		Cookies: codec,
		Now:     func() time.Time { return testNow },
		NewID: func() string {
			ids++
			return "sess-" + string(rune('0'+ids))
		},
	})
	return gate, store
}

func login(t *testing.T, gate *Gate, auth portalapi.AuthResult) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if _, err := gate.Set(rec, req, auth); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessioncookie.Name {
			return cookie
		}
	}
	t.Fatal("expected session cookie")
	return nil
}

func requestWith(cookie *http.Cookie, method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestIsAuthenticatedAfterLoginAndLogout(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	if gate.IsAuthenticated(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatal("expected anonymous request to be signed out")
	}

	cookie := login(t, gate, portalapi.AuthResult{ID: "7", FullName: "Ada", AccessToken: "tok-1"})
	req := requestWith(cookie, http.MethodGet, "/")
	if !gate.IsAuthenticated(req) {
		t.Fatal("IsAuthenticated after login = false, want true")
	}
	session, _ := gate.Get(req)
	if session.DisplayName != "Ada" || session.UserID != "7" {
		t.Fatalf("session = %+v", session)
	}

	rec := httptest.NewRecorder()
	if err := gate.Clear(rec, requestWith(cookie, http.MethodPost, "/logout")); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if gate.IsAuthenticated(requestWith(cookie, http.MethodGet, "/")) {
		t.Fatal("IsAuthenticated after logout = true, want false")
	}
}

func TestOversizedExpiresInKeepsSessionSignedIn(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok", ExpiresIn: 1 << 40})
	if !gate.IsAuthenticated(requestWith(cookie, http.MethodGet, "/")) {
		t.Fatal("IsAuthenticated after login = false, want true")
	}
}

func TestMissingSessionRowIsSignedOut(t *testing.T) {
	t.Parallel()

	gate, store := newTestGate(t)
	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok"})
	sessionID, _ := gate.cookies.Read(requestWith(cookie, http.MethodGet, "/"))
	if err := store.DeleteSession(context.Background(), sessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if gate.IsAuthenticated(requestWith(cookie, http.MethodGet, "/")) {
		t.Fatal("expected missing row to read as signed out")
	}
}

func TestResolveLandingRoute(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	if got := gate.ResolveLandingRoute(httptest.NewRequest(http.MethodGet, "/", nil)); got != "/login" {
		t.Fatalf("ResolveLandingRoute(anonymous) = %q, want /login", got)
	}
	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok"})
	if got := gate.ResolveLandingRoute(requestWith(cookie, http.MethodGet, "/")); got != "/app/dashboard" {
		t.Fatalf("ResolveLandingRoute(signed in) = %q, want /app/dashboard", got)
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	var gotToken string
	h := gate.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = portalapi.AccessTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous = %d %q, want 302 /login", rec.Code, rec.Header().Get("Location"))
	}

	htmx := httptest.NewRequest(http.MethodPost, "/app/portals/new/next", nil)
	htmx.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, htmx)
	if rec.Header().Get("HX-Redirect") != "/login" {
		t.Fatalf("HX-Redirect = %q, want /login", rec.Header().Get("HX-Redirect"))
	}

	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok-9"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWith(cookie, http.MethodGet, "/app/dashboard"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("signed in status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gotToken != "tok-9" {
		t.Fatalf("context token = %q, want %q", gotToken, "tok-9")
	}
}

func TestRedirectAuthenticated(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	h := gate.RedirectAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", rec.Code)
	}

	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWith(cookie, http.MethodGet, "/login"))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/app/dashboard" {
		t.Fatalf("signed in = %d %q, want 302 /app/dashboard", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHandleUnauthorizedRunsOncePerRequest(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	events := 0
	unsubscribe := gate.Subscribe(func(e Event) {
		if e.Kind == EventSignedOut {
			events++
		}
	})
	defer unsubscribe()

	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok"})
	var first, second bool
	var rec *httptest.ResponseRecorder
	h := gate.WithRequestState()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = gate.HandleUnauthorized(w, r)
		second = gate.HandleUnauthorized(w, r)
	}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWith(cookie, http.MethodGet, "/app/dashboard"))

	if !first || !second {
		t.Fatalf("HandleUnauthorized = %v, %v, want true, true", first, second)
	}
	if rec.Header().Get("Location") != "/login" {
		t.Fatalf("Location = %q, want /login", rec.Header().Get("Location"))
	}
	if events != 1 {
		t.Fatalf("signed out events = %d, want 1", events)
	}
	if gate.IsAuthenticated(requestWith(cookie, http.MethodGet, "/")) {
		t.Fatal("expected session to be torn down")
	}
}

func TestHandleUnauthorizedOnAuthViewDoesNotRedirect(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok"})
	rec := httptest.NewRecorder()
	if gate.HandleUnauthorized(rec, requestWith(cookie, http.MethodPost, "/login")) {
		t.Fatal("HandleUnauthorized on /login = true, want false")
	}
	if rec.Header().Get("Location") != "" {
		t.Fatalf("Location = %q, want none", rec.Header().Get("Location"))
	}
	if gate.IsAuthenticated(requestWith(cookie, http.MethodGet, "/")) {
		t.Fatal("expected session to be cleared")
	}
}

func TestRequestStateReflectsSetAndClear(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	h := gate.WithRequestState()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate.IsAuthenticated(r) {
			t.Fatal("expected signed out before Set")
		}
		if _, err := gate.Set(w, r, portalapi.AuthResult{AccessToken: "tok"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if !gate.IsAuthenticated(r) {
			t.Fatal("expected signed in right after Set")
		}
		if err := gate.Clear(w, r); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if gate.IsAuthenticated(r) {
			t.Fatal("expected signed out right after Clear")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil))
}

func TestSetReplacesPreviousSession(t *testing.T) {
	t.Parallel()

	gate, store := newTestGate(t)
	first := login(t, gate, portalapi.AuthResult{AccessToken: "a"})
	firstID, _ := gate.cookies.Read(requestWith(first, http.MethodGet, "/"))

	rec := httptest.NewRecorder()
	if _, err := gate.Set(rec, requestWith(first, http.MethodPost, "/login"), portalapi.AuthResult{AccessToken: "b"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := store.LoadSession(context.Background(), firstID); found {
		t.Fatal("expected previous session row to be deleted")
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	var kinds []EventKind
	unsubscribe := gate.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })
	cookie := login(t, gate, portalapi.AuthResult{AccessToken: "tok"})
	if err := gate.Clear(httptest.NewRecorder(), requestWith(cookie, http.MethodPost, "/logout")); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	unsubscribe()
	unsubscribe()
	login(t, gate, portalapi.AuthResult{AccessToken: "tok"})

	if len(kinds) != 2 || kinds[0] != EventSignedIn || kinds[1] != EventSignedOut {
		t.Fatalf("events = %v, want [signed_in signed_out]", kinds)
	}
}

func TestRetentionBound(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	exp := testNow.Add(2 * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name string
		auth portalapi.AuthResult
		want time.Time
	}{
		{name: "jwt exp", auth: portalapi.AuthResult{AccessToken: token}, want: exp.Add(DefaultRetention)},
		{name: "expires in", auth: portalapi.AuthResult{AccessToken: "opaque", ExpiresIn: 60}, want: testNow.Add(time.Minute + DefaultRetention)},
		{name: "oversized expires in", auth: portalapi.AuthResult{AccessToken: "opaque", ExpiresIn: 1 << 40}, want: testNow.Add(DefaultRetention)},
		{name: "no hint", auth: portalapi.AuthResult{AccessToken: "opaque"}, want: testNow.Add(DefaultRetention)},
	}
	for _, tc := range tests {
		if got := gate.retentionBound(testNow, tc.auth); !got.Equal(tc.want) {
			t.Fatalf("%s: retentionBound = %v, want %v", tc.name, got, tc.want)
		}
	}

	forever := New(Config{Retention: -1})
	if got := forever.retentionBound(testNow, portalapi.AuthResult{}); !got.IsZero() {
		t.Fatalf("negative retention = %v, want zero", got)
	}
}
