// Package sessiongate decides whether a browser request is signed in and
// owns the session lifecycle: set on login, clear on logout, and teardown
// when the portal API rejects the stored token.
//
// A session is signed in iff its cookie resolves to a stored record with a
// non-empty access token. The gate never asks the portal API; an expired
// token is only discovered by the next API call answering 401.
package sessiongate

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// DefaultRetention is how long a session row is kept past its token expiry.
const DefaultRetention = 7 * 24 * time.Hour

// EventKind distinguishes session lifecycle notifications.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is delivered to subscribers after a session change.
type Event struct {
	Kind      EventKind
	SessionID string
}

// Config wires a Gate.
type Config struct {
	Store   storage.SessionStore
	Cookies *sessioncookie.Codec
	// Retention is added to the token expiry to get the row's ExpiresAt.
	// Zero uses DefaultRetention; negative keeps rows forever.
	Retention time.Duration
	Now       func() time.Time
	NewID     func() string
}

// Gate resolves and mutates browser sessions.
type Gate struct {
	store     storage.SessionStore
	cookies   *sessioncookie.Codec
	retention time.Duration
	now       func() time.Time
	newID     func() string

	mu          sync.RWMutex
	subscribers map[int]func(Event)
	nextSub     int
}

// New builds a gate.
func New(cfg Config) *Gate {
	g := &Gate{
		store:       cfg.Store,
		cookies:     cfg.Cookies,
		retention:   cfg.Retention,
		now:         cfg.Now,
		newID:       cfg.NewID,
		subscribers: map[int]func(Event){},
	}
	if g.retention == 0 {
		g.retention = DefaultRetention
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	return g
}

type requestState struct {
	mu                  sync.Mutex
	resolved            bool
	session             storage.Session
	signedIn            bool
	unauthorizedHandled bool
}

type requestStateKey struct{}

// WithRequestState installs per-request session memoization. Without it every
// lookup hits the store.
func (g *Gate) WithRequestState() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if stateFromRequest(r) != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), requestStateKey{}, &requestState{})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func stateFromRequest(r *http.Request) *requestState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestStateKey{}).(*requestState)
	return state
}

// Get returns the signed-in session for the request.
func (g *Gate) Get(r *http.Request) (storage.Session, bool) {
	if g == nil || r == nil {
		return storage.Session{}, false
	}
	state := stateFromRequest(r)
	if state == nil {
		return g.lookup(r)
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.resolved {
		state.session, state.signedIn = g.lookup(r)
		state.resolved = true
	}
	return state.session, state.signedIn
}

func (g *Gate) lookup(r *http.Request) (storage.Session, bool) {
	if g.store == nil {
		return storage.Session{}, false
	}
	sessionID, ok := g.cookies.Read(r)
	if !ok {
		return storage.Session{}, false
	}
	session, found, err := g.store.LoadSession(r.Context(), sessionID)
	if err != nil {
		log.Printf("session lookup failed request_id=%s err=%v", httpx.RequestIDFromRequest(r), err)
		return storage.Session{}, false
	}
	if !found || strings.TrimSpace(session.AccessToken) == "" {
		return storage.Session{}, false
	}
	return session, true
}

// IsAuthenticated reports whether the request carries a usable session.
func (g *Gate) IsAuthenticated(r *http.Request) bool {
	_, ok := g.Get(r)
	return ok
}

// ResolveLandingRoute returns where "/" sends the visitor.
func (g *Gate) ResolveLandingRoute(r *http.Request) string {
	if g.IsAuthenticated(r) {
		return routepath.AppDashboard
	}
	return routepath.Login
}

// Set stores a new session for a successful login or signup and writes the
// cookie. Any previous session on this browser is replaced.
func (g *Gate) Set(w http.ResponseWriter, r *http.Request, auth portalapi.AuthResult) (storage.Session, error) {
	if g == nil || g.store == nil {
		return storage.Session{}, storage.ErrNotConfigured
	}
	if previousID, ok := g.cookies.Read(r); ok {
		if err := g.store.DeleteSession(r.Context(), previousID); err != nil {
			log.Printf("drop previous session failed request_id=%s err=%v", httpx.RequestIDFromRequest(r), err)
		}
	}

	now := g.now().UTC()
	session := storage.Session{
		ID:          g.newID(),
		AccessToken: strings.TrimSpace(auth.AccessToken),
		UserID:      auth.ID.String(),
		DisplayName: strings.TrimSpace(auth.FullName),
		Email:       strings.TrimSpace(auth.Email),
		CreatedAt:   now,
		ExpiresAt:   g.retentionBound(now, auth),
	}
	if err := g.store.SaveSession(r.Context(), session); err != nil {
		return storage.Session{}, err
	}
	if err := g.cookies.Write(w, r, session.ID); err != nil {
		_ = g.store.DeleteSession(r.Context(), session.ID)
		return storage.Session{}, err
	}
	if state := stateFromRequest(r); state != nil {
		state.mu.Lock()
		state.session, state.signedIn, state.resolved = session, true, true
		state.unauthorizedHandled = false
		state.mu.Unlock()
	}
	g.publish(Event{Kind: EventSignedIn, SessionID: session.ID})
	return session, nil
}

// Clear removes the stored session and expires the cookie.
func (g *Gate) Clear(w http.ResponseWriter, r *http.Request) error {
	if g == nil {
		return nil
	}
	sessionID, hasSession := g.cookies.Read(r)
	g.cookies.Clear(w, r)
	if state := stateFromRequest(r); state != nil {
		state.mu.Lock()
		state.session, state.signedIn, state.resolved = storage.Session{}, false, true
		state.mu.Unlock()
	}
	if !hasSession {
		return nil
	}
	var err error
	if g.store != nil {
		err = g.store.DeleteSession(r.Context(), sessionID)
	}
	g.publish(Event{Kind: EventSignedOut, SessionID: sessionID})
	return err
}

// Subscribe registers fn for lifecycle events and returns its cancel func.
func (g *Gate) Subscribe(fn func(Event)) (unsubscribe func()) {
	if g == nil || fn == nil {
		return func() {}
	}
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subscribers[id] = fn
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subscribers, id)
			g.mu.Unlock()
		})
	}
}

func (g *Gate) publish(event Event) {
	g.mu.RLock()
	subs := make([]func(Event), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		subs = append(subs, fn)
	}
	g.mu.RUnlock()
	for _, fn := range subs {
		fn(event)
	}
}

// HandleUnauthorized tears the session down after the portal API rejected
// its token. Outside auth views it also redirects to the login page. It
// acts once per request and reports whether it wrote a response.
func (g *Gate) HandleUnauthorized(w http.ResponseWriter, r *http.Request) bool {
	if g == nil || r == nil {
		return false
	}
	if state := stateFromRequest(r); state != nil {
		state.mu.Lock()
		handled := state.unauthorizedHandled
		state.unauthorizedHandled = true
		state.mu.Unlock()
		if handled {
			return !routepath.IsAuthView(r.URL.Path)
		}
	}
	if err := g.Clear(w, r); err != nil {
		log.Printf("clear rejected session failed request_id=%s err=%v", httpx.RequestIDFromRequest(r), err)
	}
	if routepath.IsAuthView(r.URL.Path) {
		return false
	}
	httpx.WriteRedirect(w, r, routepath.Login)
	return true
}

// RequireAuth redirects signed-out requests to the login page and puts the
// session token on the request context for portal API calls.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := g.Get(r)
		if !ok {
			httpx.WriteRedirect(w, r, routepath.Login)
			return
		}
		ctx := portalapi.WithAccessToken(r.Context(), session.AccessToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectAuthenticated sends signed-in visitors away from auth views.
func (g *Gate) RedirectAuthenticated(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.IsAuthenticated(r) {
			httpx.WriteRedirect(w, r, routepath.AppDashboard)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithAccessToken returns the request context carrying the session token,
// or the plain context when signed out.
func (g *Gate) WithAccessToken(r *http.Request) context.Context {
	session, ok := g.Get(r)
	if !ok {
		return httpx.RequestContext(r)
	}
	return portalapi.WithAccessToken(r.Context(), session.AccessToken)
}

// maxExpiresIn is the largest expiresIn, in seconds, that fits a Duration.
const maxExpiresIn = math.MaxInt64 / int64(time.Second)

// retentionBound prefers the token's own exp claim, then expiresIn, then now.
func (g *Gate) retentionBound(now time.Time, auth portalapi.AuthResult) time.Time {
	if g.retention < 0 {
		return time.Time{}
	}
	base := now
	if exp, ok := tokenExpiry(auth.AccessToken); ok && exp.After(now) {
		base = exp
	} else if auth.ExpiresIn > 0 && auth.ExpiresIn <= maxExpiresIn {
		base = now.Add(time.Duration(auth.ExpiresIn) * time.Second)
	}
	return base.Add(g.retention)
}

// tokenExpiry reads the exp claim without verifying the signature. The value
// only bounds local retention; the API remains the authority on validity.
func tokenExpiry(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
