package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned by nil or closed stores.
var ErrNotConfigured = errors.New("storage is not configured")

// Session maps one browser session id to the API access token issued at
// login or signup.
type Session struct {
	ID          string
	AccessToken string
	UserID      string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	// ExpiresAt is the local retention bound. Stores hide and prune sessions
	// past it; the API still decides whether the token itself is valid.
	ExpiresAt time.Time
}

// Expired reports whether the retention bound has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Draft stores the serialized wizard state for one session.
type Draft struct {
	SessionID string
	Payload   []byte
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the draft retention bound has passed.
func (d Draft) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && !now.Before(d.ExpiresAt)
}

// SessionStore persists browser sessions.
type SessionStore interface {
	SaveSession(ctx context.Context, session Session) error
	// LoadSession returns false for missing and expired sessions.
	LoadSession(ctx context.Context, sessionID string) (Session, bool, error)
	// DeleteSession also removes the session's draft.
	DeleteSession(ctx context.Context, sessionID string) error
}

// DraftStore persists wizard drafts keyed by session id.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft Draft) error
	LoadDraft(ctx context.Context, sessionID string) (Draft, bool, error)
	DeleteDraft(ctx context.Context, sessionID string) error
}

// Store is the full web persistence contract.
type Store interface {
	SessionStore
	DraftStore
	Close() error
}

// NormalizeSession validates and fills defaults before a write.
func NormalizeSession(session Session, now time.Time) (Session, error) {
	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		return Session{}, fmt.Errorf("session id is required")
	}
	session.AccessToken = strings.TrimSpace(session.AccessToken)
	if session.AccessToken == "" {
		return Session{}, fmt.Errorf("access token is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.CreatedAt = session.CreatedAt.UTC()
	if !session.ExpiresAt.IsZero() {
		session.ExpiresAt = session.ExpiresAt.UTC()
	}
	return session, nil
}

// NormalizeDraft validates and fills defaults before a write.
func NormalizeDraft(draft Draft, now time.Time) (Draft, error) {
	draft.SessionID = strings.TrimSpace(draft.SessionID)
	if draft.SessionID == "" {
		return Draft{}, fmt.Errorf("session id is required")
	}
	if len(draft.Payload) == 0 {
		return Draft{}, fmt.Errorf("draft payload is required")
	}
	if draft.UpdatedAt.IsZero() {
		draft.UpdatedAt = now
	}
	draft.UpdatedAt = draft.UpdatedAt.UTC()
	if !draft.ExpiresAt.IsZero() {
		draft.ExpiresAt = draft.ExpiresAt.UTC()
	}
	return draft, nil
}
