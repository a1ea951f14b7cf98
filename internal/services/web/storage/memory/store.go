// Package memory implements the web store in process memory. Sessions are
// lost on restart, so it suits development and single-instance deployments.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	webstorage "github.com/louisbranch/hubbble/internal/services/web/storage"
)

// DefaultSize bounds how many sessions are kept.
const DefaultSize = 10000

// Store keeps sessions and drafts in bounded LRU caches. Evicting a session
// evicts its draft.
type Store struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, webstorage.Session]
	drafts   *lru.Cache[string, webstorage.Draft]
	now      func() time.Time
}

// New builds a store holding at most size sessions.
func New(size int) (*Store, error) {
	return NewWithClock(size, time.Now)
}

// NewWithClock builds a store that judges expiry against now.
func NewWithClock(size int, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	if size <= 0 {
		size = DefaultSize
	}
	drafts, err := lru.New[string, webstorage.Draft](size)
	if err != nil {
		return nil, err
	}
	sessions, err := lru.NewWithEvict(size, func(sessionID string, _ webstorage.Session) {
		drafts.Remove(sessionID)
	})
	if err != nil {
		return nil, err
	}
	return &Store{sessions: sessions, drafts: drafts, now: now}, nil
}

// Close drops all entries.
func (s *Store) Close() error {
	if s == nil || s.sessions == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Purge()
	s.drafts.Purge()
	return nil
}

// SaveSession upserts a session, keeping the original CreatedAt.
func (s *Store) SaveSession(_ context.Context, session webstorage.Session) error {
	if s == nil || s.sessions == nil {
		return webstorage.ErrNotConfigured
	}
	session, err := webstorage.NormalizeSession(session, s.now().UTC())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions.Peek(session.ID); ok {
		session.CreatedAt = existing.CreatedAt
	}
	s.sessions.Add(session.ID, session)
	return nil
}

// LoadSession returns a stored, unexpired session by id.
func (s *Store) LoadSession(_ context.Context, sessionID string) (webstorage.Session, bool, error) {
	if s == nil || s.sessions == nil {
		return webstorage.Session{}, false, webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return webstorage.Session{}, false, nil
	}
	if session.Expired(s.now()) {
		s.sessions.Remove(sessionID)
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// DeleteSession removes a session and its draft.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	if s == nil || s.sessions == nil {
		return webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(sessionID)
	s.drafts.Remove(sessionID)
	return nil
}

// SaveDraft upserts the draft for a session.
func (s *Store) SaveDraft(_ context.Context, draft webstorage.Draft) error {
	if s == nil || s.drafts == nil {
		return webstorage.ErrNotConfigured
	}
	draft, err := webstorage.NormalizeDraft(draft, s.now().UTC())
	if err != nil {
		return err
	}
	draft.Payload = append([]byte(nil), draft.Payload...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts.Add(draft.SessionID, draft)
	return nil
}

// LoadDraft returns the unexpired draft for a session.
func (s *Store) LoadDraft(_ context.Context, sessionID string) (webstorage.Draft, bool, error) {
	if s == nil || s.drafts == nil {
		return webstorage.Draft{}, false, webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts.Get(sessionID)
	if !ok {
		return webstorage.Draft{}, false, nil
	}
	if draft.Expired(s.now()) {
		s.drafts.Remove(sessionID)
		return webstorage.Draft{}, false, nil
	}
	draft.Payload = append([]byte(nil), draft.Payload...)
	return draft, true, nil
}

// DeleteDraft removes the draft for a session.
func (s *Store) DeleteDraft(_ context.Context, sessionID string) error {
	if s == nil || s.drafts == nil {
		return webstorage.ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts.Remove(strings.TrimSpace(sessionID))
	return nil
}

var _ webstorage.Store = (*Store)(nil)
