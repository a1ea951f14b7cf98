// Package redis implements the web store on Redis so several web instances
// can share sessions. Retention maps onto key TTLs.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	webstorage "github.com/louisbranch/hubbble/internal/services/web/storage"
	goredis "github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "hubbble:web:session:" // hubbble:web:session:{session_id}
	draftKeyPrefix   = "hubbble:web:draft:"   // hubbble:web:draft:{session_id}
)

type sessionRecord struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type draftRecord struct {
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Store keeps sessions and drafts as JSON values under prefixed keys.
type Store struct {
	client     *goredis.Client
	ownsClient bool
	now        func() time.Time
}

// New wraps an existing client. Close leaves the client open.
func New(client *goredis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// Open connects to the Redis URL and verifies the connection.
func Open(ctx context.Context, url string) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client, ownsClient: true, now: time.Now}, nil
}

// Close releases the client when the store opened it.
func (s *Store) Close() error {
	if s == nil || s.client == nil || !s.ownsClient {
		return nil
	}
	return s.client.Close()
}

// SaveSession upserts a session, keeping the original CreatedAt.
func (s *Store) SaveSession(ctx context.Context, session webstorage.Session) error {
	if s == nil || s.client == nil {
		return webstorage.ErrNotConfigured
	}
	now := s.now().UTC()
	session, err := webstorage.NormalizeSession(session, now)
	if err != nil {
		return err
	}
	key := sessionKeyPrefix + session.ID
	if session.Expired(now) {
		if err := s.client.Del(ctx, key, draftKeyPrefix+session.ID).Err(); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}

	existing, found, err := s.getSession(ctx, key)
	if err != nil {
		return err
	}
	if found {
		session.CreatedAt = existing.CreatedAt
	}
	data, err := json.Marshal(sessionRecord{
		AccessToken: session.AccessToken,
		UserID:      session.UserID,
		DisplayName: session.DisplayName,
		Email:       session.Email,
		CreatedAt:   session.CreatedAt,
		ExpiresAt:   session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key, data, ttlUntil(now, session.ExpiresAt)).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns a stored, unexpired session by id.
func (s *Store) LoadSession(ctx context.Context, sessionID string) (webstorage.Session, bool, error) {
	if s == nil || s.client == nil {
		return webstorage.Session{}, false, webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return webstorage.Session{}, false, nil
	}
	record, found, err := s.getSession(ctx, sessionKeyPrefix+sessionID)
	if err != nil || !found {
		return webstorage.Session{}, false, err
	}
	session := webstorage.Session{
		ID:          sessionID,
		AccessToken: record.AccessToken,
		UserID:      record.UserID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
		CreatedAt:   record.CreatedAt.UTC(),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	if session.Expired(s.now()) {
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// DeleteSession removes a session and its draft.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if s == nil || s.client == nil {
		return webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)
	pipe.Del(ctx, draftKeyPrefix+sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SaveDraft upserts the draft for a session.
func (s *Store) SaveDraft(ctx context.Context, draft webstorage.Draft) error {
	if s == nil || s.client == nil {
		return webstorage.ErrNotConfigured
	}
	now := s.now().UTC()
	draft, err := webstorage.NormalizeDraft(draft, now)
	if err != nil {
		return err
	}
	key := draftKeyPrefix + draft.SessionID
	if draft.Expired(now) {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
		return nil
	}
	payload := json.RawMessage(draft.Payload)
	if !json.Valid(payload) {
		return fmt.Errorf("draft payload must be JSON")
	}
	data, err := json.Marshal(draftRecord{Payload: payload, UpdatedAt: draft.UpdatedAt, ExpiresAt: draft.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, key, data, ttlUntil(now, draft.ExpiresAt)).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the unexpired draft for a session.
func (s *Store) LoadDraft(ctx context.Context, sessionID string) (webstorage.Draft, bool, error) {
	if s == nil || s.client == nil {
		return webstorage.Draft{}, false, webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return webstorage.Draft{}, false, nil
	}
	data, err := s.client.Get(ctx, draftKeyPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return webstorage.Draft{}, false, nil
	}
	if err != nil {
		return webstorage.Draft{}, false, fmt.Errorf("load draft: %w", err)
	}
	var record draftRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return webstorage.Draft{}, false, fmt.Errorf("decode draft: %w", err)
	}
	draft := webstorage.Draft{
		SessionID: sessionID,
		Payload:   []byte(record.Payload),
		UpdatedAt: record.UpdatedAt.UTC(),
		ExpiresAt: record.ExpiresAt.UTC(),
	}
	if draft.Expired(s.now()) {
		return webstorage.Draft{}, false, nil
	}
	return draft, true, nil
}

// DeleteDraft removes the draft for a session.
func (s *Store) DeleteDraft(ctx context.Context, sessionID string) error {
	if s == nil || s.client == nil {
		return webstorage.ErrNotConfigured
	}
	if err := s.client.Del(ctx, draftKeyPrefix+strings.TrimSpace(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *Store) getSession(ctx context.Context, key string) (sessionRecord, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return sessionRecord{}, false, nil
	}
	if err != nil {
		return sessionRecord{}, false, fmt.Errorf("load session: %w", err)
	}
	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return sessionRecord{}, false, fmt.Errorf("decode session: %w", err)
	}
	return record, true, nil
}

// ttlUntil converts a retention bound to a key TTL; zero keeps the key.
func ttlUntil(now, expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	ttl := expiresAt.Sub(now)
	if ttl < time.Millisecond {
		return time.Millisecond
	}
	return ttl
}

var _ webstorage.Store = (*Store)(nil)
