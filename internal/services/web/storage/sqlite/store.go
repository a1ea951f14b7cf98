package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/hubbble/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/hubbble/internal/services/web/storage"
	"github.com/louisbranch/hubbble/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for web sessions and drafts.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a web SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSession upserts a session and prunes expired sessions.
func (s *Store) SaveSession(ctx context.Context, session webstorage.Session) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	now := s.now().UTC()
	session, err := webstorage.NormalizeSession(session, now)
	if err != nil {
		return err
	}
	if err := s.pruneExpired(ctx, now); err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO web_sessions (
		    session_id, access_token, user_id, display_name, email, created_at, expires_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		    access_token = excluded.access_token,
		    user_id = excluded.user_id,
		    display_name = excluded.display_name,
		    email = excluded.email,
		    expires_at = excluded.expires_at`,
		session.ID,
		session.AccessToken,
		session.UserID,
		session.DisplayName,
		session.Email,
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns a stored, unexpired session by id.
func (s *Store) LoadSession(ctx context.Context, sessionID string) (webstorage.Session, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Session{}, false, webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return webstorage.Session{}, false, nil
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT session_id, access_token, user_id, display_name, email, created_at, expires_at
		 FROM web_sessions
		 WHERE session_id = ?`,
		sessionID,
	)

	var session webstorage.Session
	var createdAt int64
	var expiresAt int64
	if err := row.Scan(
		&session.ID,
		&session.AccessToken,
		&session.UserID,
		&session.DisplayName,
		&session.Email,
		&createdAt,
		&expiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.Session{}, false, nil
		}
		return webstorage.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	if session.Expired(s.now()) {
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// DeleteSession removes a session and its draft.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM wizard_drafts WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("delete draft: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM web_sessions WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// SaveDraft upserts the wizard draft for a session.
func (s *Store) SaveDraft(ctx context.Context, draft webstorage.Draft) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	draft, err := webstorage.NormalizeDraft(draft, s.now().UTC())
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO wizard_drafts (session_id, payload_json, updated_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		    payload_json = excluded.payload_json,
		    updated_at = excluded.updated_at,
		    expires_at = excluded.expires_at`,
		draft.SessionID,
		draft.Payload,
		timeToUnixMillis(draft.UpdatedAt),
		timeToUnixMillis(draft.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the unexpired draft for a session.
func (s *Store) LoadDraft(ctx context.Context, sessionID string) (webstorage.Draft, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Draft{}, false, webstorage.ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return webstorage.Draft{}, false, nil
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT session_id, payload_json, updated_at, expires_at
		 FROM wizard_drafts
		 WHERE session_id = ?`,
		sessionID,
	)
	var draft webstorage.Draft
	var updatedAt int64
	var expiresAt int64
	if err := row.Scan(&draft.SessionID, &draft.Payload, &updatedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.Draft{}, false, nil
		}
		return webstorage.Draft{}, false, fmt.Errorf("load draft: %w", err)
	}
	draft.UpdatedAt = unixMillisToTime(updatedAt)
	draft.ExpiresAt = unixMillisToTime(expiresAt)
	if draft.Expired(s.now()) {
		return webstorage.Draft{}, false, nil
	}
	return draft, true, nil
}

// DeleteDraft removes the draft for a session.
func (s *Store) DeleteDraft(ctx context.Context, sessionID string) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM wizard_drafts WHERE session_id = ?`, strings.TrimSpace(sessionID)); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// PruneExpired removes sessions and drafts whose retention has passed.
func (s *Store) PruneExpired(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	return s.pruneExpired(ctx, s.now().UTC())
}

func (s *Store) pruneExpired(ctx context.Context, now time.Time) error {
	cutoff := timeToUnixMillis(now)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			`DELETE FROM wizard_drafts
			 WHERE (expires_at > 0 AND expires_at <= ?)
			    OR session_id IN (SELECT session_id FROM web_sessions WHERE expires_at > 0 AND expires_at <= ?)`,
			cutoff, cutoff,
		); err != nil {
			return fmt.Errorf("prune drafts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at > 0 AND expires_at <= ?`, cutoff); err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// runMigrations applies embedded SQL migrations in filename order.
func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
