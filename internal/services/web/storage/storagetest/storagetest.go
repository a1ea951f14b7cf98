// Package storagetest holds the behavior every web storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// Factory opens a fresh, empty store for one subtest.
type Factory func(t *testing.T) storage.Store

// Run exercises the storage.Store contract against a backend.
func Run(t *testing.T, open Factory) {
	t.Helper()

	t.Run("session round trip", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		want := storage.Session{
			ID:          "sess-1",
			AccessToken: "token-1",
			UserID:      "42",
			DisplayName: "Alice",
			Email:       "alice@example.com",
			CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
			ExpiresAt:   time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond),
		}
		if err := store.SaveSession(ctx, want); err != nil {
			t.Fatalf("SaveSession() error = %v", err)
		}
		got, found, err := store.LoadSession(ctx, "sess-1")
		if err != nil {
			t.Fatalf("LoadSession() error = %v", err)
		}
		if !found {
			t.Fatal("expected session")
		}
		if got.AccessToken != want.AccessToken || got.UserID != want.UserID || got.DisplayName != want.DisplayName || got.Email != want.Email {
			t.Fatalf("session = %+v, want %+v", got, want)
		}
		if !got.ExpiresAt.Equal(want.ExpiresAt) {
			t.Fatalf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		store := open(t)
		_, found, err := store.LoadSession(context.Background(), "nope")
		if err != nil {
			t.Fatalf("LoadSession() error = %v", err)
		}
		if found {
			t.Fatal("expected missing session")
		}
	})

	t.Run("rejects invalid session", func(t *testing.T) {
		store := open(t)
		if err := store.SaveSession(context.Background(), storage.Session{ID: "sess-1"}); err == nil {
			t.Fatal("expected error for empty access token")
		}
	})

	t.Run("expired session is not found", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		err := store.SaveSession(ctx, storage.Session{
			ID:          "old",
			AccessToken: "token",
			ExpiresAt:   time.Now().Add(-time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveSession() error = %v", err)
		}
		_, found, err := store.LoadSession(ctx, "old")
		if err != nil {
			t.Fatalf("LoadSession() error = %v", err)
		}
		if found {
			t.Fatal("expected expired session to be hidden")
		}
	})

	t.Run("upsert keeps created at", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		created := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
		if err := store.SaveSession(ctx, storage.Session{ID: "s", AccessToken: "a", CreatedAt: created}); err != nil {
			t.Fatalf("SaveSession() error = %v", err)
		}
		if err := store.SaveSession(ctx, storage.Session{ID: "s", AccessToken: "b"}); err != nil {
			t.Fatalf("SaveSession(update) error = %v", err)
		}
		got, found, err := store.LoadSession(ctx, "s")
		if err != nil || !found {
			t.Fatalf("LoadSession() = %v, %v", found, err)
		}
		if got.AccessToken != "b" {
			t.Fatalf("AccessToken = %q, want %q", got.AccessToken, "b")
		}
		if !got.CreatedAt.Equal(created) {
			t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, created)
		}
	})

	t.Run("draft round trip and overwrite", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		mustSaveSession(t, store, "sess-1")
		if err := store.SaveDraft(ctx, storage.Draft{SessionID: "sess-1", Payload: []byte(`{"step":"client_info"}`)}); err != nil {
			t.Fatalf("SaveDraft() error = %v", err)
		}
		if err := store.SaveDraft(ctx, storage.Draft{SessionID: "sess-1", Payload: []byte(`{"step":"project_details"}`)}); err != nil {
			t.Fatalf("SaveDraft(overwrite) error = %v", err)
		}
		got, found, err := store.LoadDraft(ctx, "sess-1")
		if err != nil || !found {
			t.Fatalf("LoadDraft() = %v, %v", found, err)
		}
		if string(got.Payload) != `{"step":"project_details"}` {
			t.Fatalf("Payload = %s", got.Payload)
		}
		if err := store.DeleteDraft(ctx, "sess-1"); err != nil {
			t.Fatalf("DeleteDraft() error = %v", err)
		}
		if _, found, _ := store.LoadDraft(ctx, "sess-1"); found {
			t.Fatal("expected draft to be deleted")
		}
	})

	t.Run("expired draft is not found", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		mustSaveSession(t, store, "sess-1")
		err := store.SaveDraft(ctx, storage.Draft{SessionID: "sess-1", Payload: []byte("{}"), ExpiresAt: time.Now().Add(-time.Second)})
		if err != nil {
			t.Fatalf("SaveDraft() error = %v", err)
		}
		if _, found, _ := store.LoadDraft(ctx, "sess-1"); found {
			t.Fatal("expected expired draft to be hidden")
		}
	})

	t.Run("delete session drops draft", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		mustSaveSession(t, store, "sess-1")
		if err := store.SaveDraft(ctx, storage.Draft{SessionID: "sess-1", Payload: []byte("{}")}); err != nil {
			t.Fatalf("SaveDraft() error = %v", err)
		}
		if err := store.DeleteSession(ctx, "sess-1"); err != nil {
			t.Fatalf("DeleteSession() error = %v", err)
		}
		if _, found, _ := store.LoadSession(ctx, "sess-1"); found {
			t.Fatal("expected session to be deleted")
		}
		if _, found, _ := store.LoadDraft(ctx, "sess-1"); found {
			t.Fatal("expected draft to be deleted with its session")
		}
		if err := store.DeleteSession(ctx, "sess-1"); err != nil {
			t.Fatalf("DeleteSession(missing) error = %v", err)
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := fmt.Sprintf("sess-%d", i)
				if err := store.SaveSession(ctx, storage.Session{ID: id, AccessToken: "tok"}); err != nil {
					errs <- err
					return
				}
				if err := store.SaveDraft(ctx, storage.Draft{SessionID: id, Payload: []byte("{}")}); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("concurrent write error = %v", err)
		}
		for i := range 16 {
			if _, found, err := store.LoadSession(ctx, fmt.Sprintf("sess-%d", i)); err != nil || !found {
				t.Fatalf("LoadSession(sess-%d) = %v, %v", i, found, err)
			}
		}
	})
}

func mustSaveSession(t *testing.T, store storage.Store, id string) {
	t.Helper()
	if err := store.SaveSession(context.Background(), storage.Session{ID: id, AccessToken: "tok"}); err != nil {
		t.Fatalf("SaveSession(%s) error = %v", id, err)
	}
}
