package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	webstorage "github.com/louisbranch/hubbble/internal/services/web/storage"
	"github.com/louisbranch/hubbble/internal/services/web/storage/storagetest"
	goredis "github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) webstorage.Store {
		client, _ := setupTestRedis(t)
		return New(client)
	})
}

func TestSaveSessionSetsKeyTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := New(client)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	if err := store.SaveSession(ctx, webstorage.Session{ID: "s", AccessToken: "tok", ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if got := mr.TTL(sessionKeyPrefix + "s"); got != time.Hour {
		t.Fatalf("TTL = %v, want %v", got, time.Hour)
	}

	mr.FastForward(2 * time.Hour)
	if _, found, err := store.LoadSession(ctx, "s"); err != nil || found {
		t.Fatalf("LoadSession after TTL = %v, %v, want false, nil", found, err)
	}
}

func TestSaveSessionWithoutExpiryKeepsKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := New(client)

	if err := store.SaveSession(context.Background(), webstorage.Session{ID: "s", AccessToken: "tok"}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if got := mr.TTL(sessionKeyPrefix + "s"); got != 0 {
		t.Fatalf("TTL = %v, want 0", got)
	}
}

func TestSaveDraftRejectsNonJSONPayload(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := New(client)

	if err := store.SaveDraft(context.Background(), webstorage.Draft{SessionID: "s", Payload: []byte("not json")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen(t *testing.T) {
	_, mr := setupTestRedis(t)

	store, err := Open(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SaveSession(context.Background(), webstorage.Session{ID: "s", AccessToken: "tok"}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := Open(context.Background(), "://bad"); err == nil {
		t.Fatal("expected error for bad url")
	}
}
