package web

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/hubbble/internal/services/web/storage"
	"github.com/louisbranch/hubbble/internal/services/web/storage/memory"
	"github.com/louisbranch/hubbble/internal/services/web/storage/redis"
	"github.com/louisbranch/hubbble/internal/services/web/storage/sqlite"
)

// Storage backends accepted by Config.StorageBackend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultPruneInterval spaces expired-row sweeps.
const DefaultPruneInterval = 10 * time.Minute

// expiryPruner is implemented by stores whose rows do not expire on their own.
type expiryPruner interface {
	PruneExpired(ctx context.Context) error
}

func openStore(ctx context.Context, config Config) (storage.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(config.StorageBackend))
	switch backend {
	case "", BackendMemory:
		return memory.New(memory.DefaultSize)
	case BackendSQLite:
		return sqlite.Open(config.SQLitePath)
	case BackendRedis:
		return redis.Open(ctx, config.RedisURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}

// runPruner sweeps expired rows until ctx is canceled.
func runPruner(ctx context.Context, pruner expiryPruner, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pruner.PruneExpired(ctx); err != nil && ctx.Err() == nil {
				log.Printf("prune expired web rows: %v", err)
			}
		}
	}
}
