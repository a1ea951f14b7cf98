// Package web parses web command flags and launches the web server.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/hubbble/internal/platform/cmd"
	"github.com/louisbranch/hubbble/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"HUBBBLE_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"HUBBBLE_WEB_API_BASE_URL" envDefault:"http://localhost:8000/api/v1"`
	APITimeout          time.Duration `env:"HUBBBLE_WEB_API_TIMEOUT" envDefault:"30s"`
	StorageBackend      string        `env:"HUBBBLE_WEB_STORAGE" envDefault:"sqlite"`
	SQLitePath          string        `env:"HUBBBLE_WEB_SQLITE_PATH" envDefault:"data/web.db"`
	RedisURL            string        `env:"HUBBBLE_WEB_REDIS_URL"`
	CookieHashKey       string        `env:"HUBBBLE_WEB_COOKIE_HASH_KEY"`
	CookieBlockKey      string        `env:"HUBBBLE_WEB_COOKIE_BLOCK_KEY"`
	SessionRetention    time.Duration `env:"HUBBBLE_WEB_SESSION_TTL" envDefault:"168h"`
	DraftTTL            time.Duration `env:"HUBBBLE_WEB_DRAFT_TTL" envDefault:"24h"`
	PruneInterval       time.Duration `env:"HUBBBLE_WEB_PRUNE_INTERVAL" envDefault:"10m"`
	TrustForwardedProto bool          `env:"HUBBBLE_WEB_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Portal API base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Portal API request timeout")
	fs.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Session storage backend (memory, sqlite or redis)")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database path")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL")
	fs.DurationVar(&cfg.SessionRetention, "session-ttl", cfg.SessionRetention, "Session retention")
	fs.DurationVar(&cfg.DraftTTL, "draft-ttl", cfg.DraftTTL, "Wizard draft retention")
	fs.DurationVar(&cfg.PruneInterval, "prune-interval", cfg.PruneInterval, "Expired session sweep interval")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for cookie and origin checks")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			APITimeout:          cfg.APITimeout,
			StorageBackend:      cfg.StorageBackend,
			SQLitePath:          cfg.SQLitePath,
			RedisURL:            cfg.RedisURL,
			PruneInterval:       cfg.PruneInterval,
			CookieHashKey:       cfg.CookieHashKey,
			CookieBlockKey:      cfg.CookieBlockKey,
			SessionRetention:    cfg.SessionRetention,
			DraftTTL:            cfg.DraftTTL,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
