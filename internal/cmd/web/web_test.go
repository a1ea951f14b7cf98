package web

import (
	"flag"
	"io"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("HUBBBLE_ENV_FILE", "")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8080")
	}
	if cfg.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:8000/api/v1")
	}
	if cfg.StorageBackend != "sqlite" {
		t.Fatalf("StorageBackend = %q, want %q", cfg.StorageBackend, "sqlite")
	}
	if cfg.SessionRetention != 7*24*time.Hour {
		t.Fatalf("SessionRetention = %s, want %s", cfg.SessionRetention, 7*24*time.Hour)
	}
	if cfg.DraftTTL != 24*time.Hour {
		t.Fatalf("DraftTTL = %s, want %s", cfg.DraftTTL, 24*time.Hour)
	}
	if cfg.TrustForwardedProto {
		t.Fatalf("TrustForwardedProto = true, want false")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("HUBBBLE_ENV_FILE", "")
	t.Setenv("HUBBBLE_WEB_HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("HUBBBLE_WEB_STORAGE", "redis")
	t.Setenv("HUBBBLE_WEB_COOKIE_HASH_KEY", "0123456789abcdef0123456789abcdef")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-http-addr", "127.0.0.1:9002",
		"-redis-url", "redis://cache:6379/0",
		"-draft-ttl", "2h",
		"-trust-forwarded-proto",
	})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
	if cfg.StorageBackend != "redis" {
		t.Fatalf("StorageBackend = %q, want %q", cfg.StorageBackend, "redis")
	}
	if cfg.RedisURL != "redis://cache:6379/0" {
		t.Fatalf("RedisURL = %q, want %q", cfg.RedisURL, "redis://cache:6379/0")
	}
	if cfg.CookieHashKey != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("CookieHashKey = %q", cfg.CookieHashKey)
	}
	if cfg.DraftTTL != 2*time.Hour {
		t.Fatalf("DraftTTL = %s, want %s", cfg.DraftTTL, 2*time.Hour)
	}
	if !cfg.TrustForwardedProto {
		t.Fatalf("TrustForwardedProto = false, want true")
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	t.Setenv("HUBBBLE_ENV_FILE", "")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-unknown-flag", "x"}); err == nil {
		t.Fatalf("ParseConfig() expected error for unknown flag")
	}
}
