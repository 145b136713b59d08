package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.HTTPAddr)
	}
	if cfg.AccessTokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected default token ttl: %s", cfg.AccessTokenTTL)
	}
	if cfg.StatsCacheTTL != time.Minute {
		t.Fatalf("unexpected default cache ttl: %s", cfg.StatsCacheTTL)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("redis must be off by default, got %s", cfg.RedisAddr)
	}
	// No baked-in signing secret; the server refuses to start without one.
	if cfg.JWTSecret != "" {
		t.Fatalf("JWT secret must default to empty, got %s", cfg.JWTSecret)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("JWT_SECRET", "override-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("STATS_CACHE_TTL_SECONDS", "90")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("addr override lost: %s", cfg.HTTPAddr)
	}
	if cfg.JWTSecret != "override-secret" {
		t.Fatalf("secret override lost: %s", cfg.JWTSecret)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("ttl override lost: %s", cfg.AccessTokenTTL)
	}
	if cfg.StatsCacheTTL != 90*time.Second {
		t.Fatalf("seconds fallback lost: %s", cfg.StatsCacheTTL)
	}
}

func TestDurationFallbackOnGarbage(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "not-a-duration")
	cfg := Load()
	if cfg.AccessTokenTTL != 7*24*time.Hour {
		t.Fatalf("garbage duration must fall back to default, got %s", cfg.AccessTokenTTL)
	}
}
