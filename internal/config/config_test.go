package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("AUTH_DELAY", "")
	t.Setenv("REGISTER_SIGNUPS", "")

	cfg := Load()

	if cfg.Env != "dev" {
		t.Fatalf("env: got %q want dev", cfg.Env)
	}
	if cfg.StorageBackend != "file" {
		t.Fatalf("backend: got %q want file", cfg.StorageBackend)
	}
	if cfg.AuthDelay != time.Second {
		t.Fatalf("auth delay: got %s want 1s", cfg.AuthDelay)
	}
	if !cfg.RegisterSignups {
		t.Fatalf("signups should register by default")
	}
	if cfg.LegacyEnrollmentPersistence {
		t.Fatalf("legacy persistence should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("AUTH_DELAY", "250ms")
	t.Setenv("LEGACY_ENROLLMENT_PERSISTENCE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("PORT", "not-a-number")

	cfg := Load()

	if cfg.StorageBackend != "redis" {
		t.Fatalf("backend: got %q want redis", cfg.StorageBackend)
	}
	if cfg.AuthDelay != 250*time.Millisecond {
		t.Fatalf("auth delay: got %s", cfg.AuthDelay)
	}
	if !cfg.LegacyEnrollmentPersistence {
		t.Fatalf("legacy persistence override ignored")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors origins: got %v", cfg.CORSOrigins)
	}
	if cfg.Port != 8080 {
		t.Fatalf("bad PORT should fall back to 8080, got %d", cfg.Port)
	}
}
