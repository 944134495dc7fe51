package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.DraftBackend != "sqlite" {
		t.Errorf("DraftBackend = %q, want sqlite", cfg.DraftBackend)
	}
	if cfg.NotifyTTL != 5*time.Second {
		t.Errorf("NotifyTTL = %v, want 5s", cfg.NotifyTTL)
	}
	if cfg.SearchDelay != 1500*time.Millisecond {
		t.Errorf("SearchDelay = %v, want 1.5s", cfg.SearchDelay)
	}
	if cfg.MinAge != 16 {
		t.Errorf("MinAge = %d, want 16", cfg.MinAge)
	}
	if cfg.SessionIdle != 30*time.Minute {
		t.Errorf("SessionIdle = %v, want 30m", cfg.SessionIdle)
	}
	if len(cfg.Warnings) == 0 {
		t.Error("expected a warning about insecure cookies")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "short")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for a short secret")
	}
	if !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestLoad_BadBackend(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("DRAFT_BACKEND", "redis")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DRAFT_BACKEND") {
		t.Fatalf("expected DRAFT_BACKEND error, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("DRAFT_BACKEND", "FILE")
	t.Setenv("DRAFT_DIR", dir)
	t.Setenv("NOTIFY_TTL_MS", "250")
	t.Setenv("MAX_UPLOAD_MB", "2.5")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MIN_AGE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DraftBackend != "file" || cfg.DraftDir != dir {
		t.Errorf("draft backend = %q at %q", cfg.DraftBackend, cfg.DraftDir)
	}
	if cfg.NotifyTTL != 250*time.Millisecond {
		t.Errorf("NotifyTTL = %v", cfg.NotifyTTL)
	}
	if cfg.MaxUploadMB != 2.5 {
		t.Errorf("MaxUploadMB = %v", cfg.MaxUploadMB)
	}
	if !cfg.SecureCookies || cfg.LogLevel != "debug" {
		t.Errorf("SecureCookies=%v LogLevel=%q", cfg.SecureCookies, cfg.LogLevel)
	}
	if cfg.MinAge != 16 {
		t.Errorf("unparseable MIN_AGE should fall back, got %d", cfg.MinAge)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", cfg.Warnings)
	}
}

func TestLoadOffline_NoSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	cfg, err := LoadOffline()
	if err != nil {
		t.Fatalf("LoadOffline: %v", err)
	}
	if cfg.DBPath != "./givingbank.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}

	t.Setenv("LOG_LEVEL", "chatty")
	if _, err := LoadOffline(); err == nil {
		t.Error("expected other fields to stay validated")
	}
}
