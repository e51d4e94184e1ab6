package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.IPLookupMode != IPLookupRequest {
		t.Fatalf("expected request lookup mode, got %s", cfg.IPLookupMode)
	}
	if cfg.HistoryLimit != 10 {
		t.Fatalf("expected history limit 10, got %d", cfg.HistoryLimit)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("expected token ttl 12h, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("IP_LOOKUP_MODE", "http")
	t.Setenv("EXPORT_FILE_PREFIX", "legend-tech-contacts")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected PORT override, got %s", cfg.Port)
	}
	if cfg.RedisAddr() != "cache:6380" {
		t.Fatalf("expected redis scheme stripped, got %s", cfg.RedisAddr())
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected TOKEN_TTL 30m, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.IPLookupMode != IPLookupHTTP {
		t.Fatalf("expected http lookup mode, got %s", cfg.IPLookupMode)
	}
	if cfg.ExportFilePrefix != "legend-tech-contacts" {
		t.Fatalf("expected export prefix override, got %s", cfg.ExportFilePrefix)
	}
}

func TestLoadRejectsUnknownLookupMode(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("IP_LOOKUP_MODE", "geo")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown lookup mode")
	}
}

func TestLoadParseError(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HISTORY_LIMIT", "ten")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
