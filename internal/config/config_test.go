package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SERVICE_NAME", "streamweave")
	t.Setenv("SIGNING_SECRET", "test-secret")
	t.Setenv("STREAMWEAVE_ADDON_TORRENTIO_URL", "https://torrentio.example/manifest")
}

func TestLoadRequiresServiceName(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("SIGNING_SECRET", "test-secret")
	t.Setenv("STREAMWEAVE_ADDON_TORRENTIO_URL", "https://torrentio.example/manifest")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when SERVICE_NAME is unset")
	}
}

func TestLoadRequiresSigningSecret(t *testing.T) {
	t.Setenv("SERVICE_NAME", "streamweave")
	t.Setenv("SIGNING_SECRET", "")
	t.Setenv("STREAMWEAVE_ADDON_TORRENTIO_URL", "https://torrentio.example/manifest")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when SIGNING_SECRET is unset")
	}
}

func TestLoadRequiresAtLeastOneAddon(t *testing.T) {
	t.Setenv("SERVICE_NAME", "streamweave")
	t.Setenv("SIGNING_SECRET", "test-secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when no STREAMWEAVE_ADDON_*_URL is set")
	}
}

func TestLoadParsesMultipleAddonsSortedByName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STREAMWEAVE_ADDON_ANIMEZONE_URL", "https://animezone.example")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Addons) != 2 {
		t.Fatalf("expected 2 addons, got %d", len(cfg.Addons))
	}
	if cfg.Addons[0].Name != "ANIMEZONE" || cfg.Addons[1].Name != "TORRENTIO" {
		t.Fatalf("expected addons sorted by name, got %+v", cfg.Addons)
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 6*time.Hour {
		t.Fatalf("expected default cache TTL 6h, got %v", cfg.CacheTTL)
	}
	if cfg.AIDBDetailLevel != "required" {
		t.Fatalf("expected default AIDB detail level required, got %s", cfg.AIDBDetailLevel)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("AIDB_DETAIL_LEVEL", "full")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected overridden HTTP addr, got %s", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected overridden cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.AIDBDetailLevel != "full" {
		t.Fatalf("expected overridden detail level, got %s", cfg.AIDBDetailLevel)
	}
}
