package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.PoolSource != "file" {
		t.Errorf("PoolSource = %q, want file", cfg.PoolSource)
	}
	if cfg.SummaryTimeoutSeconds != 10 {
		t.Errorf("SummaryTimeoutSeconds = %d, want 10", cfg.SummaryTimeoutSeconds)
	}
	if cfg.NATSSubject != "pool.reload" {
		t.Errorf("NATSSubject = %q, want pool.reload", cfg.NATSSubject)
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("EMBED_TIMEOUT_SECONDS", "7")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9999" {
		t.Errorf("APIPort = %q, want 9999", cfg.APIPort)
	}
	if cfg.EmbedTimeoutSeconds != 7 {
		t.Errorf("EmbedTimeoutSeconds = %d, want 7", cfg.EmbedTimeoutSeconds)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v, want 2.5", cfg.RateLimitRPS)
	}
}

func TestConfigFileOverlayThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_port: \"7070\"\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "7070" {
		t.Errorf("APIPort = %q, want file value 7070", cfg.APIPort)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, env should override file", cfg.LogLevel)
	}
}

func TestInvalidPoolSourceRejected(t *testing.T) {
	t.Setenv("POOL_SOURCE", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for unknown pool source")
	}
}

func TestMalformedIntFallsBack(t *testing.T) {
	t.Setenv("EMBED_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EmbedTimeoutSeconds != 120 {
		t.Errorf("EmbedTimeoutSeconds = %d, want default 120", cfg.EmbedTimeoutSeconds)
	}
}
