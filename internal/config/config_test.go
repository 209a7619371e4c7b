package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Webhook.TrustMode != "permissive" {
		t.Errorf("expected permissive trust mode, got %q", cfg.Webhook.TrustMode)
	}
	if cfg.Webhook.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Webhook.Timeout)
	}
	if !cfg.Webhook.Concurrent {
		t.Error("expected concurrent dispatch by default")
	}
	if cfg.Mention.PerToken {
		t.Error("expected per-token classification to be off by default")
	}
	if cfg.Notifiers.Mode != "production" {
		t.Errorf("expected production mode, got %q", cfg.Notifiers.Mode)
	}
	if cfg.Consumer.Workers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Consumer.Workers)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
logger:
  level: debug
webhook:
  trust_mode: strict
  timeout: 3s
  concurrent: false
host:
  user: ci-bot
  root_url: https://ci.example.com/
  collaborators: [jobConfigHistory]
notifiers:
  mode: log_only
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logger.Level)
	}
	if cfg.Webhook.TrustMode != "strict" || cfg.Webhook.Timeout != 3*time.Second || cfg.Webhook.Concurrent {
		t.Errorf("unexpected webhook config: %+v", cfg.Webhook)
	}
	if cfg.Host.User != "ci-bot" || len(cfg.Host.Collaborators) != 1 {
		t.Errorf("unexpected host config: %+v", cfg.Host)
	}
	if cfg.Notifiers.Mode != "log_only" {
		t.Errorf("expected log_only mode, got %q", cfg.Notifiers.Mode)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WEBHOOK_TRUST_MODE", "strict")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Webhook.TrustMode != "strict" {
		t.Errorf("expected env override to strict, got %q", cfg.Webhook.TrustMode)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("webhook: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
