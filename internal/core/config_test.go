package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".growconfig.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	mgr := NewConfigurationManager(t.TempDir())

	cfg, err := mgr.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Currency != "IDR" {
		t.Errorf("expected default currency IDR, got %s", cfg.Currency)
	}
	if cfg.IDPadWidth != 5 {
		t.Errorf("expected default pad width 5, got %d", cfg.IDPadWidth)
	}
	if cfg.StaleTaskDays != 3 || cfg.BlockedTaskHours != 24 || cfg.MaxOpenPlans != 10 {
		t.Errorf("unexpected alert defaults: %+v", cfg)
	}
}

func TestLoadConfig_ReadsValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
defaults:
  business: bakery
  currency: USD
alerts:
  stale_task_days: 7
  blocked_task_hours: 48
  max_open_plans: 3
  webhook_url: https://hooks.example.com/abc
`)

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultBusiness != "bakery" {
		t.Errorf("expected default business bakery, got %s", cfg.DefaultBusiness)
	}
	if cfg.Currency != "USD" {
		t.Errorf("expected USD, got %s", cfg.Currency)
	}
	if cfg.StaleTaskDays != 7 || cfg.BlockedTaskHours != 48 || cfg.MaxOpenPlans != 3 {
		t.Errorf("unexpected alert thresholds: %+v", cfg)
	}
	if cfg.AlertWebhookURL != "https://hooks.example.com/abc" {
		t.Errorf("unexpected webhook URL %s", cfg.AlertWebhookURL)
	}
}

func TestLoadConfig_ExplicitZeroPadWidth(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
ids:
  pad_width: 0
`)

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IDPadWidth != 0 {
		t.Errorf("expected explicit pad width 0 honored, got %d", cfg.IDPadWidth)
	}
}
