package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveBasePath_EnvWins(t *testing.T) {
	t.Setenv("GROW_HOME", "/tmp/grow-home")
	if got := ResolveBasePath(); got != "/tmp/grow-home" {
		t.Errorf("expected GROW_HOME to win, got %q", got)
	}
}

func TestResolveBasePath_FindsConfigUpward(t *testing.T) {
	t.Setenv("GROW_HOME", "")
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, ".growconfig"), []byte("currency: IDR\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	nested := filepath.Join(base, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("creating nested dir: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	got := ResolveBasePath()
	// Resolve symlinks because temp dirs may sit behind them on some systems.
	wantReal, _ := filepath.EvalSymlinks(base)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != wantReal {
		t.Errorf("expected base path %q, got %q", base, got)
	}
}

func TestNewApp_FreshInstall(t *testing.T) {
	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.BusinessMgr == nil {
		t.Fatal("business manager must be wired even with no businesses")
	}
	// No business exists yet, so the business-scoped services stay unwired.
	if app.PlanMgr != nil {
		t.Error("plan manager should not be wired before a business exists")
	}
}

func TestNewApp_WiresDefaultBusiness(t *testing.T) {
	base := t.TempDir()

	// Seed one business through the app itself, then start over.
	seed, err := NewApp(base)
	if err != nil {
		t.Fatalf("creating seed app: %v", err)
	}
	if _, err := seed.BusinessMgr.CreateBusiness("bakery", "Corner Bakery", "IDR"); err != nil {
		t.Fatalf("creating business: %v", err)
	}
	_ = seed.Close()

	app, err := NewApp(base)
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.BusinessID != "bakery" {
		t.Errorf("expected default business wired, got %q", app.BusinessID)
	}
	if app.Materializer == nil || app.PlanMgr == nil || app.SalesMgr == nil {
		t.Error("business-scoped services should be wired")
	}
	if app.EventLog == nil {
		t.Error("event log should open in the business data dir")
	}
	dataDir := app.BusinessMgr.DataDir("bakery")
	if _, err := os.Stat(filepath.Join(dataDir, ".grow_events.jsonl")); err != nil {
		t.Errorf("event log file missing: %v", err)
	}
}

func TestWireBusiness_SwitchesDataDir(t *testing.T) {
	base := t.TempDir()
	app, err := NewApp(base)
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	defer func() { _ = app.Close() }()

	for _, id := range []string{"bakery", "cafe"} {
		if _, err := app.BusinessMgr.CreateBusiness(id, "", ""); err != nil {
			t.Fatalf("creating %s: %v", id, err)
		}
	}
	if err := app.wireBusiness("cafe"); err != nil {
		t.Fatalf("wiring cafe: %v", err)
	}
	if app.BusinessID != "cafe" {
		t.Errorf("expected cafe wired, got %q", app.BusinessID)
	}
	if err := app.wireBusiness("unknown"); err == nil {
		t.Error("expected error wiring unknown business")
	}
}
