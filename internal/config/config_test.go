package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	os.Unsetenv("KESTREL_CONFIG")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.GetTickRate() != 20 {
		t.Fatalf("default tick rate = %d, want 20", cfg.Server.GetTickRate())
	}
	if cfg.Server.GetConnectionMode() != Offline {
		t.Fatalf("default connection mode = %v, want offline", cfg.Server.GetConnectionMode())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kestrel.yaml")
	yaml := "server:\n  tick_rate: 30\n  connection_mode: online\n  view_distance_max: 16\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.GetTickRate() != 30 {
		t.Errorf("tick rate = %d, want 30", cfg.Server.GetTickRate())
	}
	if cfg.Server.GetConnectionMode() != Online {
		t.Errorf("connection mode = %v, want online", cfg.Server.GetConnectionMode())
	}
	if cfg.Server.GetViewDistanceMax() != 16 {
		t.Errorf("view distance max = %d, want 16", cfg.Server.GetViewDistanceMax())
	}
}

func TestLoadRejectsNegativeTickRate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kestrel.yaml")
	if err := os.WriteFile(path, []byte("server:\n  tick_rate: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative tick_rate")
	}
}
