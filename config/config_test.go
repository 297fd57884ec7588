package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BAGGO_SYSTEM_WORKDIR", dir)
	t.Setenv("BAGGO_WEB_PORT", "19999")
	t.Setenv("BAGGO_STORAGE_MODE", "cloud")

	cfg := LoadConfig(filepath.Join(dir, "missing.yml"))
	if cfg.System.Workdir != dir {
		t.Fatalf("expected workdir override, got %q", cfg.System.Workdir)
	}
	if cfg.Web.Port != 19999 {
		t.Fatalf("expected port override, got %d", cfg.Web.Port)
	}
	if cfg.Storage.Mode != "cloud" {
		t.Fatalf("expected storage override, got %q", cfg.Storage.Mode)
	}
}

func TestLoadConfigDoesNotMutateDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BAGGO_SYSTEM_WORKDIR", dir)
	t.Setenv("BAGGO_WEB_SECRET", "overridden")

	before := *DefaultAppConfig
	_ = LoadConfig(filepath.Join(dir, "missing.yml"))

	if DefaultAppConfig.Web.Secret != before.Web.Secret {
		t.Fatalf("defaults mutated: secret became %q", DefaultAppConfig.Web.Secret)
	}
	if DefaultAppConfig.System.Workdir != before.System.Workdir {
		t.Fatalf("defaults mutated: workdir became %q", DefaultAppConfig.System.Workdir)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "baggo.yml")
	body := "system:\n  workdir: " + dir + "\nweb:\n  port: 2816\n"
	if err := os.WriteFile(cfile, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadConfig(cfile)
	if cfg.Web.Port != 2816 {
		t.Fatalf("expected port from file, got %d", cfg.Web.Port)
	}
	if cfg.System.Workdir != dir {
		t.Fatalf("expected workdir from file, got %q", cfg.System.Workdir)
	}
}
