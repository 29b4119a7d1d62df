// internal/config/loader_test.go
//
// Unit-tests for the layered configuration loader.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FallbackDefaults(t *testing.T) {
	t.Setenv("REGISTRY_ROOT", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Database.DSN != defaultDSN {
		t.Errorf("DSN = %q, want built-in default", cfg.Database.DSN)
	}
	if cfg.Lookup.BaseURL != defaultLookupBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Lookup.BaseURL, defaultLookupBaseURL)
	}
	if cfg.Lookup.TimeoutSeconds != defaultLookupTimeout {
		t.Errorf("TimeoutSeconds = %d, want %d", cfg.Lookup.TimeoutSeconds, defaultLookupTimeout)
	}
}

func TestLoad_EnvOverlayWins(t *testing.T) {
	t.Setenv("REGISTRY_ROOT", t.TempDir())
	t.Setenv("REGISTRY_DATABASE__DSN", "op:secret@tcp(db:3306)/registry?parseTime=true")
	t.Setenv("REGISTRY_LOOKUP__TIMEOUT_SECONDS", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Database.DSN != "op:secret@tcp(db:3306)/registry?parseTime=true" {
		t.Errorf("env overlay ignored: %q", cfg.Database.DSN)
	}
	if cfg.Lookup.TimeoutSeconds != 9 {
		t.Errorf("TimeoutSeconds = %d, want 9", cfg.Lookup.TimeoutSeconds)
	}
}

func TestLoad_YAMLLayerAndPrecedence(t *testing.T) {
	root := t.TempDir()
	t.Setenv("REGISTRY_ROOT", root)
	t.Setenv("REGISTRY_EXPORT__DIR", "/var/export")

	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := []byte("lookup:\n  base_url: http://lookup.internal\nexport:\n  dir: /tmp/from-yaml\n")
	if err := os.WriteFile(filepath.Join(root, "conf", "registry.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Lookup.BaseURL != "http://lookup.internal" {
		t.Errorf("yaml layer ignored: %q", cfg.Lookup.BaseURL)
	}
	if cfg.Export.Dir != "/var/export" {
		t.Errorf("env must beat yaml: %q", cfg.Export.Dir)
	}
	if cfg.Paths.Root != root {
		t.Errorf("Paths.Root = %q, want %q", cfg.Paths.Root, root)
	}
}

func TestLoad_InvalidLookupURLFailsValidation(t *testing.T) {
	t.Setenv("REGISTRY_ROOT", t.TempDir())
	t.Setenv("REGISTRY_LOOKUP__BASE_URL", "not a url")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for malformed lookup URL")
	}
}
