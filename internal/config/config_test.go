package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slated/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config")
	}
	if cfg.Mirror.Concurrency != 4 {
		t.Fatalf("default concurrency = %d, want 4", cfg.Mirror.Concurrency)
	}
	if len(cfg.Mirror.OrganizeBy) != 2 || cfg.Mirror.OrganizeBy[0] != "show" {
		t.Fatalf("default organize_by = %v", cfg.Mirror.OrganizeBy)
	}
	if !filepath.IsAbs(cfg.Paths.WorkspaceDir) {
		t.Fatalf("workspace dir not absolute: %s", cfg.Paths.WorkspaceDir)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`log_level = "debug"`,
		`[paths]`,
		`workspace_dir = "` + filepath.Join(dir, "ws") + `"`,
		`[mirror]`,
		`organize_by = ["Category", "take"]`,
		`concurrency = 2`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	// Organize fields are lowercased during normalization.
	if cfg.Mirror.OrganizeBy[0] != "category" || cfg.Mirror.OrganizeBy[1] != "take" {
		t.Fatalf("organize_by = %v", cfg.Mirror.OrganizeBy)
	}
}

func TestLoadRejectsUnknownOrganizeField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[mirror]\norganize_by = [\"slate\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for organize_by field")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("log_format = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for log_format")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config failed to load: exists=%v err=%v", exists, err)
	}
}
