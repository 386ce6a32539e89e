package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMainConfigDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadMainConfig() error: %v", err)
	}

	if cfg.CacheDir != "./cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.ReportDir != "./reports" {
		t.Errorf("ReportDir = %q", cfg.ReportDir)
	}
	if cfg.MasterPathsFile != "./master_paths.json" {
		t.Errorf("MasterPathsFile = %q", cfg.MasterPathsFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadMainConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "cache_dir: /var/cache/ukeview\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig() error: %v", err)
	}
	if cfg.CacheDir != "/var/cache/ukeview" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	// Unset keys still get defaults.
	if cfg.ReportDir != "./reports" {
		t.Errorf("ReportDir = %q", cfg.ReportDir)
	}
}

func TestLoadMainConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("cache_dir: ./from_yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("UKEVIEW_CACHE_DIR", "/env/cache")
	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig() error: %v", err)
	}
	if cfg.CacheDir != "/env/cache" {
		t.Errorf("CacheDir = %q, want env override to win", cfg.CacheDir)
	}
}

func TestLoadMainConfigBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadMainConfig(path); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}

func TestMasterPathsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "master_paths.json")
	original := `{
  "disease": ["masters/byomei.csv"],
  "modifier": ["masters/z.csv"],
  "foreign_tool_settings": {"keep": true}
}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	mp, err := LoadMasterPaths(path)
	if err != nil {
		t.Fatalf("LoadMasterPaths() error: %v", err)
	}
	if got := mp.Get("disease"); len(got) != 1 || got[0] != "masters/byomei.csv" {
		t.Errorf("disease paths = %v", got)
	}

	// Update one category and save; the foreign key must survive.
	mp.Set("disease", []string{"masters/byomei_2024.csv"})
	if err := mp.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := LoadMasterPaths(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got := reloaded.Get("disease"); len(got) != 1 || got[0] != "masters/byomei_2024.csv" {
		t.Errorf("disease paths after save = %v", got)
	}
	if got := reloaded.Get("modifier"); len(got) != 1 || got[0] != "masters/z.csv" {
		t.Errorf("untouched category changed: %v", got)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "foreign_tool_settings") {
		t.Errorf("foreign key lost on save: %s", raw)
	}
}

func TestLoadMasterPathsMissingFile(t *testing.T) {
	mp, err := LoadMasterPaths(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("missing file should not error, got: %v", err)
	}
	if len(mp.Paths) != 0 {
		t.Errorf("expected an empty registry, got %v", mp.Paths)
	}
}
