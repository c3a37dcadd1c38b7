package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
listen: 127.0.0.1:9000
store:
  backend: badger
  path: /tmp/casesheet-store
report:
  title: Sprint 12 Regression
logFile: /tmp/casesheet.log
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("expected listen 127.0.0.1:9000, got %s", cfg.Listen)
	}
	if cfg.Store.Backend != "badger" || cfg.Store.Path != "/tmp/casesheet-store" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Report.Title != "Sprint 12 Regression" {
		t.Errorf("expected report title, got %q", cfg.Report.Title)
	}
	// Unset keys keep their defaults
	if cfg.Report.FileName != "TestExecutionReport.html" {
		t.Errorf("expected default report file name, got %q", cfg.Report.FileName)
	}
	if cfg.LogPath("/home") != "/tmp/casesheet.log" {
		t.Errorf("LogPath() = %q", cfg.LogPath("/home"))
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("store:\n  backend: redis\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Backend") {
		t.Errorf("expected error about Backend, got: %v", err)
	}
}

func TestLoad_InvalidListen(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("listen: not-an-address\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for listen address")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("listen: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != Default().Listen {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestStorePath(t *testing.T) {
	cfg := Default()
	if got := cfg.StorePath("/h"); got != filepath.Join("/h", "store.json") {
		t.Errorf("file StorePath() = %q", got)
	}
	cfg.Store.Backend = "badger"
	if got := cfg.StorePath("/h"); got != filepath.Join("/h", "store") {
		t.Errorf("badger StorePath() = %q", got)
	}
	cfg.Store.Path = "/custom"
	if got := cfg.StorePath("/h"); got != "/custom" {
		t.Errorf("explicit StorePath() = %q", got)
	}
}
