package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Emit.Output != "output.json" {
		t.Errorf("expected Output=output.json, got %s", cfg.Emit.Output)
	}
	if cfg.Scan.Encoding != "utf-8" {
		t.Errorf("expected Encoding=utf-8, got %s", cfg.Scan.Encoding)
	}
	if len(cfg.Scan.Includes) == 0 {
		t.Error("expected default include patterns")
	}
	if cfg.Watch.DebounceMs != 200 {
		t.Errorf("expected DebounceMs=200, got %d", cfg.Watch.DebounceMs)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "fnscan.yaml")

	content := `
scan:
  encoding: shift_jis
emit:
  output: "-"
  indent: "  "
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scan.Encoding != "shift_jis" {
		t.Errorf("expected Encoding=shift_jis, got %s", cfg.Scan.Encoding)
	}
	if cfg.Emit.Output != "-" {
		t.Errorf("expected Output=-, got %s", cfg.Emit.Output)
	}
	if cfg.Emit.Indent != "  " {
		t.Errorf("expected two-space indent, got %q", cfg.Emit.Indent)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected Format=json, got %s", cfg.Logging.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Watch.DebounceMs != 200 {
		t.Errorf("expected DebounceMs=200, got %d", cfg.Watch.DebounceMs)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "fnscan.yaml")
	if err := os.WriteFile(configPath, []byte("scan: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".fnscan", "config.yaml")

	content := `
watch:
  debounce_ms: 50
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Watch.DebounceMs != 50 {
		t.Errorf("expected DebounceMs=50, got %d", cfg.Watch.DebounceMs)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "fnscan.yaml")

	cfg := DefaultConfig()
	cfg.Emit.Output = "sigs.json"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Emit.Output != "sigs.json" {
		t.Errorf("expected Output=sigs.json, got %s", loaded.Emit.Output)
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".fnscan", "records.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
