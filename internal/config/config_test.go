package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSet(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	cfg.Set("start_view", "before")
	if cfg.Get("start_view") != "before" {
		t.Errorf("Expected 'before', got '%s'", cfg.Get("start_view"))
	}
}

func TestGet(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	// Test getting a value that doesn't exist
	if cfg.Get("nonexistent") != "" {
		t.Errorf("Expected empty string for nonexistent key, got '%s'", cfg.Get("nonexistent"))
	}

	// Set and then get
	cfg.Set("test", "value")
	if cfg.Get("test") != "value" {
		t.Errorf("Expected 'value', got '%s'", cfg.Get("test"))
	}
}

func TestGetAll(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	cfg.Set("key1", "value1")
	cfg.Set("key2", "value2")

	all := cfg.GetAll()
	if len(all) != 2 {
		t.Errorf("Expected 2 settings, got %d", len(all))
	}

	if all["key1"] != "value1" {
		t.Errorf("Expected 'value1', got '%s'", all["key1"])
	}

	if all["key2"] != "value2" {
		t.Errorf("Expected 'value2', got '%s'", all["key2"])
	}
}

func TestGetAllReturnsACopy(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	cfg.Set("original", "value")

	// Modify the returned map
	all := cfg.GetAll()
	all["original"] = "modified"

	// Verify the original config was not modified
	if cfg.Get("original") != "value" {
		t.Errorf("GetAll() should return a copy, not a reference")
	}
}

func TestNilSessionSettings(t *testing.T) {
	cfg := &Config{}
	// sessionSettings is nil

	// Set should initialize it
	cfg.Set("key", "value")
	if cfg.Get("key") != "value" {
		t.Errorf("Set should initialize nil sessionSettings")
	}

	// Get should handle nil gracefully
	cfg2 := &Config{}
	if cfg2.Get("key") != "" {
		t.Errorf("Get should return empty string for nil sessionSettings")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Theme != "tokyo-night" {
		t.Errorf("Expected default theme 'tokyo-night', got '%s'", cfg.Theme)
	}

	if cfg.sessionSettings == nil {
		t.Errorf("defaultConfig should initialize sessionSettings")
	}

	if cfg.StartView() != ViewAfter {
		t.Errorf("Expected default start view 'after', got '%s'", cfg.StartView())
	}

	if !cfg.ShowGhosts() {
		t.Errorf("Ghosts should be shown by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `theme = "default"

[settings]
show_ghosts = "false"

[diff]
show_ghosts = true
start_view = "before"
start_disabled = true

[diff.after_classes]
insert = "added"

[diff.before_classes]
delete = "removed"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Theme != "default" {
		t.Errorf("Expected theme 'default', got '%s'", cfg.Theme)
	}
	if cfg.StartView() != ViewBefore {
		t.Errorf("Expected start view 'before', got '%s'", cfg.StartView())
	}
	if !cfg.Diff.StartDisabled {
		t.Errorf("Expected start_disabled to be read")
	}
	if cfg.Diff.AfterClasses["insert"] != "added" {
		t.Errorf("Expected after class override, got %v", cfg.Diff.AfterClasses)
	}
	if cfg.Diff.BeforeClasses["delete"] != "removed" {
		t.Errorf("Expected before class override, got %v", cfg.Diff.BeforeClasses)
	}

	// The persisted setting wins over the [diff] table
	if cfg.ShowGhosts() {
		t.Errorf("Expected show_ghosts setting to override the diff table")
	}

	cfg.Set("show_ghosts", "true")
	if !cfg.ShowGhosts() {
		t.Errorf("Expected session setting to override persisted setting")
	}
}

func TestLoadFromFileMissingAndInvalid(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromFile(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Missing config should not fail: %v", err)
	}
	if cfg.Theme != "tokyo-night" {
		t.Errorf("Expected default config for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("theme = "), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Errorf("Expected parse error for invalid TOML")
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	hide := false

	cfg := defaultConfig()
	cfg.Settings["start_view"] = "before"
	cfg.Diff.ShowGhosts = &hide
	cfg.Set("session_only", "x")

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.StartView() != ViewBefore {
		t.Errorf("Expected persisted start view, got '%s'", loaded.StartView())
	}
	if loaded.ShowGhosts() {
		t.Errorf("Expected show_ghosts = false to survive the round trip")
	}
	if loaded.Get("session_only") != "" {
		t.Errorf("Session settings must not be persisted")
	}
}

func TestLoadFromFileRejectsUnknownClassKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[diff.after_classes]\nmoved = \"x\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := LoadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), `unknown key "moved" in [diff.after_classes]`) {
		t.Errorf("Expected unknown key error, got %v", err)
	}
}

func TestKeysAreSorted(t *testing.T) {
	cfg := defaultConfig()
	cfg.Settings["start_view"] = "after"
	cfg.Set("show_ghosts", "false")
	cfg.Set("start_view", "before")

	keys := cfg.Keys()
	if strings.Join(keys, ",") != "show_ghosts,start_view" {
		t.Errorf("Expected sorted keys, got %v", keys)
	}
}

func TestSaveToFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prompt-diff", "config.toml")
	if err := defaultConfig().SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to exist: %v", err)
	}
}
