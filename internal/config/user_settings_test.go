package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUISettingsShowPaneFrames(t *testing.T) {
	settings := defaultUISettings()
	if !settings.ShowPaneFrames {
		t.Fatal("ShowPaneFrames should default to true")
	}
	if settings.StatusBarPosition != "bottom" {
		t.Fatalf("StatusBarPosition = %q, want bottom", settings.StatusBarPosition)
	}
}

func TestLoadUISettingsDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	settings := loadUISettings(path)
	if !settings.ShowPaneFrames {
		t.Fatal("ShowPaneFrames should default to true when missing from config")
	}
}

func TestSaveLoadUISettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	settings := defaultUISettings()
	settings.ShowPaneFrames = false
	settings.Theme = "solarized"
	settings.CopyOnSelect = true

	if err := saveUISettings(path, settings); err != nil {
		t.Fatalf("saveUISettings failed: %v", err)
	}

	loaded := loadUISettings(path)
	if loaded.ShowPaneFrames {
		t.Fatal("ShowPaneFrames should persist false value")
	}
	if loaded.Theme != "solarized" {
		t.Fatalf("Theme = %q, want solarized", loaded.Theme)
	}
	if !loaded.CopyOnSelect {
		t.Fatal("CopyOnSelect should persist true value")
	}
}

func TestSaveUISettingsPreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	seed := []byte(`{"keybinds":{"mode":"vim"},"ui":{"font_size":14}}`)
	if err := os.WriteFile(path, seed, 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}
	if err := saveUISettings(path, defaultUISettings()); err != nil {
		t.Fatalf("saveUISettings failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var saved map[string]any
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if _, ok := saved["keybinds"]; !ok {
		t.Fatal("unknown top-level key keybinds was dropped")
	}
	ui, _ := saved["ui"].(map[string]any)
	if _, ok := ui["font_size"]; !ok {
		t.Fatal("unknown ui key font_size was dropped")
	}

	cfg := &Config{Paths: &Paths{ConfigPath: path}}
	cfg.LoadUISettings()
	if cfg.UI.Theme != "default" {
		t.Fatalf("Theme = %q, want default", cfg.UI.Theme)
	}
}
