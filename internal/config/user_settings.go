package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UISettings stores the client-facing display preferences that persist
// across attachments.
type UISettings struct {
	Theme             string // Theme ID, defaults to "default"
	ShowPaneFrames    bool
	CopyOnSelect      bool
	StatusBarPosition string // "top" or "bottom"
}

func defaultUISettings() UISettings {
	return UISettings{
		Theme:             "default",
		ShowPaneFrames:    true,
		CopyOnSelect:      false,
		StatusBarPosition: "bottom",
	}
}

func loadUISettings(path string) UISettings {
	settings := defaultUISettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return settings
	}

	var raw struct {
		UI struct {
			Theme             *string `json:"theme"`
			ShowPaneFrames    *bool   `json:"show_pane_frames"`
			CopyOnSelect      *bool   `json:"copy_on_select"`
			StatusBarPosition *string `json:"status_bar_position"`
		} `json:"ui"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return settings
	}
	if raw.UI.Theme != nil {
		settings.Theme = *raw.UI.Theme
	}
	if raw.UI.ShowPaneFrames != nil {
		settings.ShowPaneFrames = *raw.UI.ShowPaneFrames
	}
	if raw.UI.CopyOnSelect != nil {
		settings.CopyOnSelect = *raw.UI.CopyOnSelect
	}
	if raw.UI.StatusBarPosition != nil {
		settings.StatusBarPosition = *raw.UI.StatusBarPosition
	}
	return settings
}

func saveUISettings(path string, settings UISettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	payload := map[string]any{}
	if existing, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(existing, &payload)
	}

	ui, ok := payload["ui"].(map[string]any)
	if !ok || ui == nil {
		ui = map[string]any{}
	}
	ui["theme"] = settings.Theme
	ui["show_pane_frames"] = settings.ShowPaneFrames
	ui["copy_on_select"] = settings.CopyOnSelect
	ui["status_bar_position"] = settings.StatusBarPosition
	payload["ui"] = ui

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveUISettings persists UI settings to the config file.
func (c *Config) SaveUISettings() error {
	if c == nil || c.Paths == nil {
		return nil
	}
	return saveUISettings(c.Paths.ConfigPath, c.UI)
}

// LoadUISettings refreshes c.UI from the config file on disk, preserving
// any fields absent from the file.
func (c *Config) LoadUISettings() {
	if c == nil || c.Paths == nil {
		return
	}
	c.UI = loadUISettings(c.Paths.ConfigPath)
}

// ApplyUISetting sets one UI setting named by key (matching the JSON
// keys loadUISettings/saveUISettings round-trip: "theme",
// "show_pane_frames", "copy_on_select", "status_bar_position") to
// value, for a ConfigWriteMsg (spec.md section 6) received over IPC.
// Unknown keys are rejected rather than silently ignored, since the
// caller reports the failure back to the requesting client.
func (c *Config) ApplyUISetting(key, value string) error {
	switch key {
	case "theme":
		c.UI.Theme = value
	case "show_pane_frames":
		c.UI.ShowPaneFrames = value == "true"
	case "copy_on_select":
		c.UI.CopyOnSelect = value == "true"
	case "status_bar_position":
		c.UI.StatusBarPosition = value
	default:
		return fmt.Errorf("config: unknown UI setting %q", key)
	}
	return nil
}
