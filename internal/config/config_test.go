package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if cfg.Paths == nil {
		t.Fatal("DefaultConfig() returned nil Paths")
	}
	if cfg.DefaultShell == "" {
		t.Fatal("DefaultConfig() returned empty DefaultShell")
	}
	if cfg.ScrollbackLines <= 0 {
		t.Fatalf("DefaultConfig() returned invalid ScrollbackLines: %d", cfg.ScrollbackLines)
	}

	validMouseModes := map[string]bool{"off": true, "normal": true, "drag": true}
	if !validMouseModes[cfg.MouseMode] {
		t.Fatalf("DefaultConfig() returned invalid MouseMode: %q", cfg.MouseMode)
	}

	validDestinations := map[string]bool{"system": true, "primary": true, "pipe": true}
	if !validDestinations[cfg.CopyDestination] {
		t.Fatalf("DefaultConfig() returned invalid CopyDestination: %q", cfg.CopyDestination)
	}
}

func TestDefaultShellFallsBackWhenUnset(t *testing.T) {
	t.Setenv("SHELL", "")
	if got := defaultShell(); got != "/bin/sh" {
		t.Fatalf("defaultShell() = %q, want /bin/sh", got)
	}
}

func TestDefaultShellHonorsEnv(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/zsh")
	if got := defaultShell(); got != "/usr/bin/zsh" {
		t.Fatalf("defaultShell() = %q, want /usr/bin/zsh", got)
	}
}
