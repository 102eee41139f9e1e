package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathsEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	paths := &Paths{
		Home:             filepath.Join(tmp, "zmux"),
		SocketDir:        filepath.Join(tmp, "zmux", "sockets"),
		ResurrectionRoot: filepath.Join(tmp, "zmux", "resurrect"),
		ConfigPath:       filepath.Join(tmp, "zmux", "config.json"),
		LogDir:           filepath.Join(tmp, "zmux", "logs"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	for _, dir := range []string{paths.Home, paths.SocketDir, paths.ResurrectionRoot, paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", dir)
		}
	}
}

func TestPathsEnsureDirectoriesSocketDirPermissions(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	tmp := t.TempDir()
	paths := &Paths{
		Home:             filepath.Join(tmp, "zmux"),
		SocketDir:        filepath.Join(tmp, "zmux", "sockets"),
		ResurrectionRoot: filepath.Join(tmp, "zmux", "resurrect"),
		ConfigPath:       filepath.Join(tmp, "zmux", "config.json"),
		LogDir:           filepath.Join(tmp, "zmux", "logs"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	info, err := os.Stat(paths.SocketDir)
	if err != nil {
		t.Fatalf("stat socket dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Fatalf("SocketDir perm = %o, want 0700", perm)
	}
}

func TestPathsSocketAndResurrectionPaths(t *testing.T) {
	paths := &Paths{
		SocketDir:        "/tmp/zmux/sockets",
		ResurrectionRoot: "/tmp/zmux/resurrect",
	}

	if got, want := paths.SocketPath("work"), filepath.Join("/tmp/zmux/sockets", "work"); got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}
	if got, want := paths.ResurrectionPath("work"), filepath.Join("/tmp/zmux/resurrect", "work.kdl"); got != want {
		t.Fatalf("ResurrectionPath() = %q, want %q", got, want)
	}
}
