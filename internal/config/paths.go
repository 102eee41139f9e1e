package config

import (
	"os"
	"path/filepath"
)

// Paths holds all the file system paths used by the server and client.
type Paths struct {
	Home             string // ~/.zmux
	SocketDir        string // ~/.zmux/sockets (0700, one unix socket per session)
	ResurrectionRoot string // ~/.zmux/resurrect (one layout document per session name)
	ConfigPath       string // ~/.zmux/config.json
	LogDir           string // ~/.zmux/logs
}

// DefaultPaths returns the default paths configuration, rooted at the
// user's home directory.
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	zmuxHome := filepath.Join(home, ".zmux")

	return &Paths{
		Home:             zmuxHome,
		SocketDir:        filepath.Join(zmuxHome, "sockets"),
		ResurrectionRoot: filepath.Join(zmuxHome, "resurrect"),
		ConfigPath:       filepath.Join(zmuxHome, "config.json"),
		LogDir:           filepath.Join(zmuxHome, "logs"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist.
// SocketDir is created 0700 per §6's "socket dir is 0700" requirement.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Home, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(p.SocketDir, 0700); err != nil {
		return err
	}
	dirs := []string{p.ResurrectionRoot, p.LogDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// SocketPath returns the unix-domain socket path for a session name.
func (p *Paths) SocketPath(sessionName string) string {
	return filepath.Join(p.SocketDir, sessionName)
}

// ResurrectionPath returns the resurrection document path for a session name.
func (p *Paths) ResurrectionPath(sessionName string) string {
	return filepath.Join(p.ResurrectionRoot, sessionName+".kdl")
}
