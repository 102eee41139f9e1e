package resurrect

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/logging"
)

// Write encodes doc and atomically replaces the resurrection file for
// sessionName (rename-over-write, so a reader never observes a
// partially-written document).
func Write(paths *config.Paths, sessionName string, doc *Document) error {
	path := paths.ResurrectionPath(sessionName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, Encode(doc), 0o644); err != nil {
		return fmt.Errorf("resurrect: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("resurrect: rename %s: %w", path, err)
	}
	return nil
}

// Read loads and parses the resurrection document for sessionName.
func Read(paths *config.Paths, sessionName string) (*Document, error) {
	data, err := os.ReadFile(paths.ResurrectionPath(sessionName))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Exists reports whether a resurrection file is present for
// sessionName.
func Exists(paths *config.Paths, sessionName string) bool {
	_, err := os.Stat(paths.ResurrectionPath(sessionName))
	return err == nil
}

// Delete removes the resurrection file for sessionName, e.g. after a
// deliberate (non-crash) session kill that should not be offered for
// resurrect.
func Delete(paths *config.Paths, sessionName string) error {
	err := os.Remove(paths.ResurrectionPath(sessionName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Watcher notifies when a resurrection file is added or changed out
// from under the running server (e.g. an operator hand-editing a
// layout document on disk), grounded on the teacher's use of
// fsnotify for its own config directory watch.
type Watcher struct {
	fsw      *fsnotify.Watcher
	OnChange func(sessionName string)
	done     chan struct{}
}

// NewWatcher starts watching paths.ResurrectionRoot for writes.
func NewWatcher(paths *config.Paths, onChange func(sessionName string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("resurrect: new watcher: %w", err)
	}
	if err := fsw.Add(paths.ResurrectionRoot); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resurrect: watch %s: %w", paths.ResurrectionRoot, err)
	}
	w := &Watcher{fsw: fsw, OnChange: onChange, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := sessionNameFromPath(ev.Name)
			if name != "" && w.OnChange != nil {
				w.OnChange(name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Debug("resurrect: watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func sessionNameFromPath(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	const suffix = ".kdl"
	if len(base) <= len(suffix) || base[len(base)-len(suffix):] != suffix {
		return ""
	}
	if base[len(base)-len(".tmp"):] == ".tmp" {
		return ""
	}
	return base[:len(base)-len(suffix)]
}
