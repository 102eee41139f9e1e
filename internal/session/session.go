// Package session implements the long-lived Session state described
// in spec.md section 3/4.6: a named collection of Tabs plus the
// per-client attachment bookkeeping (focus, floating-pane pin layer)
// that sits above a single Tab.
//
// The Session Router (router.go) is the worker that mutates a
// Session on behalf of attached clients; Session itself only holds
// state and the pure operations that don't need a channel round
// trip.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/logging"
	"github.com/zmux-dev/zmux/internal/output"
	"github.com/zmux-dev/zmux/internal/pane"
	"github.com/zmux-dev/zmux/internal/tab"
)

// ErrNoSuchTab is returned when an operation names a tab index the
// session does not have.
var ErrNoSuchTab = errors.New("session: no such tab")

// ErrLastTab is returned by CloseTab when asked to close the
// session's only remaining tab.
var ErrLastTab = errors.New("session: cannot close the last tab")

// Session owns every Tab for one named, long-lived server process,
// plus the per-client focus/mode bookkeeping and the global pinned-
// floating-pane layer (spec.md section 9's Open Question decision:
// pinned panes are tracked once per session, composited above every
// tab's own z-order, rather than per tab).
type Session struct {
	mu sync.Mutex

	Name string
	cfg  *config.Config

	tabs         []*tab.Tab
	activeTab    map[string]int // client id -> tab index
	nextPaneID   int
	cols, rows   int
	sixels       *output.SixelStore
	pinnedPanes  map[int]bool // pane id -> pinned across tabs
	onTabsChange func()
}

// New creates a Session with a single tab running cfg.DefaultShell.
func New(name string, cfg *config.Config) (*Session, error) {
	s := &Session{
		Name:        name,
		cfg:         cfg,
		activeTab:   map[string]int{},
		nextPaneID:  1,
		cols:        80,
		rows:        24,
		sixels:      output.NewSixelStore(),
		pinnedPanes: map[int]bool{},
	}
	if _, err := s.newTabLocked("main", cfg.DefaultShell, cfg.StartDir); err != nil {
		return nil, err
	}
	return s, nil
}

// SixelStore returns the session-wide shared sixel image store.
func (s *Session) SixelStore() *output.SixelStore { return s.sixels }

// Config returns the session's resolved configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// OnTabsChange registers a callback invoked after any operation that
// adds or removes a tab or pane, so the router can mark every
// affected client dirty for the next render tick.
func (s *Session) OnTabsChange(fn func()) {
	s.mu.Lock()
	s.onTabsChange = fn
	s.mu.Unlock()
}

func (s *Session) notifyChanged() {
	if s.onTabsChange != nil {
		s.onTabsChange()
	}
}

// Tabs returns the session's tabs in order.
func (s *Session) Tabs() []*tab.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*tab.Tab(nil), s.tabs...)
}

// TabCount returns the number of open tabs.
func (s *Session) TabCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tabs)
}

func (s *Session) allocPaneID() int {
	id := s.nextPaneID
	s.nextPaneID++
	return id
}

// newTabLocked creates a tab with one pane running command in dir.
// Caller must hold s.mu.
func (s *Session) newTabLocked(name, command, dir string) (*tab.Tab, error) {
	id := s.allocPaneID()

	// t is assigned synchronously below, before the PTY's read loop
	// goroutine can possibly observe an EOF and invoke onClose; the
	// closure captures the variable, not its zero value.
	var t *tab.Tab
	p, err := pane.New(pane.Options{
		ID:      id,
		Command: command,
		Dir:     dir,
		Env:     s.childEnv(),
		Rows:    s.rows,
		Cols:    s.cols,
		OnClose: func(exited *pane.Pane, exitCode int) { s.handlePaneExit(t, exited) },
	})
	if err != nil {
		return nil, fmt.Errorf("session: new tab: %w", err)
	}
	t = tab.New(name, p, s.cols, s.rows)
	s.tabs = append(s.tabs, t)
	return t, nil
}

// handlePaneExit removes an exited, unheld pane from its tab, or the
// tab itself if that was its last pane, and notifies the router so
// every affected client is marked dirty for the next render.
func (s *Session) handlePaneExit(t *tab.Tab, exited *pane.Pane) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := t.ClosePane(exited.ID); errors.Is(err, tab.ErrLastPane) {
		s.removeTabLocked(t)
	} else if err != nil {
		logging.Debug("session %s: close pane %d: %v", s.Name, exited.ID, err)
	}
	delete(s.pinnedPanes, exited.ID)
	s.notifyChanged()
}

// childEnv returns the extra environment variables forwarded to every
// pane's child process, per spec.md section 6: the session name and
// CLICOLOR_FORCE forced on.
func (s *Session) childEnv() []string {
	return []string{
		"ZMUX_SESSION_NAME=" + s.Name,
		"CLICOLOR_FORCE=1",
	}
}

func (s *Session) removeTabLocked(t *tab.Tab) {
	for i, cand := range s.tabs {
		if cand == t {
			s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
			for client, idx := range s.activeTab {
				if idx >= len(s.tabs) && len(s.tabs) > 0 {
					s.activeTab[client] = len(s.tabs) - 1
				}
			}
			return
		}
	}
}

// NewTab creates a new tab running command (the default shell if
// empty) and returns its index.
func (s *Session) NewTab(name, command string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if command == "" {
		command = s.cfg.DefaultShell
	}
	t, err := s.newTabLocked(name, command, s.cfg.StartDir)
	if err != nil {
		return 0, err
	}
	s.notifyChanged()
	for i, cand := range s.tabs {
		if cand == t {
			return i, nil
		}
	}
	return len(s.tabs) - 1, nil
}

// CloseTab closes every pane in the tab at idx and removes it.
func (s *Session) CloseTab(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.tabs) {
		return ErrNoSuchTab
	}
	if len(s.tabs) == 1 {
		return ErrLastTab
	}
	t := s.tabs[idx]
	for _, p := range t.AllTiledPanes() {
		_ = p.Close()
	}
	for _, p := range t.Floating() {
		_ = p.Close()
	}
	s.removeTabLocked(t)
	s.notifyChanged()
	return nil
}

// SpawnPane allocates a fresh pane ID and spawns its PTY, wired to
// close into t (e.g. for Tab.SplitHorizontally/SplitVertically or
// Tab.ToggleFloating's floating-layer placement). t must already be
// one of the session's tabs.
func (s *Session) SpawnPane(t *tab.Tab, command string) (*pane.Pane, error) {
	s.mu.Lock()
	id := s.allocPaneID()
	cwd := s.cfg.StartDir
	env := s.childEnv()
	rows, cols := s.rows, s.cols
	s.mu.Unlock()

	if command == "" {
		command = s.cfg.DefaultShell
	}
	p, err := pane.New(pane.Options{
		ID:      id,
		Command: command,
		Dir:     cwd,
		Env:     env,
		Rows:    rows,
		Cols:    cols,
		OnClose: func(exited *pane.Pane, exitCode int) { s.handlePaneExit(t, exited) },
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ActiveTabIndex returns the tab index the given client is focused
// on, defaulting to 0.
func (s *Session) ActiveTabIndex(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.activeTab[clientID]
	if !ok || idx >= len(s.tabs) {
		return 0
	}
	return idx
}

// SetActiveTab focuses clientID on the tab at idx.
func (s *Session) SetActiveTab(clientID string, idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.tabs) {
		return ErrNoSuchTab
	}
	s.activeTab[clientID] = idx
	return nil
}

// NextTab / PrevTab cycle the client's active tab.
func (s *Session) NextTab(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) == 0 {
		return
	}
	s.activeTab[clientID] = (s.activeTab[clientID] + 1) % len(s.tabs)
}

func (s *Session) PrevTab(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) == 0 {
		return
	}
	s.activeTab[clientID] = (s.activeTab[clientID] - 1 + len(s.tabs)) % len(s.tabs)
}

// ForgetClient drops every per-client focus entry for a detached
// client.
func (s *Session) ForgetClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activeTab, clientID)
}

// Resize re-derives every tab's geometry for a new canonical terminal
// size, per spec.md section 4.11's Signal/Resize Bridge.
func (s *Session) Resize(cols, rows int) {
	s.mu.Lock()
	s.cols, s.rows = cols, rows
	tabs := append([]*tab.Tab(nil), s.tabs...)
	s.mu.Unlock()
	for _, t := range tabs {
		t.Resize(cols, rows)
	}
}

// Size returns the session's canonical terminal size.
func (s *Session) Size() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// TogglePinned flips whether paneID's floating pane stays visible
// across tab switches.
func (s *Session) TogglePinned(paneID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinnedPanes[paneID] = !s.pinnedPanes[paneID]
	return s.pinnedPanes[paneID]
}

// PinnedPanes returns the set of globally pinned pane IDs.
func (s *Session) PinnedPanes() map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]bool, len(s.pinnedPanes))
	for k, v := range s.pinnedPanes {
		out[k] = v
	}
	return out
}

// PinnedGeomsExcept returns the geometry of every globally pinned
// floating pane that belongs to a tab other than except, per spec.md
// section 9's Open Question decision: pinned panes stay visible
// across tabs via a session-wide layer composited above each tab's
// own z-order.
func (s *Session) PinnedGeomsExcept(except *tab.Tab) []layout.PaneGeom {
	s.mu.Lock()
	tabs := append([]*tab.Tab(nil), s.tabs...)
	pinned := make(map[int]bool, len(s.pinnedPanes))
	for k, v := range s.pinnedPanes {
		pinned[k] = v
	}
	s.mu.Unlock()

	var out []layout.PaneGeom
	for _, t := range tabs {
		if t == except {
			continue
		}
		for _, p := range t.Floating() {
			if pinned[p.ID] {
				out = append(out, p.Geom())
			}
		}
	}
	return out
}

// Shutdown closes every pane in every tab, reaping all child
// processes, per spec.md section 3's pane-destruction invariant.
func (s *Session) Shutdown() {
	s.mu.Lock()
	tabs := append([]*tab.Tab(nil), s.tabs...)
	s.mu.Unlock()
	for _, t := range tabs {
		for _, p := range t.AllTiledPanes() {
			_ = p.Close()
		}
		for _, p := range t.Floating() {
			_ = p.Close()
		}
	}
}

// FloatingStack builds the spec.md section 4.3 FloatingPanesStack for
// a tab, with globally pinned panes (from other tabs) composited
// above the tab's own floating z-order.
func FloatingStack(t *tab.Tab, pinnedFromOtherTabs []layout.PaneGeom) output.FloatingPanesStack {
	var layers []layout.PaneGeom
	for _, p := range t.Floating() {
		layers = append(layers, p.Geom())
	}
	layers = append(layers, pinnedFromOtherTabs...)
	return output.FloatingPanesStack{Layers: layers}
}
