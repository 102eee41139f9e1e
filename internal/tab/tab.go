// Package tab implements the Tab component (spec.md section 4.6): a
// tiled layout tree of panes plus a z-ordered list of floating panes,
// with per-client focus and resize/split/close operations.
package tab

import (
	"errors"
	"sync"

	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/pane"
)

// Direction is a focus-movement or resize direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// ErrPaneNotFound is returned when an operation names a pane ID the
// Tab does not own.
var ErrPaneNotFound = errors.New("tab: pane not found")

// ErrLastPane is returned by ClosePane when asked to close the
// tab's only remaining pane; the caller (Session Router) is expected
// to destroy the Tab itself instead.
var ErrLastPane = errors.New("tab: cannot close the last pane in a tab")

// fullscreenState records the pre-fullscreen tiled tree so
// ToggleFullscreen can restore it.
type fullscreenState struct {
	savedRoot *layout.Node
	paneID    int
}

// Tab owns a tiled Layout Tree of Panes, a z-ordered floating-pane
// list, and per-client active-pane focus.
type Tab struct {
	mu sync.Mutex

	Name string

	root     *layout.Node
	panes    map[int]*pane.Pane
	floating []*pane.Pane
	pinned   map[int]bool

	activePerClient map[string]int // client id -> pane id
	syncInput       bool

	swap *layout.SwapLayouts
	full *fullscreenState

	nextPaneID int
	cols, rows int
}

// New creates a Tab containing a single pane occupying the whole tab
// area.
func New(name string, first *pane.Pane, cols, rows int) *Tab {
	t := &Tab{
		Name:            name,
		panes:           map[int]*pane.Pane{first.ID: first},
		pinned:          map[int]bool{},
		activePerClient: map[string]int{},
		nextPaneID:      first.ID + 1,
		cols:            cols,
		rows:            rows,
	}
	t.root = &layout.Node{PaneID: first.ID}
	t.recompute()
	return t
}

// NewFromLayout creates a Tab whose tiled tree is already shaped by
// root -- one leaf per entry in panes, keyed by the leaf's PaneID --
// instead of New's single full-area pane. This is the resurrect
// operation's entry point (spec.md section 4.9): a resurrection
// document expands to a layout.Node tree via
// resurrect.Instantiate/layout.DocumentToGeoms, and each leaf's
// already-spawned Pane is handed in here to become the live Tab.
func NewFromLayout(name string, root *layout.Node, panes map[int]*pane.Pane, cols, rows int) *Tab {
	t := &Tab{
		Name:            name,
		root:            root,
		panes:           panes,
		pinned:          map[int]bool{},
		activePerClient: map[string]int{},
		cols:            cols,
		rows:            rows,
	}
	for id := range panes {
		if id >= t.nextPaneID {
			t.nextPaneID = id + 1
		}
	}
	t.recompute()
	return t
}

// recompute must be called with t.mu held; it re-derives every leaf's
// geometry and pushes it to the bound Pane.
func (t *Tab) recompute() {
	if t.root == nil {
		return
	}
	layout.Compute(t.root, 0, 0, t.cols, t.rows)
	for _, leaf := range t.root.Leaves() {
		if p, ok := t.panes[leaf.PaneID]; ok {
			_ = p.SetGeom(leaf.Geom)
		}
	}
}

// Resize updates the tab's own area (e.g. on a client terminal
// resize) and recomputes every pane's geometry.
func (t *Tab) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cols, t.rows = cols, rows
	t.recompute()
}

// Size returns the tab's own canonical area, as last set by New or
// Resize.
func (t *Tab) Size() (cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols, t.rows
}

// Panes returns every tiled pane's current geometry, keyed by pane ID.
func (t *Tab) Panes() map[int]layout.PaneGeom {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]layout.PaneGeom, len(t.panes))
	for _, leaf := range t.root.Leaves() {
		out[leaf.PaneID] = leaf.Geom
	}
	return out
}

// Pane returns the pane with the given ID, whether tiled or floating.
func (t *Tab) Pane(id int) (*pane.Pane, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.panes[id]; ok {
		return p, true
	}
	for _, p := range t.floating {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Floating returns the floating panes in z-order, topmost last.
func (t *Tab) Floating() []*pane.Pane {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*pane.Pane(nil), t.floating...)
}

// ActivePane returns the pane focused by the given client, defaulting
// to the first leaf if the client has no recorded focus.
func (t *Tab) ActivePane(clientID string) (*pane.Pane, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.activePerClient[clientID]
	if !ok {
		leaves := t.root.Leaves()
		if len(leaves) == 0 {
			return nil, false
		}
		id = leaves[0].PaneID
	}
	if p, ok := t.panes[id]; ok {
		return p, true
	}
	for _, p := range t.floating {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// SetFocus assigns the active pane for a client.
func (t *Tab) SetFocus(clientID string, paneID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activePerClient[clientID] = paneID
}

// ToggleSyncInput flips whether keystrokes are broadcast to every
// tiled pane instead of only the focused one.
func (t *Tab) ToggleSyncInput() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncInput = !t.syncInput
	return t.syncInput
}

// SyncInput reports whether input broadcast is enabled.
func (t *Tab) SyncInput() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.syncInput
}

// AllTiledPanes returns every tiled (non-floating) pane.
func (t *Tab) AllTiledPanes() []*pane.Pane {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*pane.Pane, 0, len(t.panes))
	for _, leaf := range t.root.Leaves() {
		if p, ok := t.panes[leaf.PaneID]; ok {
			out = append(out, p)
		}
	}
	return out
}
