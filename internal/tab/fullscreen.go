package tab

import "github.com/zmux-dev/zmux/internal/layout"

// ToggleFullscreen makes the given pane occupy the whole tab,
// remembering the prior tiled tree, or restores the previously saved
// tree if the tab is already fullscreen, per spec.md section 4.6.
func (t *Tab) ToggleFullscreen(paneID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.full != nil {
		t.root = t.full.savedRoot
		t.full = nil
		t.recompute()
		return nil
	}

	if _, _, _, ok := findLeaf(t.root, nil, 0, paneID); !ok {
		return ErrPaneNotFound
	}

	t.full = &fullscreenState{savedRoot: t.root, paneID: paneID}
	t.root = &layout.Node{PaneID: paneID}
	t.recompute()
	return nil
}

// IsFullscreen reports whether the tab currently has a pane
// fullscreened, and which one.
func (t *Tab) IsFullscreen() (paneID int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full == nil {
		return 0, false
	}
	return t.full.paneID, true
}
