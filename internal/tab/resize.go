package tab

import "github.com/zmux-dev/zmux/internal/layout"

// ResizePane moves the focused pane's edge in direction d outward by
// the default resize step, growing the focused pane and shrinking
// its neighbor on that side, per spec.md section 4.4's resize
// algebra and the end-to-end scenario in section 8 (ResizeLeft on the
// right pane of a two-pane split widens it). If the focused pane has
// no neighbor on that side within its immediate parent split,
// ErrPaneSizeUnchanged is returned; cascading further up the tree is
// not attempted.
func (t *Tab) ResizePane(clientID string, d Direction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	paneID, ok := t.activePerClient[clientID]
	if !ok {
		return ErrPaneNotFound
	}
	_, parent, idx, ok := findLeaf(t.root, nil, 0, paneID)
	if !ok {
		return ErrPaneNotFound
	}
	if parent == nil {
		return ErrLastPane
	}

	wantDir := layout.Horizontal
	if d == Up || d == Down {
		wantDir = layout.Vertical
	}
	if parent.Direction != wantDir {
		return layout.ErrPaneSizeUnchanged
	}

	step := layout.DefaultResizeStep
	var borderIdx, delta int
	switch d {
	case Right, Down:
		// Grow the focused pane by pushing its own trailing edge
		// outward: ResizeBorder grows Children[idx] directly.
		if idx >= len(parent.Children)-1 {
			return layout.ErrPaneSizeUnchanged
		}
		borderIdx, delta = idx, step
	case Left, Up:
		// Grow the focused pane by pushing its leading edge outward:
		// the shared border with the previous sibling must shrink the
		// sibling (negative delta) to grow Children[idx].
		if idx == 0 {
			return layout.ErrPaneSizeUnchanged
		}
		borderIdx, delta = idx-1, -step
	}

	if err := layout.ResizeBorder(parent, borderIdx, delta); err != nil {
		return err
	}
	t.recompute()
	return nil
}
