package tab

import (
	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/pane"
)

// findLeaf returns the leaf node bound to paneID, and its parent plus
// index within the parent's Children, if any (nil parent for the
// root leaf).
func findLeaf(node, parent *layout.Node, idx int, paneID int) (leaf, p *layout.Node, leafIdx int, ok bool) {
	if node.IsLeaf() {
		if node.PaneID == paneID {
			return node, parent, idx, true
		}
		return nil, nil, 0, false
	}
	for i, c := range node.Children {
		if l, pp, li, found := findLeaf(c, node, i, paneID); found {
			return l, pp, li, true
		}
	}
	return nil, nil, 0, false
}

// SplitHorizontally splits the pane at paneID into a left/right pair,
// placing newPane on the right, each taking half the original's
// width.
func (t *Tab) SplitHorizontally(paneID int, newPane *pane.Pane) error {
	return t.split(paneID, newPane, layout.Horizontal)
}

// SplitVertically splits the pane at paneID into a top/bottom pair,
// placing newPane on the bottom.
func (t *Tab) SplitVertically(paneID int, newPane *pane.Pane) error {
	return t.split(paneID, newPane, layout.Vertical)
}

func (t *Tab) split(paneID int, newPane *pane.Pane, dir layout.SplitDirection) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	leaf, parent, idx, ok := findLeaf(t.root, nil, 0, paneID)
	if !ok {
		return ErrPaneNotFound
	}

	half := layout.Percent(50)
	other := layout.Percent(50)
	a := &layout.Node{PaneID: leaf.PaneID, SplitSize: &half}
	b := &layout.Node{PaneID: newPane.ID, SplitSize: &other}
	replacement := &layout.Node{Direction: dir, Children: []*layout.Node{a, b}}

	if parent == nil {
		t.root = replacement
	} else {
		replacement.SplitSize = parent.Children[idx].SplitSize
		parent.Children[idx] = replacement
	}

	t.panes[newPane.ID] = newPane
	t.recompute()
	return nil
}

// ClosePane removes paneID from the tiled layout (or the floating
// list), closes its Pane, and promotes its sibling to take over the
// freed space. Returns ErrLastPane if paneID is the tab's only tiled
// pane.
func (t *Tab) ClosePane(paneID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, p := range t.floating {
		if p.ID == paneID {
			t.floating = append(t.floating[:i], t.floating[i+1:]...)
			delete(t.pinned, paneID)
			_ = p.Close()
			return nil
		}
	}

	leaf, parent, idx, ok := findLeaf(t.root, nil, 0, paneID)
	if !ok {
		return ErrPaneNotFound
	}
	if parent == nil {
		return ErrLastPane
	}

	sibling := parent.Children[1-idx]
	// Replace parent in the grandparent with sibling, collapsing the
	// now-unary split node.
	if gp, gpIdx, gpOK := parentOf(t.root, parent); gpOK {
		sibling.SplitSize = gp.Children[gpIdx].SplitSize
		gp.Children[gpIdx] = sibling
	} else {
		sibling.SplitSize = nil
		t.root = sibling
	}

	if p, ok := t.panes[leaf.PaneID]; ok {
		_ = p.Close()
	}
	delete(t.panes, paneID)
	t.recompute()
	return nil
}

func parentOf(node, target *layout.Node) (*layout.Node, int, bool) {
	if node.IsLeaf() {
		return nil, 0, false
	}
	for i, c := range node.Children {
		if c == target {
			return node, i, true
		}
		if p, idx, ok := parentOf(c, target); ok {
			return p, idx, ok
		}
	}
	return nil, 0, false
}

// ToggleFloating moves a tiled pane to the floating layer, or a
// floating pane back into the tiled tree at the root split, depending
// on its current state.
func (t *Tab) ToggleFloating(paneID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, p := range t.floating {
		if p.ID == paneID {
			t.floating = append(t.floating[:i], t.floating[i+1:]...)
			half := layout.Percent(50)
			other := layout.Percent(50)
			if t.root == nil {
				t.root = &layout.Node{PaneID: paneID}
			} else {
				a := &layout.Node{Direction: t.root.Direction, PaneID: t.root.PaneID, Children: t.root.Children, SplitSize: &half}
				b := &layout.Node{PaneID: paneID, SplitSize: &other}
				t.root = &layout.Node{Direction: layout.Horizontal, Children: []*layout.Node{a, b}}
			}
			t.panes[paneID] = p
			t.recompute()
			return nil
		}
	}

	leaf, parent, _, ok := findLeaf(t.root, nil, 0, paneID)
	if !ok {
		return ErrPaneNotFound
	}
	if parent == nil {
		return ErrLastPane
	}
	p := t.panes[leaf.PaneID]
	if err := t.removeLeafLocked(paneID); err != nil {
		return err
	}
	t.floating = append(t.floating, p)
	return nil
}

// removeLeafLocked removes a tiled leaf without closing its Pane
// (used when moving it to the floating layer). Caller holds t.mu.
func (t *Tab) removeLeafLocked(paneID int) error {
	_, parent, idx, ok := findLeaf(t.root, nil, 0, paneID)
	if !ok {
		return ErrPaneNotFound
	}
	if parent == nil {
		return ErrLastPane
	}
	sibling := parent.Children[1-idx]
	if gp, gpIdx, gpOK := parentOf(t.root, parent); gpOK {
		sibling.SplitSize = gp.Children[gpIdx].SplitSize
		gp.Children[gpIdx] = sibling
	} else {
		sibling.SplitSize = nil
		t.root = sibling
	}
	delete(t.panes, paneID)
	t.recompute()
	return nil
}
