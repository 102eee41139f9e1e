package tab

import "github.com/zmux-dev/zmux/internal/layout"

// SetSwapLayouts installs the alternate layouts a tab can cycle
// through with CycleSwapLayout. It does not change the current tree.
func (t *Tab) SetSwapLayouts(swap *layout.SwapLayouts) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.swap = swap
}

// CycleSwapLayout advances to the next declared swap layout (spec.md
// section 4.4), re-associating the tab's existing panes with the new
// tree's leaves by left-to-right order so pane identity (and its
// live PTY) survives the swap, per original_source's swap-layout
// semantics. It is a no-op if no swap layouts were declared.
func (t *Tab) CycleSwapLayout() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.swap == nil {
		return false
	}
	next := t.swap.Next()
	if next == nil || next.Root == nil {
		return false
	}

	oldLeaves := t.root.Leaves()
	newRoot := cloneNode(next.Root)
	newLeaves := newRoot.Leaves()

	for i, leaf := range newLeaves {
		if i < len(oldLeaves) {
			leaf.PaneID = oldLeaves[i].PaneID
		}
	}

	t.root = newRoot
	t.recompute()
	return true
}

// cloneNode deep-copies a layout subtree so repeated cycles don't
// mutate the shared swap-layout template.
func cloneNode(n *layout.Node) *layout.Node {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Children = nil
	for _, child := range n.Children {
		clone.Children = append(clone.Children, cloneNode(child))
	}
	return &clone
}
