package layout

import "errors"

// ErrCantResizeFixedPanes is returned when a resize targets a border
// between two Fixed-sized siblings: neither side can absorb the
// change without violating the other's explicit size.
var ErrCantResizeFixedPanes = errors.New("layout: cannot resize a border between two fixed-size panes")

// ErrPaneSizeUnchanged is returned when a resize would shrink a pane
// below the minimum size (5 rows x 5 cols).
var ErrPaneSizeUnchanged = errors.New("layout: resize would violate minimum pane size")

// DefaultResizeStep is the default resize granularity used by the end-to-end
// scenarios in spec.md section 8 (scenario 3: "the right pane becomes
// wider by the configured step (10 cells)").
const DefaultResizeStep = 10

// ResizeBorder adjusts the border to the right of (Horizontal split)
// or below (Vertical split) parent.Children[idx], moving it by delta
// cells (positive grows Children[idx], shrinks Children[idx+1]).
// Percent-percent neighbors are both adjusted so their sum is
// preserved; percent-fixed neighbors only change the percent side;
// fixed-fixed neighbors fail with ErrCantResizeFixedPanes. If the
// adjacent sibling cannot absorb the change without violating its own
// minimum size, the request cascades to the next sibling outward.
func ResizeBorder(parent *Node, idx int, delta int) error {
	if parent == nil || idx < 0 || idx+1 >= len(parent.Children) {
		return errors.New("layout: resize index out of range")
	}

	totalAxis := parent.Geom.Cols
	if parent.Direction == Vertical {
		totalAxis = parent.Geom.Rows
	}
	minAxis := MinCols
	if parent.Direction == Vertical {
		minAxis = MinRows
	}

	left, right := parent.Children[idx], parent.Children[idx+1]
	leftFixed, rightFixed := sizeDimIsFixed(left), sizeDimIsFixed(right)

	if leftFixed && rightFixed {
		return ErrCantResizeFixedPanes
	}

	leftGeom := geomAxisSize(left, parent.Direction)
	rightGeom := geomAxisSize(right, parent.Direction)

	newLeft := leftGeom + delta
	newRight := rightGeom - delta
	if newLeft < minAxis || newRight < minAxis {
		// The immediate neighbor can't absorb it; cascade outward by
		// trying to borrow the overflow from the next sibling instead.
		if delta > 0 && idx+2 < len(parent.Children) {
			return ResizeBorder(parent, idx+1, delta)
		}
		if delta < 0 && idx > 0 {
			return ResizeBorder(parent, idx-1, delta)
		}
		return ErrPaneSizeUnchanged
	}

	switch {
	case !leftFixed && !rightFixed:
		// percent-percent: move delta cells worth of percent from one
		// to the other so their sum is preserved.
		deltaPct := float64(delta) / float64(totalAxis) * 100.0
		setPercent(left, percentOf(left)+deltaPct)
		setPercent(right, percentOf(right)-deltaPct)
	case leftFixed:
		setFixed(left, newLeft)
	case rightFixed:
		setFixed(right, newRight)
	}

	return nil
}

func sizeDimIsFixed(n *Node) bool {
	return n.SplitSize != nil && n.SplitSize.IsFixed()
}

func geomAxisSize(n *Node, dir SplitDirection) int {
	if dir == Horizontal {
		return n.Geom.Cols
	}
	return n.Geom.Rows
}

func percentOf(n *Node) float64 {
	if n.SplitSize != nil && n.SplitSize.IsPercent() {
		return n.SplitSize.PercentValue()
	}
	return 0
}

func setPercent(n *Node, p float64) {
	d := Percent(p)
	n.SplitSize = &d
}

func setFixed(n *Node, cells int) {
	d := Fixed(cells)
	n.SplitSize = &d
}
