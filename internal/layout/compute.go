package layout

// Compute assigns integer geometry to every node in the tree rooted
// at root, starting from the rectangle (x, y, cols, rows), per
// spec.md section 4.4 "Layout document -> live geometry": fixed sizes
// are honored first, remaining space is distributed among percent (or
// unspecified) siblings proportional to their declared percents, and
// children whose percents do not sum to 100 have the deficit
// distributed proportionally among them.
func Compute(root *Node, x, y, cols, rows int) {
	root.Geom = PaneGeom{X: x, Y: y, Cols: cols, Rows: rows}
	if root.IsLeaf() {
		return
	}

	total := cols
	if root.Direction == Vertical {
		total = rows
	}

	sizes := distribute(root.Children, total)

	cx, cy := x, y
	for i, child := range root.Children {
		size := sizes[i]
		var childCols, childRows int
		if root.Direction == Horizontal {
			childCols, childRows = size, rows
		} else {
			childCols, childRows = cols, size
		}
		Compute(child, cx, cy, childCols, childRows)
		if root.Direction == Horizontal {
			cx += size
		} else {
			cy += size
		}
	}
}

// distribute computes the integer size of each child along total
// cells of the parent's split axis.
func distribute(children []*Node, total int) []int {
	n := len(children)
	sizes := make([]int, n)
	if n == 0 {
		return sizes
	}

	remaining := total
	var percentIdx []int
	var freeIdx []int
	var percentSum float64

	for i, c := range children {
		switch {
		case c.SplitSize != nil && c.SplitSize.IsFixed():
			sizes[i] = c.SplitSize.FixedCells()
			remaining -= sizes[i]
		case c.SplitSize != nil && c.SplitSize.IsPercent():
			percentIdx = append(percentIdx, i)
			percentSum += c.SplitSize.PercentValue()
		default:
			freeIdx = append(freeIdx, i)
		}
	}
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case len(percentIdx) > 0:
		// Distribute `remaining` among percent children proportional to
		// their declared percent, scaled so the deficit (percentSum <
		// 100) or any rounding error is absorbed by the last child.
		assigned := 0
		for k, i := range percentIdx {
			var size int
			if percentSum > 0 {
				// The small epsilon keeps float error (69.999...)
				// from truncating a whole cell off an exact share.
				size = int(float64(remaining)*children[i].SplitSize.PercentValue()/percentSum + 1e-9)
			}
			if k == len(percentIdx)-1 {
				size = remaining - assigned
			}
			sizes[i] = size
			assigned += size
		}
		// Any node with neither fixed nor percent gets 0 cells when
		// percent siblings are present -- not expected once validated,
		// but kept safe for partially-specified trees.
		for _, i := range freeIdx {
			sizes[i] = 0
		}
	case len(freeIdx) > 0:
		each := remaining / len(freeIdx)
		extra := remaining % len(freeIdx)
		for k, i := range freeIdx {
			sizes[i] = each
			if k < extra {
				sizes[i]++
			}
		}
	}

	return sizes
}
