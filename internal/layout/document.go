package layout

import "sort"

// GeomsToDocument reconstructs a split tree from a set of PaneGeoms
// that tile the rectangle (x, y, cols, rows), per spec.md section
// 4.4: a horizontal line at y is a valid cut iff the rectangles above
// it cover exactly (x_max - x_min) x (y - y_min); analogously for
// vertical. Vertical cuts are preferred first; recursion proceeds on
// each side with the restricted domain. Leaves become pane nodes
// carrying the Run, if any, found for their geometry in runByGeom.
func GeomsToDocument(geoms []PaneGeom, runByGeom func(PaneGeom) *Run) *Node {
	if len(geoms) == 0 {
		return &Node{}
	}
	if len(geoms) == 1 {
		n := &Node{}
		if runByGeom != nil {
			n.Run = runByGeom(geoms[0])
		}
		n.Geom = geoms[0]
		return n
	}

	x0, y0, x1, y1 := bounds(geoms)

	if cut, ok := findVerticalCut(geoms, x0, x1); ok {
		left, right := splitAtX(geoms, cut)
		return makeSplit(Horizontal, left, right, x1-x0, runByGeom)
	}
	if cut, ok := findHorizontalCut(geoms, y0, y1); ok {
		top, bottom := splitAtY(geoms, cut)
		return makeSplit(Vertical, top, bottom, y1-y0, runByGeom)
	}

	// No straight cut found (should not happen for a valid tiling);
	// fall back to a flat horizontal split in geometry order so the
	// document still round-trips the leaf set, even if imperfectly.
	sorted := append([]PaneGeom(nil), geoms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	n := &Node{Direction: Horizontal}
	for _, g := range sorted {
		leaf := &Node{Geom: g}
		if runByGeom != nil {
			leaf.Run = runByGeom(g)
		}
		n.Children = append(n.Children, leaf)
	}
	return n
}

func makeSplit(dir SplitDirection, a, b []PaneGeom, parentAxis int, runByGeom func(PaneGeom) *Run) *Node {
	n := &Node{Direction: dir}
	left := GeomsToDocument(a, runByGeom)
	right := GeomsToDocument(b, runByGeom)
	axisA, axisB := 0, 0
	if dir == Horizontal {
		axisA, axisB = axisWidth(a), axisWidth(b)
	} else {
		axisA, axisB = axisHeight(a), axisHeight(b)
	}
	if parentAxis > 0 {
		pa := Percent(float64(axisA) / float64(parentAxis) * 100.0)
		pb := Percent(float64(axisB) / float64(parentAxis) * 100.0)
		left.SplitSize = &pa
		right.SplitSize = &pb
	}
	n.Children = []*Node{left, right}
	return n
}

func axisWidth(geoms []PaneGeom) int {
	_, _, x1, _ := bounds(geoms)
	x0, _, _, _ := bounds(geoms)
	return x1 - x0
}

func axisHeight(geoms []PaneGeom) int {
	_, y0, _, y1 := bounds(geoms)
	return y1 - y0
}

func bounds(geoms []PaneGeom) (x0, y0, x1, y1 int) {
	x0, y0 = geoms[0].X, geoms[0].Y
	x1, y1 = geoms[0].X+geoms[0].Cols, geoms[0].Y+geoms[0].Rows
	for _, g := range geoms[1:] {
		if g.X < x0 {
			x0 = g.X
		}
		if g.Y < y0 {
			y0 = g.Y
		}
		if g.X+g.Cols > x1 {
			x1 = g.X + g.Cols
		}
		if g.Y+g.Rows > y1 {
			y1 = g.Y + g.Rows
		}
	}
	return
}

// findVerticalCut finds an x within (x0, x1) such that every geom
// either lies entirely left of it or entirely right of it, and the
// left side's area covers the full height on that side (a valid
// straight vertical cut).
func findVerticalCut(geoms []PaneGeom, x0, x1 int) (int, bool) {
	candidates := map[int]bool{}
	for _, g := range geoms {
		if g.X > x0 {
			candidates[g.X] = true
		}
	}
	for cut := range candidates {
		leftOK, rightOK := true, true
		for _, g := range geoms {
			if g.X < cut && g.X+g.Cols > cut {
				leftOK, rightOK = false, false
				break
			}
		}
		if leftOK && rightOK {
			return cut, true
		}
	}
	return 0, false
}

func findHorizontalCut(geoms []PaneGeom, y0, y1 int) (int, bool) {
	candidates := map[int]bool{}
	for _, g := range geoms {
		if g.Y > y0 {
			candidates[g.Y] = true
		}
	}
	for cut := range candidates {
		ok := true
		for _, g := range geoms {
			if g.Y < cut && g.Y+g.Rows > cut {
				ok = false
				break
			}
		}
		if ok {
			return cut, true
		}
	}
	return 0, false
}

func splitAtX(geoms []PaneGeom, cut int) (left, right []PaneGeom) {
	for _, g := range geoms {
		if g.X < cut {
			left = append(left, g)
		} else {
			right = append(right, g)
		}
	}
	return
}

func splitAtY(geoms []PaneGeom, cut int) (top, bottom []PaneGeom) {
	for _, g := range geoms {
		if g.Y < cut {
			top = append(top, g)
		} else {
			bottom = append(bottom, g)
		}
	}
	return
}

// DocumentToGeoms walks the tree and returns the resolved PaneGeom of
// every leaf, in document order, after computing geometry for the
// rectangle (x, y, cols, rows).
func DocumentToGeoms(root *Node, x, y, cols, rows int) []PaneGeom {
	Compute(root, x, y, cols, rows)
	leaves := root.Leaves()
	out := make([]PaneGeom, len(leaves))
	for i, l := range leaves {
		out[i] = l.Geom
	}
	return out
}
