package tab

import "github.com/zmux-dev/zmux/internal/layout"

// MoveFocus selects, for the given client, the pane whose edge
// opposite d is nearest to the current pane's edge in direction d,
// tie-broken by the overlap of the perpendicular axis, per spec.md
// section 4.6. wrap controls whether focus cycles around when there
// is no pane in that direction.
func (t *Tab) MoveFocus(clientID string, d Direction, wrap bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.activePerClient[clientID]
	leaves := t.root.Leaves()
	if !ok {
		if len(leaves) == 0 {
			return false
		}
		t.activePerClient[clientID] = leaves[0].PaneID
		return true
	}

	var curGeom layout.PaneGeom
	found := false
	for _, l := range leaves {
		if l.PaneID == cur {
			curGeom = l.Geom
			found = true
			break
		}
	}
	if !found {
		return false
	}

	best := -1
	bestDist := -1
	bestOverlap := -1
	for _, l := range leaves {
		if l.PaneID == cur {
			continue
		}
		dist, ok := edgeDistance(curGeom, l.Geom, d)
		if !ok {
			continue
		}
		overlap := perpendicularOverlap(curGeom, l.Geom, d)
		if overlap <= 0 {
			continue
		}
		if best == -1 || dist < bestDist || (dist == bestDist && overlap > bestOverlap) {
			best = l.PaneID
			bestDist = dist
			bestOverlap = overlap
		}
	}

	if best == -1 {
		if !wrap {
			return false
		}
		best = wrapCandidate(leaves, curGeom, d)
		if best == -1 {
			return false
		}
	}

	t.activePerClient[clientID] = best
	return true
}

// edgeDistance returns the gap between cur's edge in direction d and
// cand's opposite edge, and whether cand lies in direction d from
// cur at all.
func edgeDistance(cur, cand layout.PaneGeom, d Direction) (int, bool) {
	switch d {
	case Right:
		if cand.X < cur.X+cur.Cols {
			return 0, false
		}
		return cand.X - (cur.X + cur.Cols), true
	case Left:
		if cand.X+cand.Cols > cur.X {
			return 0, false
		}
		return cur.X - (cand.X + cand.Cols), true
	case Down:
		if cand.Y < cur.Y+cur.Rows {
			return 0, false
		}
		return cand.Y - (cur.Y + cur.Rows), true
	case Up:
		if cand.Y+cand.Rows > cur.Y {
			return 0, false
		}
		return cur.Y - (cand.Y + cand.Rows), true
	}
	return 0, false
}

func perpendicularOverlap(cur, cand layout.PaneGeom, d Direction) int {
	if d == Left || d == Right {
		lo := max(cur.Y, cand.Y)
		hi := min(cur.Y+cur.Rows, cand.Y+cand.Rows)
		return hi - lo
	}
	lo := max(cur.X, cand.X)
	hi := min(cur.X+cur.Cols, cand.X+cand.Cols)
	return hi - lo
}

// wrapCandidate picks the farthest pane on the opposite side when
// wrapping, approximating "start from the far edge" navigation.
func wrapCandidate(leaves []*layout.Node, cur layout.PaneGeom, d Direction) int {
	opposite := map[Direction]Direction{Left: Right, Right: Left, Up: Down, Down: Up}[d]
	best := -1
	bestDist := -1
	for _, l := range leaves {
		if l.Geom == cur {
			continue
		}
		dist, ok := edgeDistance(cur, l.Geom, opposite)
		if !ok {
			continue
		}
		if dist > bestDist {
			best = l.PaneID
			bestDist = dist
		}
	}
	return best
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
