package output

import "github.com/zmux-dev/zmux/internal/layout"

// ApplyOcclusion intersects each chunk against the floating panes
// stacked above paneZIndex (the z-index of the pane the chunks
// belong to) and returns the chunks that remain visible: chunks
// entirely covered are dropped, chunks covered on one side are
// width-truncated, and chunks covered in the middle are split into a
// left and a right remainder, per spec.md section 4.3.
func ApplyOcclusion(chunks []CharacterChunk, stack FloatingPanesStack, paneZIndex int) []CharacterChunk {
	above := stack.Above(paneZIndex)
	if len(above) == 0 {
		return chunks
	}

	result := chunks
	for _, cover := range above {
		result = occludeAll(result, cover)
	}
	return result
}

func occludeAll(chunks []CharacterChunk, cover layout.PaneGeom) []CharacterChunk {
	var out []CharacterChunk
	for _, c := range chunks {
		out = append(out, occludeOne(c, cover)...)
	}
	return out
}

// occludeOne returns the remainder of chunk after subtracting the
// horizontal span of cover on chunk's row, if any.
func occludeOne(c CharacterChunk, cover layout.PaneGeom) []CharacterChunk {
	if c.Y < cover.Y || c.Y >= cover.Y+cover.Rows {
		return []CharacterChunk{c}
	}

	chunkEnd := c.X + c.Width()
	coverStart := cover.X
	coverEnd := cover.X + cover.Cols

	if coverStart <= c.X && coverEnd >= chunkEnd {
		// Fully covered.
		return nil
	}

	if coverEnd <= c.X || coverStart >= chunkEnd {
		// No overlap on this row.
		return []CharacterChunk{c}
	}

	if coverStart <= c.X {
		// Covered on the left: keep the right remainder.
		return []CharacterChunk{truncateChunk(c, coverEnd-c.X, c.Width())}
	}

	if coverEnd >= chunkEnd {
		// Covered on the right: keep the left remainder.
		return []CharacterChunk{truncateChunk(c, 0, coverStart-c.X)}
	}

	// Covered in the middle: split into left and right remainders.
	left := truncateChunk(c, 0, coverStart-c.X)
	right := truncateChunk(c, coverEnd-c.X, chunkEnd-c.X)
	var out []CharacterChunk
	if left.Width() > 0 {
		out = append(out, left)
	}
	if right.Width() > 0 {
		out = append(out, right)
	}
	return out
}

// truncateChunk returns the slice of c's cells spanning display
// columns [from, to) relative to c.X, with X adjusted to the new
// start column.
func truncateChunk(c CharacterChunk, from, to int) CharacterChunk {
	col := 0
	startIdx := len(c.Cells)
	endIdx := len(c.Cells)
	for i, cell := range c.Cells {
		if col == from {
			startIdx = i
		}
		col += cell.Width
		if col >= to && endIdx == len(c.Cells) {
			endIdx = i + 1
			break
		}
	}
	if startIdx > endIdx {
		startIdx = endIdx
	}
	return CharacterChunk{
		Cells: c.Cells[startIdx:endIdx],
		X:     c.X + from,
		Y:     c.Y,
	}
}

// CursorVisible reports whether a cursor at the given absolute
// coordinates is covered by any floating pane above paneZIndex.
func CursorVisible(x, y int, stack FloatingPanesStack, paneZIndex int) bool {
	for _, cover := range stack.Above(paneZIndex) {
		if x >= cover.X && x < cover.X+cover.Cols && y >= cover.Y && y < cover.Y+cover.Rows {
			return false
		}
	}
	return true
}
