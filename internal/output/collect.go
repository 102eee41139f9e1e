package output

import (
	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/vterm"
)

// PaneSource is the subset of a tab's pane bookkeeping the collector
// needs: geometry and the live grid to read dirty rows from.
type PaneSource struct {
	ID   int
	Geom layout.PaneGeom
	Grid *vterm.VTerm
}

// CollectDirtyChunks reads the dirty rows out of one pane's grid and
// translates them into CharacterChunks positioned at the tab's
// absolute coordinates (pane.Geom.X/Y added to the grid-local column
// and row). It clears the grid's dirty tracking as it reads, per
// spec.md section 4.3's drain-on-read semantics for OutputBuffer.
func CollectDirtyChunks(src PaneSource) []CharacterChunk {
	grid := src.Grid
	if grid == nil {
		return nil
	}

	dirty, all := grid.DirtyLines()
	screen, _ := grid.RenderBuffers()

	var chunks []CharacterChunk
	for y, row := range screen {
		if y >= src.Geom.Rows {
			break
		}
		if !all {
			if y >= len(dirty) || !dirty[y] {
				continue
			}
		}
		chunks = append(chunks, rowToChunks(row, src.Geom.X, src.Geom.Y+y)...)
	}

	grid.ClearDirtyWithCursor(grid.ShowCursor)
	return chunks
}

// CollectSixelChunks drains any Sixel images placed in one pane's grid
// since the last tick, storing each payload in store and returning
// image chunks positioned at the tab's absolute coordinates.
func CollectSixelChunks(src PaneSource, store *SixelStore) []SixelImageChunk {
	grid := src.Grid
	if grid == nil || store == nil {
		return nil
	}

	placements := grid.TakeSixels()
	if len(placements) == 0 {
		return nil
	}

	chunks := make([]SixelImageChunk, 0, len(placements))
	for _, p := range placements {
		if p.Y >= src.Geom.Rows {
			continue
		}
		id := store.Put(p.Payload)
		chunks = append(chunks, SixelImageChunk{
			ImageID: id,
			X:       src.Geom.X + p.X,
			Y:       src.Geom.Y + p.Y,
			Width:   p.Cols,
			Height:  p.Rows,
		})
	}
	return chunks
}

// rowToChunks splits a single grid row into one chunk per contiguous
// run of cells sharing identical style, skipping wide-character
// continuation cells (Width == 0) since their content already
// traveled with the preceding leading cell.
func rowToChunks(row []vterm.Cell, absX, absY int) []CharacterChunk {
	var chunks []CharacterChunk
	var cur []vterm.Cell
	start := 0

	flush := func(end int) {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, CharacterChunk{
			Cells: cur,
			X:     absX + start,
			Y:     absY,
		})
		cur = nil
	}

	for x, cell := range row {
		if cell.Width == 0 {
			continue
		}
		if len(cur) == 0 {
			start = x
			cur = append(cur, cell)
			continue
		}
		if cell.Style != cur[len(cur)-1].Style {
			flush(x)
			start = x
		}
		cur = append(cur, cell)
	}
	flush(len(row))

	return chunks
}
