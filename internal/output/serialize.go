package output

import (
	"fmt"
	"strings"

	"github.com/zmux-dev/zmux/internal/perf"
	"github.com/zmux-dev/zmux/internal/vterm"
)

// CursorState is the cursor position and visibility to emit as the
// trailing post-VTE instruction.
type CursorState struct {
	X, Y    int
	Visible bool
}

// Serialize drains buf and returns the byte stream described in
// spec.md section 4.3: pre-VTE instructions, then for each chunk a
// cursor move, a style reset, a style diff from the previous chunk's
// trailing style, and the characters, then the sixel chunks, then
// post-VTE instructions. A second call on the same buffer, without an
// intervening Collect, returns nil since the buffer was already
// drained.
func Serialize(buf *ClientBuffer, cursor CursorState, sixels *SixelStore) []byte {
	if buf.IsEmpty() {
		return nil
	}
	defer perf.Time("output.serialize")()

	var out strings.Builder
	for _, pre := range buf.PreVTE {
		out.Write(pre)
	}

	var lastStyle vterm.Style
	var lastLink string
	for _, chunk := range buf.Chunks {
		fmt.Fprintf(&out, "\x1b[%d;%dH", chunk.Y+1, chunk.X+1)
		out.WriteString("\x1b[0m")
		if chunk.StylesPreceding != nil {
			lastStyle = *chunk.StylesPreceding
		} else {
			lastStyle = vterm.Style{}
		}
		for _, cell := range chunk.Cells {
			if cell.Style != lastStyle {
				out.WriteString(vterm.StyleToDeltaANSI(lastStyle, cell.Style))
				lastStyle = cell.Style
			}
			if cell.Link != lastLink {
				out.WriteString("\x1b]8;;")
				out.WriteString(cell.Link)
				out.WriteString("\x1b\\")
				lastLink = cell.Link
			}
			if cell.Rune == 0 {
				out.WriteRune(' ')
			} else {
				out.WriteRune(cell.Rune)
			}
		}
	}
	if lastLink != "" {
		out.WriteString("\x1b]8;;\x1b\\")
	}

	for _, sc := range buf.SixelChunks {
		if sixels == nil {
			continue
		}
		payload, ok := sixels.Get(sc.ImageID)
		sixels.Release(sc.ImageID)
		if !ok {
			continue
		}
		fmt.Fprintf(&out, "\x1b[%d;%dH", sc.Y+1, sc.X+1)
		out.Write(payload)
	}

	if cursor.Visible {
		fmt.Fprintf(&out, "\x1b[%d;%dH\x1b[?25h", cursor.Y+1, cursor.X+1)
	} else {
		out.WriteString("\x1b[?25l")
	}

	for _, post := range buf.PostVTE {
		out.Write(post)
	}

	buf.Reset()
	return []byte(out.String())
}

// CropChunks drops chunks outside maxSize, width-truncates chunks
// that cross the column boundary, and returns the surviving set,
// per spec.md section 4.3's serialize_with_size cropping rules.
func CropChunks(chunks []CharacterChunk, maxSize Size) []CharacterChunk {
	var out []CharacterChunk
	for _, c := range chunks {
		if c.Y >= maxSize.Rows || c.X >= maxSize.Cols {
			continue
		}
		if c.X+c.Width() > maxSize.Cols {
			c = truncateChunk(c, 0, maxSize.Cols-c.X)
			if c.Width() == 0 {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// PadForSmallerContent emits clear-to-EOL for each row between
// contentSize and maxSize, and a clear-from-cursor instruction at the
// first padded row, when the rendered content is smaller than the
// client's viewport.
func PadForSmallerContent(buf *ClientBuffer, contentSize, maxSize Size) {
	if contentSize.Rows >= maxSize.Rows && contentSize.Cols >= maxSize.Cols {
		return
	}
	row := contentSize.Rows
	if row < 0 {
		row = 0
	}
	for r := row; r < maxSize.Rows; r++ {
		buf.PostVTE = append(buf.PostVTE, fmt.Appendf(nil, "\x1b[%d;1H\x1b[K", r+1))
	}
	clear := fmt.Appendf(nil, "\x1b[%d;1H\x1b[0J", row+1)
	buf.PostVTE = append(buf.PostVTE, clear)
}

// CursorWithinBounds reports whether the cursor falls inside maxSize;
// callers should force the cursor hidden in the serialized stream
// when it does not.
func CursorWithinBounds(cursor CursorState, maxSize Size) bool {
	return cursor.X < maxSize.Cols && cursor.Y < maxSize.Rows
}
