// Package output implements the Output Pipeline (spec.md section
// 4.3): per-client dirty-region diffing that serializes only changed
// character chunks, respecting per-client floating-pane occlusion and
// viewport size.
package output

import (
	"sync"

	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/vterm"
)

// CharacterChunk is one horizontal slice of one row: a run of cells
// at absolute tab coordinates (X, Y), plus the style the row carried
// immediately before this chunk began (used to seed the chunk's
// style diff after its style reset; when nil the diff starts from the
// default style).
type CharacterChunk struct {
	Cells           []vterm.Cell
	X, Y            int
	StylesPreceding *vterm.Style
}

// Width returns the number of display cells the chunk occupies.
func (c CharacterChunk) Width() int {
	w := 0
	for _, cell := range c.Cells {
		if cell.Width > 0 {
			w += cell.Width
		}
	}
	return w
}

// SixelImageChunk is a reference into a shared sixel image store,
// plus its destination cell rectangle within the tab.
type SixelImageChunk struct {
	ImageID       uint64
	X, Y          int
	Width, Height int
}

// SixelStore holds write-once sixel image payloads, refcounted so an
// image is garbage-collected once the last chunk referencing it has
// been serialized.
type SixelStore struct {
	mu     sync.Mutex
	nextID uint64
	images map[uint64][]byte
	refs   map[uint64]int
}

// NewSixelStore creates an empty store.
func NewSixelStore() *SixelStore {
	return &SixelStore{images: map[uint64][]byte{}, refs: map[uint64]int{}}
}

// Put stores a sixel payload and returns its ID with one reference
// held by the caller.
func (s *SixelStore) Put(payload []byte) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.images[id] = payload
	s.refs[id] = 1
	return id
}

// Retain adds a reference to an existing image (e.g. a new chunk
// pointing at the same image for another client).
func (s *SixelStore) Retain(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; ok {
		s.refs[id]++
	}
}

// Release drops a reference; once it reaches zero the image payload
// is discarded.
func (s *SixelStore) Release(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[id]--
	if s.refs[id] <= 0 {
		delete(s.refs, id)
		delete(s.images, id)
	}
}

// Get returns the stored payload for id.
func (s *SixelStore) Get(id uint64) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.images[id]
	return b, ok
}

// CropSixelChunks drops image chunks that fall entirely outside
// maxSize, releasing the store reference held for each one dropped so
// a sixel placed off a small client's viewport doesn't leak.
func CropSixelChunks(chunks []SixelImageChunk, maxSize Size, store *SixelStore) []SixelImageChunk {
	var out []SixelImageChunk
	for _, c := range chunks {
		if c.X >= maxSize.Cols || c.Y >= maxSize.Rows {
			if store != nil {
				store.Release(c.ImageID)
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// FloatingPanesStack is the ordered list of floating-pane geometries
// above the tiled layer for one client's view, topmost last.
type FloatingPanesStack struct {
	Layers []layout.PaneGeom
}

// Above returns the layers stacked strictly above paneZIndex (i.e.
// the panes that can occlude a chunk belonging to the pane at that
// z-index).
func (f FloatingPanesStack) Above(paneZIndex int) []layout.PaneGeom {
	if paneZIndex+1 >= len(f.Layers) {
		return nil
	}
	return f.Layers[paneZIndex+1:]
}

// Size is a rows x cols dimension, used for the client's own viewport
// and for the rendered content's own size before cropping.
type Size struct {
	Rows, Cols int
}

// Less reports whether s is smaller than other in either dimension.
func (s Size) Less(other Size) bool {
	return s.Rows < other.Rows || s.Cols < other.Cols
}

// ClientBuffer accumulates the per-client serialization buffers
// described in spec.md section 4.3: pre-VTE instructions (mode setup,
// emitted first), character chunks, sixel chunks, and post-VTE
// instructions (cursor position, cursor visibility).
type ClientBuffer struct {
	PreVTE      [][]byte
	Chunks      []CharacterChunk
	SixelChunks []SixelImageChunk
	PostVTE     [][]byte
}

// Reset clears the buffer, as Serialize does after draining it.
func (b *ClientBuffer) Reset() {
	b.PreVTE = nil
	b.Chunks = nil
	b.SixelChunks = nil
	b.PostVTE = nil
}

// IsEmpty reports whether the buffer has nothing to serialize.
func (b *ClientBuffer) IsEmpty() bool {
	return len(b.PreVTE) == 0 && len(b.Chunks) == 0 && len(b.SixelChunks) == 0 && len(b.PostVTE) == 0
}
