package client

import "sync"

// StylePalette names the terminal's color capability, detected at
// attach time from $TERM and $COLORTERM, used by the output pipeline
// to downgrade RGB styles for clients that can't render them.
type StylePalette int

const (
	PaletteMonochrome StylePalette = iota
	Palette16
	Palette256
	PaletteTrueColor
)

// MouseState tracks the last seen mouse event, used to derive a drag
// gesture from a press followed by motion with no intervening
// release.
type MouseState struct {
	Pressed bool
	Button  MouseButton
	LastX   int
	LastY   int
}

// State is one attached client's mutable state: terminal size, color
// palette, current mode, pending paste accumulation, and mouse
// tracking. It is owned by the client's own input-handling worker;
// other workers only ever see messages derived from it, never the
// struct itself.
type State struct {
	mu sync.Mutex

	ClientID string
	Cols     int
	Rows     int
	Palette  StylePalette
	Mode     Mode
	Mouse    MouseState

	decoder *Decoder
}

// NewState creates per-client state for a freshly attached client.
func NewState(clientID string, cols, rows int, palette StylePalette) *State {
	return &State{
		ClientID: clientID,
		Cols:     cols,
		Rows:     rows,
		Palette:  palette,
		Mode:     ModeNormal,
		decoder:  NewDecoder(),
	}
}

// Resize updates the client's known terminal size.
func (s *State) Resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cols = cols
	s.Rows = rows
}

// SetMode switches the client's input-interpretation mode.
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mode = m
}

// GetMode returns the client's current input-interpretation mode.
func (s *State) GetMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Mode
}

// Feed decodes raw input bytes into events and updates mouse-drag
// tracking as a side effect.
func (s *State) Feed(data []byte) []Event {
	events := s.decoder.Feed(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range events {
		if events[i].Kind != EventMouse {
			continue
		}
		m := &events[i].Mouse
		switch m.Kind {
		case MousePress:
			s.Mouse.Pressed = true
			s.Mouse.Button = m.Button
		case MouseRelease:
			s.Mouse.Pressed = false
		case MouseDrag:
			if m.Button == MouseButtonNone && s.Mouse.Pressed {
				m.Button = s.Mouse.Button
			}
		}
		s.Mouse.LastX, s.Mouse.LastY = m.X, m.Y
	}
	return events
}
