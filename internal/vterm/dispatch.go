package vterm

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VTerm implements Sink: the parser hands it a decoded instruction
// stream and VTerm is the only thing that knows what a cursor, a
// screen, or a style run actually are.

// Print writes one decoded character at the current cursor.
func (v *VTerm) Print(r rune) {
	v.putChar(r)
}

// Execute runs a single C0 control code.
func (v *VTerm) Execute(b byte) {
	switch b {
	case '\n':
		v.newline()
	case '\r':
		v.carriageReturn()
	case '\t':
		v.tab()
	case '\b':
		v.backspace()
	case 0x07: // Bell
		// Ignore
	case 0x0e: // SO - shift out, select G1
		v.shiftOut()
	case 0x0f: // SI - shift in, select G0
		v.shiftIn()
	}
}

// EscDispatch runs a single-byte escape sequence that isn't CSI, OSC,
// DCS, or a charset designation.
func (v *VTerm) EscDispatch(b byte) {
	switch b {
	case '7': // DECSC - save cursor
		v.saveCursor()
	case '8': // DECRC - restore cursor
		v.restoreCursor()
	case 'M': // RI - reverse index (scroll down)
		if v.CursorY == v.ScrollTop {
			v.scrollDown(1)
		} else if v.CursorY > 0 {
			v.CursorY--
		}
	case 'D': // IND - index (scroll up)
		v.newline()
	case 'E': // NEL - next line
		v.carriageReturn()
		v.newline()
	case 'c': // RIS - reset
		v.CurrentStyle = Style{}
		v.CursorX = 0
		v.CursorY = 0
	case '=', '>': // DECKPAM/DECKPNM (keypad modes)
		// Ignore
	}
}

// OscDispatch runs a complete OSC payload.
func (v *VTerm) OscDispatch(raw string) {
	idx := strings.IndexByte(raw, ';')
	if idx < 0 {
		return
	}
	switch raw[:idx] {
	case "0", "1", "2": // icon name / window title
		// Strip any embedded escape sequences a misbehaving application
		// smuggled into the title payload before it is stored; callers
		// (resurrection, status surfaces) read Title as plain text.
		v.Title = ansi.Strip(raw[idx+1:])
	case "7": // cwd, reported as a file:// URL
		v.Cwd = decodeOSC7Path(raw[idx+1:])
	case "8": // hyperlink anchor: "8;params;URI"
		v.CurrentLink = decodeOSC8URI(raw[idx+1:])
	}
}

// decodeOSC7Path strips the file://host prefix from an OSC 7 payload,
// returning just the path component.
func decodeOSC7Path(payload string) string {
	const scheme = "file://"
	if !strings.HasPrefix(payload, scheme) {
		return payload
	}
	rest := payload[len(scheme):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[i:]
	}
	return rest
}

// decodeOSC8URI extracts the URI from an OSC 8 payload of the form
// "params;URI" (params is an optional id=... list this terminal
// doesn't need to track). An empty URI closes the current hyperlink
// span.
func decodeOSC8URI(payload string) string {
	if i := strings.IndexByte(payload, ';'); i >= 0 {
		return payload[i+1:]
	}
	return ""
}

// DcsDispatch runs a complete DCS sequence. Only Sixel graphics ('q')
// are acted on; other DCS functions (DECRQSS, tmux passthrough) have
// no destination in this terminal and their payload is dropped.
func (v *VTerm) DcsDispatch(final byte, payload []byte) {
	if final == 'q' {
		v.handleSixelDCS(payload)
	}
}

// DesignateCharset assigns a character set to a G0-G3 slot.
func (v *VTerm) DesignateCharset(slot int, cs Charset) {
	v.designateCharset(slot, cs)
}
