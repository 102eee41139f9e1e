package client

// Decoder turns a raw byte stream from a controlling terminal into
// Key, Mouse, and Paste events. It first attempts the Kitty keyboard
// protocol (CSI number ; modifiers u); bytes that don't match fall
// through to a legacy xterm-style parser. Feed is safe to call with
// partial reads -- state carries across calls.
type Decoder struct {
	state decodeState

	params   []int
	paramBuf int
	hasParam bool
	private  byte // '<' for SGR mouse mode, 0 otherwise

	pasteBuf []byte
	pasteTerm int // bytes of the "\x1b[201~" terminator matched so far
}

type decodeState int

const (
	decGround decodeState = iota
	decEscape
	decSS3
	decCSI
	decPaste
)

// pasteTerminator is the bracketed-paste end marker; bytes observed
// while matching it are discarded only once the full marker is seen.
var pasteTerminator = []byte("\x1b[201~")

// NewDecoder creates an empty Decoder ready to consume a byte stream.
func NewDecoder() *Decoder {
	return &Decoder{params: make([]int, 0, 4)}
}

// Feed consumes data and returns every complete event recognized in
// it, in order.
func (d *Decoder) Feed(data []byte) []Event {
	var events []Event
	for _, b := range data {
		if ev, ok := d.feedByte(b); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (d *Decoder) feedByte(b byte) (Event, bool) {
	switch d.state {
	case decGround:
		return d.ground(b)
	case decEscape:
		return d.escape(b)
	case decSS3:
		return d.ss3(b)
	case decCSI:
		return d.csi(b)
	case decPaste:
		return d.paste(b)
	}
	return Event{}, false
}

func (d *Decoder) ground(b byte) (Event, bool) {
	switch {
	case b == 0x1b:
		d.state = decEscape
		return Event{}, false
	case b == '\r' || b == '\n':
		return keyEvent(Key{Code: KeyEnter}), true
	case b == '\t':
		return keyEvent(Key{Code: KeyTab}), true
	case b == 0x7f || b == 0x08:
		return keyEvent(Key{Code: KeyBackspace}), true
	case b < 0x20:
		// C0 control other than ESC/CR/LF/TAB: Ctrl+letter.
		return keyEvent(Key{Code: KeyRune, Rune: rune(b | 0x60), Mod: ModCtrl}), true
	default:
		return keyEvent(Key{Code: KeyRune, Rune: rune(b)}), true
	}
}

func (d *Decoder) escape(b byte) (Event, bool) {
	switch b {
	case '[':
		d.state = decCSI
		d.params = d.params[:0]
		d.paramBuf = 0
		d.hasParam = false
		d.private = 0
		return Event{}, false
	case 'O':
		d.state = decSS3
		return Event{}, false
	default:
		d.state = decGround
		return keyEvent(Key{Code: KeyRune, Rune: rune(b), Mod: ModAlt}), true
	}
}

func (d *Decoder) ss3(b byte) (Event, bool) {
	d.state = decGround
	switch b {
	case 'A':
		return keyEvent(Key{Code: KeyUp}), true
	case 'B':
		return keyEvent(Key{Code: KeyDown}), true
	case 'C':
		return keyEvent(Key{Code: KeyRight}), true
	case 'D':
		return keyEvent(Key{Code: KeyLeft}), true
	case 'H':
		return keyEvent(Key{Code: KeyHome}), true
	case 'F':
		return keyEvent(Key{Code: KeyEnd}), true
	case 'P':
		return keyEvent(Key{Code: KeyF1}), true
	case 'Q':
		return keyEvent(Key{Code: KeyF2}), true
	case 'R':
		return keyEvent(Key{Code: KeyF3}), true
	case 'S':
		return keyEvent(Key{Code: KeyF4}), true
	}
	return Event{}, false
}

func (d *Decoder) csi(b byte) (Event, bool) {
	switch {
	case b == '<' && len(d.params) == 0 && !d.hasParam:
		d.private = '<'
		return Event{}, false
	case b >= '0' && b <= '9':
		d.paramBuf = d.paramBuf*10 + int(b-'0')
		d.hasParam = true
		return Event{}, false
	case b == ';' || b == ':':
		d.params = append(d.params, d.paramBuf)
		d.paramBuf = 0
		d.hasParam = false
		return Event{}, false
	default:
		if d.hasParam || len(d.params) == 0 {
			d.params = append(d.params, d.paramBuf)
		}
		return d.csiFinal(b)
	}
}

func (d *Decoder) csiFinal(final byte) (Event, bool) {
	params := d.params
	private := d.private
	d.state = decGround

	switch final {
	case 'A':
		return keyEvent(Key{Code: KeyUp, Mod: legacyMod(params, 1)}), true
	case 'B':
		return keyEvent(Key{Code: KeyDown, Mod: legacyMod(params, 1)}), true
	case 'C':
		return keyEvent(Key{Code: KeyRight, Mod: legacyMod(params, 1)}), true
	case 'D':
		return keyEvent(Key{Code: KeyLeft, Mod: legacyMod(params, 1)}), true
	case 'H':
		return keyEvent(Key{Code: KeyHome}), true
	case 'F':
		return keyEvent(Key{Code: KeyEnd}), true
	case 'u':
		return d.kittyKey(params)
	case '~':
		return d.tildeKey(params)
	case 'M', 'm':
		if private == '<' && len(params) >= 3 {
			return sgrMouse(params, final == 'M'), true
		}
		return Event{}, false
	}
	return Event{}, false
}

func (d *Decoder) kittyKey(params []int) (Event, bool) {
	if len(params) == 0 {
		return Event{}, false
	}
	code := params[0]
	mod := Modifier(0)
	if len(params) > 1 && params[1] > 1 {
		mod = kittyMod(params[1] - 1)
	}
	if kc, ok := kittyFunctional(code); ok {
		return keyEvent(Key{Code: kc, Mod: mod}), true
	}
	return keyEvent(Key{Code: KeyRune, Rune: rune(code), Mod: mod}), true
}

func (d *Decoder) tildeKey(params []int) (Event, bool) {
	if len(params) == 0 {
		return Event{}, false
	}
	switch params[0] {
	case 200:
		d.state = decPaste
		d.pasteBuf = d.pasteBuf[:0]
		return Event{}, false
	case 2:
		return keyEvent(Key{Code: KeyInsert}), true
	case 3:
		return keyEvent(Key{Code: KeyDelete}), true
	case 5:
		return keyEvent(Key{Code: KeyPageUp}), true
	case 6:
		return keyEvent(Key{Code: KeyPageDown}), true
	case 15:
		return keyEvent(Key{Code: KeyF5}), true
	case 17:
		return keyEvent(Key{Code: KeyF6}), true
	case 18:
		return keyEvent(Key{Code: KeyF7}), true
	case 19:
		return keyEvent(Key{Code: KeyF8}), true
	case 20:
		return keyEvent(Key{Code: KeyF9}), true
	case 21:
		return keyEvent(Key{Code: KeyF10}), true
	case 23:
		return keyEvent(Key{Code: KeyF11}), true
	case 24:
		return keyEvent(Key{Code: KeyF12}), true
	}
	return Event{}, false
}

// paste accumulates bytes until the bracketed-paste terminator
// ESC[201~ is matched. A byte that breaks a partial match is flushed
// back into the paste content verbatim, since pasted text may itself
// contain a lone ESC that isn't the start of a real terminator.
func (d *Decoder) paste(b byte) (Event, bool) {
	if b == pasteTerminator[d.pasteTerm] {
		d.pasteTerm++
		if d.pasteTerm == len(pasteTerminator) {
			d.pasteTerm = 0
			d.state = decGround
			text := d.pasteBuf
			d.pasteBuf = nil
			return Event{Kind: EventPaste, Paste: text}, true
		}
		return Event{}, false
	}
	if d.pasteTerm > 0 {
		d.pasteBuf = append(d.pasteBuf, pasteTerminator[:d.pasteTerm]...)
		d.pasteTerm = 0
		// b itself may still start a fresh match attempt.
		return d.paste(b)
	}
	d.pasteBuf = append(d.pasteBuf, b)
	return Event{}, false
}

func keyEvent(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

func legacyMod(params []int, base int) Modifier {
	if len(params) < 2 {
		return 0
	}
	return kittyMod(params[1] - base)
}

func kittyMod(bits int) Modifier {
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	if bits&8 != 0 {
		m |= ModSuper
	}
	return m
}

func kittyFunctional(code int) (KeyCode, bool) {
	switch code {
	case 13:
		return KeyEnter, true
	case 9:
		return KeyTab, true
	case 27:
		return KeyEscape, true
	case 127:
		return KeyBackspace, true
	}
	return 0, false
}

func sgrMouse(params []int, pressed bool) Event {
	btnCode := params[0]
	x := params[1] - 1
	y := params[2] - 1
	mod := kittyMod((btnCode >> 2) & 0x7)

	m := Mouse{X: x, Y: y, Mod: mod}
	switch {
	case btnCode&64 != 0:
		if btnCode&1 != 0 {
			m.Kind = MouseWheelDown
		} else {
			m.Kind = MouseWheelUp
		}
	case btnCode&32 != 0:
		m.Kind = MouseDrag
		m.Button = mouseButton(btnCode & 3)
	case !pressed:
		m.Kind = MouseRelease
		m.Button = mouseButton(btnCode & 3)
	default:
		m.Kind = MousePress
		m.Button = mouseButton(btnCode & 3)
	}
	return Event{Kind: EventMouse, Mouse: m}
}

func mouseButton(code int) MouseButton {
	switch code {
	case 0:
		return MouseButtonLeft
	case 1:
		return MouseButtonMiddle
	case 2:
		return MouseButtonRight
	}
	return MouseButtonNone
}
