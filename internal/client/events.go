package client

// EventKind discriminates the variant held by an Event.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouse
	EventPaste
)

// KeyCode names a non-printable key; for printable keys Rune holds
// the decoded codepoint and Code is KeyRune.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier is a bitmask of held modifier keys, populated from either
// the Kitty keyboard protocol's modifier parameter or legacy xterm
// modify-key parameters.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
)

func (m Modifier) Has(flag Modifier) bool { return m&flag != 0 }

// Key is a single decoded key event.
type Key struct {
	Code KeyCode
	Rune rune
	Mod  Modifier
}

// MouseEventKind distinguishes press, drag, release, and wheel.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseDrag
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

// MouseButton identifies which button a press/release/drag refers to.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

// Mouse is a single decoded mouse event in 0-based cell coordinates.
type Mouse struct {
	Kind   MouseEventKind
	Button MouseButton
	X, Y   int
	Mod    Modifier
}

// Event is a decoded input event: exactly one of Key, Mouse, or Paste
// is meaningful, selected by Kind.
type Event struct {
	Kind  EventKind
	Key   Key
	Mouse Mouse
	Paste []byte
}
