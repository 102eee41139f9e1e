package vterm

// Sink receives the decoded instruction stream produced by Parser.
// The state machine in parser.go knows nothing about grids, cursors,
// or screens: every effect it triggers crosses this interface, so the
// parser can run against any sink — the live VTerm, a headless
// recorder, a test double — without a compile-time dependency on grid
// internals.
type Sink interface {
	// Print writes one decoded character at the current cursor.
	Print(r rune)
	// Execute runs a single C0 control code (LF, CR, TAB, BS, BEL,
	// SO, SI).
	Execute(b byte)
	// CsiDispatch runs a complete CSI sequence.
	CsiDispatch(args CSIArgs)
	// OscDispatch runs a complete OSC payload: everything between the
	// "ESC ]" introducer and the terminating BEL/ST, exclusive.
	OscDispatch(raw string)
	// EscDispatch runs a single-byte escape sequence that is none of
	// CSI, OSC, DCS, or a charset designation (e.g. DECSC, RIS, NEL).
	EscDispatch(b byte)
	// DcsDispatch runs a complete DCS sequence: final is the function
	// identifier byte that closed the parameter section, payload is
	// the passthrough data preceding the terminating ST.
	DcsDispatch(final byte, payload []byte)
	// DesignateCharset assigns a character set to a G0-G3 slot
	// following ESC ( / ) / * / + and its finishing byte.
	DesignateCharset(slot int, cs Charset)
}

// CSIArgs carries one CSI sequence's parsed parameters and
// intermediate bytes across the Sink boundary, independent of
// Parser's own accumulation buffers.
type CSIArgs struct {
	Params []int
	// Final is the byte (0x40-0x7e) that closed the sequence and
	// selects which CSI function runs.
	Final byte
	// Intermediate is the leading private-marker byte ('?', '>',
	// '!', '<'), or 0 if none was present.
	Intermediate byte
	// CsiIntermediate is the trailing intermediate byte (0x20-0x2f,
	// e.g. '$' before DECRQM's 'p'), or 0 if none was present.
	CsiIntermediate byte
}

// Param returns the parameter at idx, or def when idx is out of range
// or the parameter is an explicit 0 — ECMA-48 treats an omitted or
// zero parameter as "use the default" for the CSI sequences this
// terminal implements.
func (a CSIArgs) Param(idx, def int) int {
	if idx < len(a.Params) && a.Params[idx] != 0 {
		return a.Params[idx]
	}
	return def
}
