package vterm

import "fmt"

func (v *VTerm) executeDSR(params []int) {
	if len(params) == 0 {
		return
	}

	switch params[0] {
	case 5: // Status report - respond "OK"
		v.respond([]byte("\x1b[0n"))
	case 6: // Cursor position report
		// Response: ESC [ row ; col R (1-indexed)
		row := v.CursorY + 1
		col := v.CursorX + 1
		response := fmt.Sprintf("\x1b[%d;%dR", row, col)
		v.respond([]byte(response))
	}
}

func (v *VTerm) executeMode(args CSIArgs, set bool) {
	if args.Intermediate != '?' {
		return
	}

	for _, param := range args.Params {
		switch param {
		case 6: // DECOM - origin mode
			v.OriginMode = set
			v.CursorX = 0
			if set {
				v.CursorY = v.ScrollTop
			} else {
				v.CursorY = 0
			}
			v.clampCursor()
		case 1: // DECCKM - cursor keys mode
			// Ignore
		case 7: // DECAWM - auto-wrap mode
			// Always on
		case 12: // Blinking cursor
			// Ignore
		case 25: // DECTCEM - cursor visible
			hidden := !set
			prevHidden := v.CursorHiddenForRender()
			v.CursorHidden = hidden
			if prevHidden != v.CursorHiddenForRender() {
				v.bumpVersion()
			}
		case 47, 1047, 1049: // Alternate screen buffer
			if set {
				v.enterAltScreen()
			} else {
				v.exitAltScreen()
			}
		case 2026: // Synchronized output
			v.setSynchronizedOutput(set)
		case 2004: // Bracketed paste mode
			// Ignore
		}
	}
}

func (v *VTerm) executeDECRQM(params []int) {
	if len(params) == 0 {
		return
	}

	for _, param := range params {
		status := 0
		switch param {
		case 2026:
			if v.syncActive {
				status = 1
			} else {
				status = 2
			}
		default:
			status = 0
		}
		response := fmt.Sprintf("\x1b[?%d;%d$y", param, status)
		v.respond([]byte(response))
	}
}
