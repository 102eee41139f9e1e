package vterm

// CsiDispatch implements Sink's CSI entry point: it dispatches a
// complete CSI sequence by its final byte.
func (v *VTerm) CsiDispatch(args CSIArgs) {
	switch args.Final {
	case 'A': // CUU - cursor up
		v.moveCursor(-args.Param(0, 1), 0)
	case 'B': // CUD - cursor down
		v.moveCursor(args.Param(0, 1), 0)
	case 'C': // CUF - cursor forward
		v.moveCursor(0, args.Param(0, 1))
	case 'D': // CUB - cursor back
		v.moveCursor(0, -args.Param(0, 1))
	case 'E': // CNL - cursor next line
		oldX, oldY := v.CursorX, v.CursorY
		v.CursorX = 0
		v.moveCursor(args.Param(0, 1), 0)
		v.bumpVersionIfCursorMoved(oldX, oldY)
	case 'F': // CPL - cursor previous line
		oldX, oldY := v.CursorX, v.CursorY
		v.CursorX = 0
		v.moveCursor(-args.Param(0, 1), 0)
		v.bumpVersionIfCursorMoved(oldX, oldY)
	case 'G': // CHA - cursor horizontal absolute
		oldX, oldY := v.CursorX, v.CursorY
		v.CursorX = args.Param(0, 1) - 1
		if v.CursorX < 0 {
			v.CursorX = 0
		}
		if v.CursorX >= v.Width {
			v.CursorX = v.Width - 1
		}
		v.bumpVersionIfCursorMoved(oldX, oldY)
	case 'H', 'f': // CUP - cursor position
		v.setCursorPos(args.Param(0, 1), args.Param(1, 1))
	case 'J': // ED - erase display
		v.eraseDisplay(args.Param(0, 0))
	case 'K': // EL - erase line
		v.eraseLine(args.Param(0, 0))
	case 'L': // IL - insert lines
		v.insertLines(args.Param(0, 1))
	case 'M': // DL - delete lines
		v.deleteLines(args.Param(0, 1))
	case 'P': // DCH - delete chars
		v.deleteChars(args.Param(0, 1))
	case 'S': // SU - scroll up
		v.scrollUp(args.Param(0, 1))
	case 'T': // SD - scroll down
		v.scrollDown(args.Param(0, 1))
	case 'X': // ECH - erase chars
		v.eraseChars(args.Param(0, 1))
	case '@': // ICH - insert chars
		v.insertChars(args.Param(0, 1))
	case 'd': // VPA - vertical position absolute
		oldX, oldY := v.CursorX, v.CursorY
		row := args.Param(0, 1)
		if v.OriginMode {
			v.CursorY = v.ScrollTop + row - 1
		} else {
			v.CursorY = row - 1
		}
		v.clampCursor()
		v.bumpVersionIfCursorMoved(oldX, oldY)
	case 'm': // SGR - select graphic rendition
		v.executeSGR(args.Params)
	case 'n': // DSR - device status report
		v.executeDSR(args.Params)
	case 'r': // DECSTBM - set scrolling region
		top := args.Param(0, 1)
		bottom := args.Param(1, v.Height)
		v.setScrollRegion(top, bottom)
	case 's': // SCP - save cursor position
		if args.Intermediate == 0 && args.CsiIntermediate == 0 {
			v.saveCursor()
		}
	case 'u': // RCP - restore cursor position
		if args.Intermediate == 0 && args.CsiIntermediate == 0 {
			v.restoreCursor()
		}
	case 'c': // DA - device attributes
		if args.Intermediate == '>' {
			// Secondary DA - report VT220
			v.respond([]byte("\x1b[>1;10;0c"))
		} else if args.Intermediate == 0 {
			// Primary DA - report VT220 with ANSI color
			v.respond([]byte("\x1b[?62;22c"))
		}
	case 'h': // SM/DECSET - set mode
		v.executeMode(args, true)
	case 'l': // RM/DECRST - reset mode
		v.executeMode(args, false)
	case 't': // Window operations
		// Ignore
	case 'p': // DECRQM - request mode report
		if args.Intermediate == '?' && args.CsiIntermediate == '$' {
			v.executeDECRQM(args.Params)
		}
	}
}
