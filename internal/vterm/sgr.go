package vterm

// resetAttrs clears every boolean attribute and color back to the
// terminal default, used by SGR 0 and as the starting point RIS (ESC
// c) resets to.
func resetAttrs(s *Style) {
	*s = Style{}
}

// boolAttr toggles one of the eight boolean Style fields named by an
// SGR set/unset pair (e.g. 1/21 for bold, 4/24 for underline).
func boolAttr(field *bool, on bool) {
	*field = on
}

// executeSGR implements Sink's SGR handling, called from CsiDispatch.
func (v *VTerm) executeSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}

	style := &v.CurrentStyle
	for i := 0; i < len(params); i++ {
		switch param := params[i]; param {
		case 0:
			resetAttrs(style)
		case 1:
			boolAttr(&style.Bold, true)
		case 2:
			boolAttr(&style.Dim, true)
		case 3:
			boolAttr(&style.Italic, true)
		case 4:
			boolAttr(&style.Underline, true)
		case 5, 6: // slow and fast blink both map onto the one Blink field
			boolAttr(&style.Blink, true)
		case 7:
			boolAttr(&style.Reverse, true)
		case 8:
			boolAttr(&style.Hidden, true)
		case 9:
			boolAttr(&style.Strike, true)
		case 21:
			boolAttr(&style.Bold, false)
		case 22:
			boolAttr(&style.Bold, false)
			boolAttr(&style.Dim, false)
		case 23:
			boolAttr(&style.Italic, false)
		case 24:
			boolAttr(&style.Underline, false)
		case 25:
			boolAttr(&style.Blink, false)
		case 27:
			boolAttr(&style.Reverse, false)
		case 28:
			boolAttr(&style.Hidden, false)
		case 29:
			boolAttr(&style.Strike, false)
		case 39:
			style.Fg = Color{Type: ColorDefault}
		case 49:
			style.Bg = Color{Type: ColorDefault}
		case 38:
			i = parseExtendedColor(params, i, &style.Fg)
		case 48:
			i = parseExtendedColor(params, i, &style.Bg)
		default:
			if fg, ok := namedColorIndex(param, 30, 37); ok {
				style.Fg = Color{Type: ColorIndexed, Value: fg}
			} else if bg, ok := namedColorIndex(param, 40, 47); ok {
				style.Bg = Color{Type: ColorIndexed, Value: bg}
			} else if fg, ok := namedColorIndex(param, 90, 97); ok {
				style.Fg = Color{Type: ColorIndexed, Value: fg + 8}
			} else if bg, ok := namedColorIndex(param, 100, 107); ok {
				style.Bg = Color{Type: ColorIndexed, Value: bg + 8}
			}
		}
	}
}

// namedColorIndex reports whether param falls in [lo, hi] and, if so,
// its offset from lo -- the shared shape of SGR's four named-color
// ranges (30-37, 40-47, 90-97, 100-107).
func namedColorIndex(param, lo, hi int) (uint32, bool) {
	if param < lo || param > hi {
		return 0, false
	}
	return uint32(param - lo), true
}

// parseExtendedColor consumes the `5;n` (indexed) or `2;r;g;b` (RGB)
// tail following an SGR 38/48, returning the index of the last
// parameter it consumed. A malformed or truncated tail resets color
// to terminal default rather than leaving the previous color in
// place.
func parseExtendedColor(params []int, i int, color *Color) int {
	if i+1 >= len(params) {
		*color = Color{Type: ColorDefault}
		return i
	}

	switch mode := params[i+1]; mode {
	case 2: // RGB
		if i+4 < len(params) {
			r, g, b := params[i+2], params[i+3], params[i+4]
			color.Type = ColorRGB
			color.Value = uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			return i + 4
		}
	case 5: // 256-color indexed
		if i+2 < len(params) {
			color.Type = ColorIndexed
			color.Value = uint32(params[i+2])
			return i + 2
		}
	}

	*color = Color{Type: ColorDefault}
	return i + 1
}
