package vterm

import "testing"

func TestCharsetLineDrawingMapsQToHorizontalLine(t *testing.T) {
	vt := New(80, 24)

	// ESC ( 0 designates G0 as DEC Special Character and Line Drawing;
	// 'q' then renders as a horizontal line rather than the ASCII 'q'.
	vt.Write([]byte("\x1b(0q"))

	if got := vt.Screen[0][0].Rune; got != '─' {
		t.Errorf("Screen[0][0] = %q, want '─'", got)
	}
}

func TestCharsetShiftOutUsesG1(t *testing.T) {
	vt := New(80, 24)

	// Designate G1 as line drawing, leave G0 as ASCII, then SO selects
	// G1 so 'x' renders as a vertical bar; SI switches back to G0/ASCII.
	vt.Write([]byte("\x1b)0\x0ex"))
	if got := vt.Screen[0][0].Rune; got != '│' {
		t.Errorf("after SO, Screen[0][0] = %q, want '│'", got)
	}

	vt.Write([]byte("\x0fx"))
	if got := vt.Screen[0][1].Rune; got != 'x' {
		t.Errorf("after SI, Screen[0][1] = %q, want 'x'", got)
	}
}

func TestCharsetResetOnG0Ascii(t *testing.T) {
	vt := New(80, 24)

	vt.Write([]byte("\x1b(0q"))
	// Re-designate G0 as US ASCII; 'q' now prints literally.
	vt.Write([]byte("\x1b(Bq"))

	if got := vt.Screen[0][1].Rune; got != 'q' {
		t.Errorf("Screen[0][1] = %q, want 'q'", got)
	}
}
