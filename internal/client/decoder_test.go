package client

import "testing"

func TestDecodePrintableRune(t *testing.T) {
	d := NewDecoder()
	events := d.Feed([]byte("a"))
	if len(events) != 1 || events[0].Key.Rune != 'a' {
		t.Fatalf("got %+v", events)
	}
}

func TestDecodeCtrlLetter(t *testing.T) {
	d := NewDecoder()
	events := d.Feed([]byte{0x03}) // Ctrl+C
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	k := events[0].Key
	if k.Rune != 'c' || !k.Mod.Has(ModCtrl) {
		t.Fatalf("got %+v, want Rune=c Mod=Ctrl", k)
	}
}

func TestDecodeArrowKeysXtermStyle(t *testing.T) {
	d := NewDecoder()
	events := d.Feed([]byte("\x1b[A\x1b[B\x1b[C\x1b[D"))
	want := []KeyCode{KeyUp, KeyDown, KeyRight, KeyLeft}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Key.Code != w {
			t.Errorf("event %d: got %v, want %v", i, events[i].Key.Code, w)
		}
	}
}

func TestDecodeArrowKeysSS3Style(t *testing.T) {
	d := NewDecoder()
	events := d.Feed([]byte("\x1bOA"))
	if len(events) != 1 || events[0].Key.Code != KeyUp {
		t.Fatalf("got %+v", events)
	}
}

func TestDecodeKittyKeyboardProtocol(t *testing.T) {
	d := NewDecoder()
	// 'a' = 97, modifiers=5 is the bitmask plus one, so mask 4 = ctrl only
	events := d.Feed([]byte("\x1b[97;5u"))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	k := events[0].Key
	if k.Rune != 'a' || !k.Mod.Has(ModCtrl) {
		t.Fatalf("got %+v, want Rune=a Mod has Ctrl", k)
	}
}

func TestDecodeBracketedPaste(t *testing.T) {
	d := NewDecoder()
	events := d.Feed([]byte("\x1b[200~hello world\x1b[201~"))
	if len(events) != 1 || events[0].Kind != EventPaste {
		t.Fatalf("got %+v", events)
	}
	if string(events[0].Paste) != "hello world" {
		t.Fatalf("got paste %q, want %q", events[0].Paste, "hello world")
	}
}

func TestDecodeBracketedPasteContainingLoneEscape(t *testing.T) {
	d := NewDecoder()
	// A pasted "\x1bnot-a-terminator" should be preserved verbatim.
	events := d.Feed([]byte("\x1b[200~a\x1bxb\x1b[201~"))
	if len(events) != 1 || events[0].Kind != EventPaste {
		t.Fatalf("got %+v", events)
	}
	if string(events[0].Paste) != "a\x1bxb" {
		t.Fatalf("got paste %q", events[0].Paste)
	}
}

func TestDecodeSGRMousePressAndRelease(t *testing.T) {
	d := NewDecoder()
	events := d.Feed([]byte("\x1b[<0;10;20M\x1b[<0;10;20m"))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != EventMouse || events[0].Mouse.Kind != MousePress {
		t.Fatalf("event 0: got %+v, want press", events[0])
	}
	if events[0].Mouse.X != 9 || events[0].Mouse.Y != 19 {
		t.Fatalf("event 0: got coords %d,%d, want 9,19", events[0].Mouse.X, events[0].Mouse.Y)
	}
	if events[1].Mouse.Kind != MouseRelease {
		t.Fatalf("event 1: got %+v, want release", events[1])
	}
}

func TestDecodeFedAcrossMultipleCalls(t *testing.T) {
	d := NewDecoder()
	first := d.Feed([]byte("\x1b["))
	second := d.Feed([]byte("A"))
	if len(first) != 0 {
		t.Fatalf("partial sequence should not yet produce an event, got %+v", first)
	}
	if len(second) != 1 || second[0].Key.Code != KeyUp {
		t.Fatalf("got %+v, want KeyUp", second)
	}
}

func TestKeymapResolveRespectsMode(t *testing.T) {
	km := DefaultKeymap()
	if act := km.Resolve(ModeNormal, Key{Code: KeyRune, Rune: 'h'}); act != ActionNone {
		t.Fatalf("Normal mode should never resolve an action, got %v", act)
	}
	if act := km.Resolve(ModePane, Key{Code: KeyRune, Rune: 'h'}); act != ActionFocusLeft {
		t.Fatalf("got %v, want ActionFocusLeft", act)
	}
}

func TestKeymapOverride(t *testing.T) {
	km := DefaultKeymap()
	km.Override(ModePane, Key{Code: KeyRune, Rune: 'h'}, ActionClosePane)
	if act := km.Resolve(ModePane, Key{Code: KeyRune, Rune: 'h'}); act != ActionClosePane {
		t.Fatalf("override did not take effect, got %v", act)
	}
}

func TestStateFeedTracksMouseDrag(t *testing.T) {
	s := NewState("client-1", 80, 24, PaletteTrueColor)
	s.Feed([]byte("\x1b[<0;5;5M")) // press
	events := s.Feed([]byte("\x1b[<32;6;6M"))
	if len(events) != 1 || events[0].Mouse.Kind != MouseDrag {
		t.Fatalf("got %+v, want a drag event", events)
	}
	if events[0].Mouse.Button != MouseButtonLeft {
		t.Fatalf("drag should inherit the pressed button, got %v", events[0].Mouse.Button)
	}
}
