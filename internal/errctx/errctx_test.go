package errctx

import "testing"

func TestPushPopFormat(t *testing.T) {
	var s Stack
	s.Push(KindClientInput, "client=1")
	s.Push(KindScreenOp, "pane=3")

	if got, want := s.Format(), "client-input(client=1) -> screen-op(pane=3)"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	s.Pop()
	if s.Len() != 1 {
		t.Errorf("Len() after Pop = %d, want 1", s.Len())
	}
}

func TestEnterDefersPop(t *testing.T) {
	var s Stack
	func() {
		defer Enter(&s, KindPtyOutput, "pane=1")()
		if s.Len() != 1 {
			t.Fatalf("expected frame pushed inside the function, got len %d", s.Len())
		}
	}()
	if s.Len() != 0 {
		t.Errorf("expected frame popped after return, got len %d", s.Len())
	}
}

func TestPushEvictsOldestBeyondMaxDepth(t *testing.T) {
	var s Stack
	for i := 0; i < MaxDepth+5; i++ {
		s.Push(KindBackgroundJob, "")
	}
	if s.Len() != MaxDepth {
		t.Errorf("Len() = %d, want capped at %d", s.Len(), MaxDepth)
	}
}

func TestFormatEmptyStack(t *testing.T) {
	var s Stack
	if got := s.Format(); got != "<empty context>" {
		t.Errorf("Format() on empty stack = %q", got)
	}
}
