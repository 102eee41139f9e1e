package pane

import (
	"strings"
	"testing"
	"time"

	"github.com/zmux-dev/zmux/internal/layout"
)

func waitForContent(t *testing.T, p *Pane, substr string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %q in grid output", substr)
		default:
		}
		if strings.Contains(strings.Join(p.grid.GetAllLines(), "\n"), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPaneEchoesToGrid(t *testing.T) {
	p, err := New(Options{ID: 1, Command: "echo hello-pane", Dir: t.TempDir(), Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	waitForContent(t, p, "hello-pane")
}

func TestPaneSetGeomResizesGrid(t *testing.T) {
	p, err := New(Options{ID: 1, Command: "cat", Dir: t.TempDir(), Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if err := p.SetGeom(layout.PaneGeom{Cols: 40, Rows: 12}); err != nil {
		t.Fatalf("SetGeom: %v", err)
	}
	if p.Grid().Width != 40 || p.Grid().Height != 12 {
		t.Errorf("grid size = %dx%d, want 40x12", p.Grid().Width, p.Grid().Height)
	}
}

func TestPaneHoldOnExit(t *testing.T) {
	closed := false
	p, err := New(Options{
		ID: 1, Command: "true", Dir: t.TempDir(), Rows: 24, Cols: 80,
		HoldOnExit: true,
		OnClose:    func(*Pane, int) { closed = true },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	waitForHeld(t, p)

	held, _ := p.Held()
	if !held {
		t.Error("pane should be held after process exit")
	}
	if closed {
		t.Error("OnClose should not fire when HoldOnExit is set")
	}
}

func waitForHeld(t *testing.T, p *Pane) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for pane to become held")
		default:
		}
		if held, _ := p.Held(); held {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPaneClosesOnExitWithoutHold(t *testing.T) {
	done := make(chan int, 1)
	p, err := New(Options{
		ID: 1, Command: "true", Dir: t.TempDir(), Rows: 24, Cols: 80,
		OnClose: func(_ *Pane, code int) { done <- code },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnClose")
	}
}

func TestSearchWrap(t *testing.T) {
	p, err := New(Options{ID: 1, Command: "printf 'foo\\nbar\\nfoo\\n'", Dir: t.TempDir(), Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	waitForContent(t, p, "foo")

	s := p.SetSearch("foo", SearchFlags{Wrap: true})
	if len(s.Matches) < 2 {
		t.Fatalf("expected at least 2 matches for 'foo', got %d", len(s.Matches))
	}
	if s.Active != 0 {
		t.Fatalf("Active = %d, want 0", s.Active)
	}
	last := p.SearchPrev()
	if last.Active != len(last.Matches)-1 {
		t.Errorf("SearchPrev should wrap to last match, got Active=%d", last.Active)
	}
}
