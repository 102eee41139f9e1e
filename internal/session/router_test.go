package session

import (
	"strings"
	"testing"
	"time"

	"github.com/zmux-dev/zmux/internal/client"
	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/ipc"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("config.DefaultConfig: %v", err)
	}
	cfg.Paths.ConfigPath = t.TempDir() + "/config.json"
	cfg.DefaultShell = "cat"
	cfg.StartDir = t.TempDir()
	return cfg
}

func newTestRouter(t *testing.T) (*Router, *Session) {
	t.Helper()
	cfg := testConfig(t)
	sess, err := New("test", cfg)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(sess.Shutdown)
	return NewRouter(sess, cfg), sess
}

func TestAttachSizesSessionFromFirstClient(t *testing.T) {
	r, sess := newTestRouter(t)

	var got []ipc.ServerToClientMsg
	r.Attach("c1", 100, 40, func(msg ipc.ServerToClientMsg) error {
		got = append(got, msg)
		return nil
	})

	cols, rows := sess.Size()
	if cols != 100 || rows != 40 {
		t.Fatalf("session size = %dx%d, want 100x40", cols, rows)
	}
}

func TestDetachForgetsClient(t *testing.T) {
	r, sess := newTestRouter(t)
	r.Attach("c1", 80, 24, func(ipc.ServerToClientMsg) error { return nil })
	r.Detach("c1")

	if _, err := r.handle("c1"); err != ErrUnknownClient {
		t.Fatalf("handle after detach = %v, want ErrUnknownClient", err)
	}
	if idx := sess.ActiveTabIndex("c1"); idx != 0 {
		t.Fatalf("ActiveTabIndex after detach = %d, want default 0", idx)
	}
}

func TestDispatchSplitActionAddsPane(t *testing.T) {
	r, sess := newTestRouter(t)
	r.Attach("c1", 120, 24, func(ipc.ServerToClientMsg) error { return nil })

	err := r.Dispatch("c1", ipc.ClientToServerMsg{
		Action: &ipc.ActionMsg{Name: string(client.ActionSplitRight)},
	})
	if err != nil {
		t.Fatalf("Dispatch split: %v", err)
	}

	tabs := sess.Tabs()
	if len(tabs[0].Panes()) != 2 {
		t.Fatalf("expected 2 panes after split, got %d", len(tabs[0].Panes()))
	}
}

func TestDispatchKeyWritesToActivePane(t *testing.T) {
	r, sess := newTestRouter(t)
	r.Attach("c1", 80, 24, func(ipc.ServerToClientMsg) error { return nil })

	if err := r.Dispatch("c1", ipc.ClientToServerMsg{Key: &ipc.KeyMsg{Bytes: []byte("hello\n")}}); err != nil {
		t.Fatalf("Dispatch key: %v", err)
	}

	active, ok := sess.Tabs()[0].ActivePane("c1")
	if !ok {
		t.Fatal("no active pane")
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(strings.Join(active.Grid().GetAllLines(), "\n"), "hello") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("pane never echoed input")
}

func TestHandleResizeUpdatesClientViewport(t *testing.T) {
	r, sess := newTestRouter(t)
	r.Attach("c1", 80, 24, func(ipc.ServerToClientMsg) error { return nil })

	if err := r.Dispatch("c1", ipc.ClientToServerMsg{Resize: &ipc.ResizeMsg{Cols: 200, Rows: 60}}); err != nil {
		t.Fatalf("Dispatch resize: %v", err)
	}
	cols, rows := sess.Size()
	if cols != 200 || rows != 60 {
		t.Fatalf("session size after resize = %dx%d, want 200x60", cols, rows)
	}
}

func TestDispatchExitKillSessionInvokesCallback(t *testing.T) {
	r, _ := newTestRouter(t)
	r.Attach("c1", 80, 24, func(ipc.ServerToClientMsg) error { return nil })

	var reason string
	r.OnSessionExit = func(r string) { reason = r }

	if err := r.Dispatch("c1", ipc.ClientToServerMsg{Exit: &ipc.ExitMsg{KillSession: true}}); err != nil {
		t.Fatalf("Dispatch exit: %v", err)
	}
	if reason == "" {
		t.Fatal("OnSessionExit was not called")
	}
}

func TestRenderTickSendsDirtyOutput(t *testing.T) {
	r, sess := newTestRouter(t)

	var frames [][]byte
	r.Attach("c1", 80, 24, func(msg ipc.ServerToClientMsg) error {
		if msg.Render != nil {
			frames = append(frames, msg.Render.Bytes)
		}
		return nil
	})

	if err := r.Dispatch("c1", ipc.ClientToServerMsg{Key: &ipc.KeyMsg{Bytes: []byte("hi\n")}}); err != nil {
		t.Fatalf("Dispatch key: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(frames) == 0 {
		r.RenderTick()
		time.Sleep(10 * time.Millisecond)
	}
	if len(frames) == 0 {
		t.Fatal("RenderTick never produced output for a dirty pane")
	}
	_ = sess
}
