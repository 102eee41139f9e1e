package ipc

import (
	"bytes"
	"net"
	"os"
	"testing"
	"time"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	conn := NewConn(&buf)

	want := ClientToServerMsg{Key: &KeyMsg{Bytes: []byte("hello")}}
	if err := conn.WriteMessage(&want); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	var got ClientToServerMsg
	if err := conn.ReadMessage(&got); err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got.Key == nil || string(got.Key.Bytes) != "hello" {
		t.Fatalf("got %+v, want Key.Bytes=hello", got)
	}
}

func TestWriteReadMessageMultipleFrames(t *testing.T) {
	var buf bytes.Buffer
	conn := NewConn(&buf)

	msgs := []ClientToServerMsg{
		{Resize: &ResizeMsg{Cols: 80, Rows: 24}},
		{Paste: &PasteMsg{Data: []byte("paste me")}},
		{Exit: &ExitMsg{KillSession: true}},
	}
	for i := range msgs {
		if err := conn.WriteMessage(&msgs[i]); err != nil {
			t.Fatalf("WriteMessage %d: %v", i, err)
		}
	}

	for i := range msgs {
		var got ClientToServerMsg
		if err := conn.ReadMessage(&got); err != nil {
			t.Fatalf("ReadMessage %d: %v", i, err)
		}
		switch {
		case msgs[i].Resize != nil:
			if got.Resize == nil || *got.Resize != *msgs[i].Resize {
				t.Errorf("frame %d: got %+v, want %+v", i, got.Resize, msgs[i].Resize)
			}
		case msgs[i].Paste != nil:
			if got.Paste == nil || string(got.Paste.Data) != string(msgs[i].Paste.Data) {
				t.Errorf("frame %d: paste mismatch", i)
			}
		case msgs[i].Exit != nil:
			if got.Exit == nil || got.Exit.KillSession != msgs[i].Exit.KillSession {
				t.Errorf("frame %d: exit mismatch", i)
			}
		}
	}
}

func TestReadMessageRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	header := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	buf.Write(header)

	conn := NewConn(&buf)
	var got ClientToServerMsg
	if err := conn.ReadMessage(&got); err == nil {
		t.Fatal("expected an error for an oversized frame length")
	}
}

func TestListenAndDialUnixSocket(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/test.sock"

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	client, err := Dial(path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	select {
	case server := <-accepted:
		defer server.Close()
		serverConn := NewConn(server)
		clientConn := NewConn(client)

		if err := clientConn.WriteMessage(&ClientToServerMsg{Attach: &AttachMsg{SessionName: "main"}}); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
		var got ClientToServerMsg
		if err := serverConn.ReadMessage(&got); err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		if got.Attach == nil || got.Attach.SessionName != "main" {
			t.Fatalf("got %+v, want Attach.SessionName=main", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
}

func TestListenOverStaleSocketFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/stale.sock"

	// Simulate a crashed server's leftover socket file, which a real
	// unix listener does not create on its own (Close unlinks it).
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("seed stale socket file: %v", err)
	}

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen should remove the stale file and succeed: %v", err)
	}
	ln.Close()
}
