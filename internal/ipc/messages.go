// Package ipc implements the Server IPC transport (spec.md section
// 6): length-prefixed, gob-encoded tagged messages over a Unix-domain
// socket, in the two enums ClientToServerMsg and ServerToClientMsg.
// No CBOR library exists anywhere in the retrieval pack; encoding/gob
// is the idiomatic stdlib stand-in. Each enum is a struct with one
// nil-able pointer field per variant (exactly one set per message),
// framed by a hand-rolled 4-byte length header matching the
// teacher's own direct os.File read/write style in
// internal/pty/terminal.go.
package ipc

// ClientToServerMsg is the sum type of every message a client sends
// to the session server.
type ClientToServerMsg struct {
	Attach      *AttachMsg
	Key         *KeyMsg
	Action      *ActionMsg
	Resize      *ResizeMsg
	Exit        *ExitMsg
	Paste       *PasteMsg
	ConfigWrite *ConfigWriteMsg
}

// AttachMsg requests attachment to a named session.
type AttachMsg struct {
	SessionName string
	ClientID    string
	Cols, Rows  int
}

// KeyMsg carries one decoded key event's raw PTY-bound bytes (Normal
// mode); keys resolved to an action travel as ActionMsg instead --
// see internal/client's input decoding pipeline.
type KeyMsg struct {
	Bytes []byte
}

// ActionMsg carries a keybinding-resolved action (e.g. "split_right",
// "close_pane") rather than raw bytes.
type ActionMsg struct {
	Name string
	Args []string
}

// ResizeMsg reports the client's new terminal size.
type ResizeMsg struct {
	Cols, Rows int
}

// ExitMsg requests the client detach or the session exit.
type ExitMsg struct {
	KillSession bool
}

// PasteMsg carries bracketed-paste content.
type PasteMsg struct {
	Data []byte
}

// ConfigWriteMsg asks the server to persist a settings change to
// disk.
type ConfigWriteMsg struct {
	Key   string
	Value string
}

// ServerToClientMsg is the sum type of every message the session
// server sends to an attached client.
type ServerToClientMsg struct {
	Render        *RenderMsg
	Exit          *ExitReasonMsg
	SwitchSession *SwitchSessionMsg
	WriteConfig   *WriteConfigMsg
	Log           *LogMsg
}

// RenderMsg carries one client's serialized output-pipeline bytes.
type RenderMsg struct {
	Bytes []byte
}

// ExitReasonMsg tells the client why its session ended.
type ExitReasonMsg struct {
	Reason string
}

// SwitchSessionMsg instructs the client to reconnect to a different
// session name (the client's reconnect loop transitions Attached ->
// Switching -> Connecting).
type SwitchSessionMsg struct {
	SessionName string
}

// WriteConfigMsg echoes a persisted config change back to the client.
type WriteConfigMsg struct {
	Key   string
	Value string
}

// LogMsg carries a server-side log line for display in the client's
// status area.
type LogMsg struct {
	Level string
	Text  string
}
