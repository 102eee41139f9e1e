// Package errctx implements the Error Context Stack (spec.md section
// 4.10): a fixed-capacity, per-goroutine stack of typed frames that
// every session-router message handler pushes on entry, so a panic
// deep in a handler chain can be reported with the full path of
// message kinds it traveled through, not just the innermost frame.
package errctx

import (
	"fmt"
	"strings"
)

// MaxDepth bounds the stack so a runaway recursive dispatch can't
// grow it unboundedly; pushes beyond this silently drop the oldest
// frame, keeping the most recent (innermost) context.
const MaxDepth = 32

// Kind enumerates the message kinds the session router recognizes,
// one tag per frame.
type Kind int

const (
	KindUnknown Kind = iota
	KindClientInput
	KindPtyOutput
	KindScreenOp
	KindPtyWrite
	KindPluginHost
	KindBackgroundJob
	KindResize
	KindAttach
	KindDetach
)

func (k Kind) String() string {
	switch k {
	case KindClientInput:
		return "client-input"
	case KindPtyOutput:
		return "pty-output"
	case KindScreenOp:
		return "screen-op"
	case KindPtyWrite:
		return "pty-write"
	case KindPluginHost:
		return "plugin-host"
	case KindBackgroundJob:
		return "background-job"
	case KindResize:
		return "resize"
	case KindAttach:
		return "attach"
	case KindDetach:
		return "detach"
	default:
		return "unknown"
	}
}

// Frame is one entry in the stack: the message kind and a short
// human-readable detail (e.g. a pane ID or client ID).
type Frame struct {
	Kind   Kind
	Detail string
}

func (f Frame) String() string {
	if f.Detail == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", f.Kind, f.Detail)
}

// Stack is a fixed-capacity LIFO of Frames. The zero value is ready
// to use. Stack is not safe for concurrent use by multiple
// goroutines; each router worker owns its own Stack.
type Stack struct {
	frames []Frame
}

// Push adds a frame to the top of the stack, evicting the oldest
// frame if the stack is at MaxDepth.
func (s *Stack) Push(kind Kind, detail string) {
	if len(s.frames) >= MaxDepth {
		s.frames = s.frames[1:]
	}
	s.frames = append(s.frames, Frame{Kind: kind, Detail: detail})
}

// Pop removes the top frame. It is a no-op on an empty stack.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Frames returns a copy of the stack's frames, oldest first.
func (s *Stack) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Len reports the current depth.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Format renders the stack as a human-readable trace, innermost frame
// last, suitable for logging or reporting to an attached client.
func (s *Stack) Format() string {
	if len(s.frames) == 0 {
		return "<empty context>"
	}
	parts := make([]string, len(s.frames))
	for i, f := range s.frames {
		parts[i] = f.String()
	}
	return strings.Join(parts, " -> ")
}

// Enter pushes a frame and returns a function that pops it; intended
// to be used with defer at the top of a message handler:
//
//	defer errctx.Enter(&stack, errctx.KindScreenOp, "pane=3")()
func Enter(s *Stack, kind Kind, detail string) func() {
	s.Push(kind, detail)
	return s.Pop
}
