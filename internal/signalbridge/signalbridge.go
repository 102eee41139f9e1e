// Package signalbridge implements the Signal/Resize Bridge (spec.md
// section 4.11): a dedicated worker on the attaching client that
// listens for window-change signals on the client's controlling
// terminal and reports the new size to the server.
package signalbridge

import (
	"os"
	"os/signal"

	"golang.org/x/term"
)

// Size is a terminal's column/row dimensions.
type Size struct {
	Cols, Rows int
}

// Bridge watches SIGWINCH on fd (normally os.Stdin's file descriptor)
// and delivers the new terminal size to OnResize. Call Stop to tear
// it down; the signal channel and goroutine are released.
type Bridge struct {
	fd       int
	sig      chan os.Signal
	done     chan struct{}
	OnResize func(Size)

	// getSize is overridden in tests to avoid depending on a real
	// controlling terminal; production code leaves it nil and falls
	// back to term.GetSize(fd).
	getSize func(fd int) (int, int, error)
}

// New creates a Bridge watching the terminal attached to fd. It does
// not start listening until Start is called.
func New(fd int, onResize func(Size)) *Bridge {
	return &Bridge{fd: fd, OnResize: onResize, getSize: term.GetSize}
}

// Start begins listening for SIGWINCH in a background goroutine and
// immediately delivers the current size once so the caller doesn't
// need a separate initial-size query.
func (b *Bridge) Start() {
	b.sig = make(chan os.Signal, 1)
	b.done = make(chan struct{})
	notifyWinch(b.sig)

	go func() {
		if size, ok := b.readSize(); ok {
			b.OnResize(size)
		}
		for {
			select {
			case <-b.sig:
				if size, ok := b.readSize(); ok {
					b.OnResize(size)
				}
			case <-b.done:
				return
			}
		}
	}()
}

// Stop releases the signal handler and stops the background
// goroutine.
func (b *Bridge) Stop() {
	if b.sig != nil {
		signal.Stop(b.sig)
	}
	if b.done != nil {
		close(b.done)
	}
}

func (b *Bridge) readSize() (Size, bool) {
	cols, rows, err := b.getSize(b.fd)
	if err != nil {
		return Size{}, false
	}
	return Size{Cols: cols, Rows: rows}, true
}
