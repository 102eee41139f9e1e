// Package pane implements the Pane Container (spec.md section 4.5):
// it binds a PTY handle to a Grid and a geometry, and owns per-pane
// scroll, search and selection state.
package pane

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/logging"
	"github.com/zmux-dev/zmux/internal/pty"
	"github.com/zmux-dev/zmux/internal/vterm"
)

// readChunk is the buffer size used when copying PTY output into the
// Grid, matching the teacher's terminal reader loop.
const readChunk = 32 * 1024

// CloseListener is invoked when a pane's child process exits and the
// pane is not held open. The Tab registers this to remove the pane
// from its layout.
type CloseListener func(p *Pane, exitCode int)

// Pane binds one PTY-backed child process to a vterm.Grid and a
// layout geometry.
type Pane struct {
	ID int

	mu      sync.Mutex
	term    *pty.Terminal
	grid    *vterm.VTerm
	geom    layout.PaneGeom
	title   string
	cwd     string
	command string

	// HoldOnExit keeps the final buffer visible with an exit-code
	// annotation instead of signalling the Tab to close the pane.
	HoldOnExit bool
	held       atomic.Bool
	exitCode   int

	closeOnce sync.Once
	onClose   CloseListener

	search *SearchState

	readDone chan struct{}
}

// Options configures a new Pane.
type Options struct {
	ID         int
	Command    string
	Dir        string
	Env        []string
	Rows, Cols int
	HoldOnExit bool
	OnClose    CloseListener
}

// New allocates a PTY for Options.Command, wires it to a fresh Grid
// sized Rows x Cols, and starts the PTY-output reader goroutine.
func New(opts Options) (*Pane, error) {
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}

	term, err := pty.NewWithSize(opts.Command, opts.Dir, opts.Env, uint16(opts.Rows), uint16(opts.Cols))
	if err != nil {
		return nil, fmt.Errorf("pane: failed to start pty: %w", err)
	}

	grid := vterm.New(opts.Cols, opts.Rows)
	grid.SetResponseWriter(func(b []byte) {
		_, _ = term.Write(b)
	})
	grid.ShowCursor = true

	p := &Pane{
		ID:         opts.ID,
		term:       term,
		grid:       grid,
		cwd:        opts.Dir,
		command:    opts.Command,
		HoldOnExit: opts.HoldOnExit,
		onClose:    opts.OnClose,
		readDone:   make(chan struct{}),
	}

	go p.readLoop()

	return p, nil
}

// Grid returns the underlying terminal grid. Callers must not mutate
// it without holding the Pane's own lock conventions (feed() is the
// only mutator driven by the PTY; everything else is read-mostly).
func (p *Pane) Grid() *vterm.VTerm { return p.grid }

// Geom returns the pane's last-assigned geometry.
func (p *Pane) Geom() layout.PaneGeom {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.geom
}

// SetGeom updates the pane's geometry and forwards the new rows/cols
// to the Grid (for reflow) and the PTY (via the OS window-size
// ioctl), per spec.md section 4.5.
func (p *Pane) SetGeom(g layout.PaneGeom) error {
	p.mu.Lock()
	p.geom = g
	p.mu.Unlock()

	if g.Cols <= 0 || g.Rows <= 0 {
		return nil
	}
	p.grid.Resize(g.Cols, g.Rows)
	return p.term.SetSize(uint16(g.Rows), uint16(g.Cols))
}

// Command returns the shell command line the pane's PTY was started
// with, as given to Options.Command, used by the resurrection
// serializer to re-launch the same command on resurrect.
func (p *Pane) Command() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.command
}

// Title returns the pane's title, set by OSC 0/1/2.
func (p *Pane) Title() string {
	if t := p.grid.Title; t != "" {
		return t
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Cwd returns the pane's best-effort working directory, updated by
// OSC 7.
func (p *Pane) Cwd() string {
	if c := p.grid.Cwd; c != "" {
		return c
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cwd
}

// Write sends client input bytes directly to the PTY. Writes after
// the pane is closed are silently discarded, per spec.md section
// 4.7's cancellation rules.
func (p *Pane) Write(b []byte) (int, error) {
	if p.held.Load() {
		return len(b), nil
	}
	n, err := p.term.Write(b)
	if err != nil {
		return n, nil // discard; pane close races are not user errors
	}
	return n, nil
}

// Held reports whether the pane's process has exited and is being
// kept visible because HoldOnExit was set.
func (p *Pane) Held() (held bool, exitCode int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held.Load(), p.exitCode
}

// Close closes the PTY and reaps the child process, per spec.md
// section 3's pane-destruction invariant.
func (p *Pane) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.term.Close()
		<-p.readDone
	})
	return err
}

func (p *Pane) readLoop() {
	defer close(p.readDone)
	buf := make([]byte, readChunk)
	for {
		n, err := p.term.Read(buf)
		if n > 0 {
			p.grid.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				logging.Debug("pane %d: pty read error: %v", p.ID, err)
			}
			p.onExit()
			return
		}
	}
}

func (p *Pane) onExit() {
	_ = p.term.Close()
	exitCode := p.term.ExitCode()
	if exitCode < 0 {
		exitCode = 0
	}
	p.mu.Lock()
	p.exitCode = exitCode
	p.mu.Unlock()

	if p.HoldOnExit {
		p.held.Store(true)
		p.grid.Write([]byte(fmt.Sprintf("\r\n[process exited with code %d]\r\n", exitCode)))
		return
	}
	if p.onClose != nil {
		p.onClose(p, exitCode)
	}
}
