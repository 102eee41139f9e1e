// Package clipboard implements the copy destinations of spec.md
// section 4.12: the system clipboard, the X11 primary selection, and
// a user-configured external command fed via stdin.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Destination selects where a completed selection's text is sent.
type Destination int

const (
	System Destination = iota
	Primary
	Pipe
)

func (d Destination) String() string {
	switch d {
	case Primary:
		return "primary"
	case Pipe:
		return "pipe"
	default:
		return "system"
	}
}

// ParseDestination maps a config string ("system", "primary", "pipe")
// to a Destination, defaulting to System for anything unrecognized.
func ParseDestination(s string) Destination {
	switch s {
	case "primary":
		return Primary
	case "pipe":
		return Pipe
	default:
		return System
	}
}

// Copier delivers selected text to one of the three destinations
// described in spec.md section 4.12.
type Copier struct {
	// PipeCommand is the external command run for the Pipe
	// destination; the selected text is written to its stdin.
	PipeCommand []string
}

// Copy strips any style information (the caller is expected to have
// already extracted plain text from the Grid) and delivers it to
// dest.
func (c *Copier) Copy(text string, dest Destination) error {
	switch dest {
	case System:
		return copySystem(text)
	case Primary:
		return copyPrimary(text)
	case Pipe:
		return c.copyPipe(text)
	default:
		return fmt.Errorf("clipboard: unknown destination %v", dest)
	}
}

// copySystem mirrors the teacher's macOS pbcopy-first strategy,
// falling back to the cross-platform library for other platforms or
// if pbcopy is unavailable.
func copySystem(text string) error {
	if runtime.GOOS == "darwin" {
		cmd := exec.Command("pbcopy")
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	return clipboard.WriteAll(text)
}

// copyPrimary writes to the X11 primary selection via xsel/xclip
// where available; it is a no-op error on platforms without an X11
// primary selection (macOS, Windows).
func copyPrimary(text string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("clipboard: primary selection is only supported on linux")
	}
	if path, err := exec.LookPath("xsel"); err == nil {
		cmd := exec.Command(path, "--primary", "--input")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	if path, err := exec.LookPath("xclip"); err == nil {
		cmd := exec.Command(path, "-selection", "primary")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	return fmt.Errorf("clipboard: no xsel or xclip found for primary selection")
}

func (c *Copier) copyPipe(text string) error {
	if len(c.PipeCommand) == 0 {
		return fmt.Errorf("clipboard: no pipe command configured")
	}
	cmd := exec.Command(c.PipeCommand[0], c.PipeCommand[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
