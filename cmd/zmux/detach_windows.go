//go:build windows

package main

import "os/exec"

// detach is a no-op on Windows, which has no Unix-style session
// concept; the spawned zmuxd still runs as an independent process
// since cmd.Process.Release is called right after Start.
func detach(cmd *exec.Cmd) {}
