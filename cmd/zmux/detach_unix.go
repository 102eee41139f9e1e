//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// detach configures cmd to start in its own session, detached from
// this client's controlling terminal, so zmuxd outlives the attach
// command that spawned it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
