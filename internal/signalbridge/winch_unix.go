//go:build !windows

package signalbridge

import (
	"os"
	"os/signal"
	"syscall"
)

func notifyWinch(sig chan os.Signal) {
	signal.Notify(sig, syscall.SIGWINCH)
}
