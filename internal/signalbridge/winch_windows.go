//go:build windows

package signalbridge

import "os"

// Windows has no SIGWINCH; resize is driven entirely by the initial
// size query Start performs, with no follow-up signal delivery.
func notifyWinch(sig chan os.Signal) {}
