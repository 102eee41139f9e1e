// Command zmux is the attach client: it puts the calling terminal
// into raw mode, dials the named session's Unix-domain socket
// (spawning zmuxd if no server is listening yet), and pumps bytes
// between the controlling terminal and the session server until
// detach, kill, or a switch-session instruction arrives.
//
// Kept as thin flag-wiring, with argument parsing kept minimal on
// purpose.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"golang.org/x/term"

	"github.com/zmux-dev/zmux/internal/client"
	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/ipc"
	"github.com/zmux-dev/zmux/internal/signalbridge"
)

var version = "dev"

// prefixByte is this client's leader key, Ctrl-B, matching the most
// common multiplexer convention. It's the thin CLI's own default
// rather than something internal/client hard-codes.
const prefixByte = 0x02

func main() {
	sessionFlag := flag.String("session", "", "session name to attach (default \"main\"; required when $ZMUX_SESSION_NAME is set)")
	socketFlag := flag.String("socket", "", "override the session's socket path")
	noSpawn := flag.Bool("no-spawn", false, "fail instead of spawning zmuxd if the session isn't running")
	flag.Parse()

	if os.Getenv("ZMUX_SESSION_NAME") != "" && *sessionFlag == "" {
		fmt.Fprintln(os.Stderr, "zmux: already attached to a session (ZMUX_SESSION_NAME is set); pass -session to nest deliberately")
		os.Exit(1)
	}

	name := *sessionFlag
	if name == "" {
		name = "main"
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zmux: resolve paths: %v\n", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "zmux: create directories: %v\n", err)
		os.Exit(1)
	}

	for {
		socketPath := *socketFlag
		if socketPath == "" {
			socketPath = paths.SocketPath(name)
		}

		if !*noSpawn {
			if err := ensureServer(socketPath, name); err != nil {
				fmt.Fprintf(os.Stderr, "zmux: start session %q: %v\n", name, err)
				os.Exit(1)
			}
		}

		switchTo, err := runAttached(socketPath, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zmux: %v\n", err)
			os.Exit(1)
		}
		if switchTo == "" {
			return
		}
		name = switchTo
		*socketFlag = ""
	}
}

// ensureServer dials socketPath to check for a live zmuxd; if none
// answers, it spawns one detached and waits for the socket to appear.
func ensureServer(socketPath, name string) error {
	if conn, err := net.Dial("unix", socketPath); err == nil {
		conn.Close()
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own executable: %w", err)
	}
	serverPath := exe + "d"
	if _, err := os.Stat(serverPath); err != nil {
		if found, lookErr := exec.LookPath("zmuxd"); lookErr == nil {
			serverPath = found
		} else {
			return fmt.Errorf("locate zmuxd binary: %w", err)
		}
	}

	cmd := exec.Command(serverPath, "-session", name)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn zmuxd: %w", err)
	}
	_ = cmd.Process.Release()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("unix", socketPath); err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("zmuxd did not create %s within 5s", socketPath)
}

// runAttached owns one full attachment lifecycle. It returns a
// non-empty session name if the server asked the client to switch
// sessions.
func runAttached(socketPath, name string) (switchTo string, err error) {
	conn, err := ipc.Dial(socketPath)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", socketPath, err)
	}
	defer conn.Close()
	framed := ipc.NewConn(conn)

	fd := int(os.Stdin.Fd())
	oldState, rawErr := term.MakeRaw(fd)
	if rawErr == nil {
		defer term.Restore(fd, oldState)
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		cols, rows = 80, 24
	}

	clientID := fmt.Sprintf("zmux-%d", os.Getpid())
	if err := framed.WriteMessage(ipc.ClientToServerMsg{Attach: &ipc.AttachMsg{
		SessionName: name,
		ClientID:    clientID,
		Cols:        cols,
		Rows:        rows,
	}}); err != nil {
		return "", fmt.Errorf("attach: %w", err)
	}

	bridge := signalbridge.New(fd, func(sz signalbridge.Size) {
		_ = framed.WriteMessage(ipc.ClientToServerMsg{Resize: &ipc.ResizeMsg{Cols: sz.Cols, Rows: sz.Rows}})
	})
	bridge.Start()
	defer bridge.Stop()

	exitReason := make(chan string, 1)
	switchSession := make(chan string, 1)
	go readServerLoop(framed, exitReason, switchSession)

	go pumpStdin(framed, conn)

	select {
	case reason := <-exitReason:
		if reason != "" {
			fmt.Fprintf(os.Stdout, "\r\n[zmux: session ended: %s]\r\n", reason)
		}
		return "", nil
	case next := <-switchSession:
		return next, nil
	}
}

// readServerLoop applies every ServerToClientMsg until the connection
// closes or the server sends Exit/SwitchSession.
func readServerLoop(framed *ipc.Conn, exitReason, switchSession chan<- string) {
	stdout := os.Stdout
	for {
		var msg ipc.ServerToClientMsg
		if err := framed.ReadMessage(&msg); err != nil {
			exitReason <- ""
			return
		}
		switch {
		case msg.Render != nil:
			_, _ = stdout.Write(msg.Render.Bytes)
		case msg.Exit != nil:
			exitReason <- msg.Exit.Reason
			return
		case msg.SwitchSession != nil:
			switchSession <- msg.SwitchSession.SessionName
			return
		case msg.Log != nil, msg.WriteConfig != nil:
			// Status-area notifications; the thin CLI has no status bar
			// of its own, so these are dropped.
		}
	}
}

// pumpStdin implements the client-side input pipeline: raw bytes
// forward to the PTY unmodified in Normal mode; the leader byte enters
// a mode, after which bytes are decoded and resolved against the
// keybinding table into Actions instead.
func pumpStdin(framed *ipc.Conn, conn net.Conn) {
	state := client.NewState("local", 80, 24, client.PaletteTrueColor)
	keymap := client.DefaultKeymap()
	decoder := client.NewDecoder()

	prefixPending := false
	buf := make([]byte, 4096)
	var pending []byte

	flush := func() {
		if len(pending) == 0 {
			return
		}
		_ = framed.WriteMessage(ipc.ClientToServerMsg{Key: &ipc.KeyMsg{Bytes: append([]byte(nil), pending...)}})
		pending = pending[:0]
	}

	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			flush()
			return
		}
		for _, b := range buf[:n] {
			mode := state.GetMode()

			if mode == client.ModeNormal {
				if prefixPending {
					prefixPending = false
					if detach := applyPrefixKey(state, b); detach {
						flush()
						_ = framed.WriteMessage(ipc.ClientToServerMsg{Exit: &ipc.ExitMsg{}})
						conn.Close()
						return
					}
					continue
				}
				if b == prefixByte {
					flush()
					prefixPending = true
					continue
				}
				pending = append(pending, b)
				continue
			}

			flush()
			for _, ev := range decoder.Feed([]byte{b}) {
				if ev.Kind != client.EventKey {
					continue
				}
				act := keymap.Resolve(mode, ev.Key)
				switch act {
				case client.ActionNone:
				case client.ActionEnterMode:
					state.SetMode(client.ModeNormal)
				default:
					_ = framed.WriteMessage(ipc.ClientToServerMsg{Action: &ipc.ActionMsg{Name: string(act)}})
				}
			}
		}
		flush()
	}
}

// applyPrefixKey resolves the byte following the leader key into a
// mode switch or a one-shot action, matching tmux's own default
// leader conventions closely enough to be familiar. It returns true
// if the key requested detach, which the caller handles itself so the
// terminal's raw-mode restoration (deferred in runAttached) still
// runs -- unlike os.Exit, which would skip it.
func applyPrefixKey(state *client.State, b byte) (detach bool) {
	switch b {
	case 'p':
		state.SetMode(client.ModePane)
	case 't':
		state.SetMode(client.ModeTab)
	case 'r':
		state.SetMode(client.ModeResize)
	case 's':
		state.SetMode(client.ModeScroll)
	case '/':
		state.SetMode(client.ModeSearch)
	case 'd':
		return true
	}
	return false
}
