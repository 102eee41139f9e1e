// Command zmuxd is the session server: it owns one Session, listens
// on a Unix-domain socket named after the session, and optionally a
// browser bridge (internal/webbridge). It is deliberately thin --
// flag.Parse, wire into the core, run -- with argument parsing kept
// minimal on purpose.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/ipc"
	"github.com/zmux-dev/zmux/internal/logging"
	"github.com/zmux-dev/zmux/internal/resurrect"
	"github.com/zmux-dev/zmux/internal/safego"
	"github.com/zmux-dev/zmux/internal/session"
	"github.com/zmux-dev/zmux/internal/supervisor"
	"github.com/zmux-dev/zmux/internal/webbridge"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	sessionName := flag.String("session", defaultSessionName(), "session name; also selects the socket and resurrection file")
	webAddr := flag.String("web-addr", "", "if set, serve the browser bridge on this address, e.g. 127.0.0.1:8080")
	webToken := flag.String("web-token", "", "bearer token for the browser bridge; if empty one is minted and stored in the OS keychain")
	resurrectOn := flag.Bool("resurrect", true, "write a resurrection file on clean shutdown and every 30 seconds")
	flag.Parse()

	if *sessionName == "" {
		fmt.Fprintln(os.Stderr, "zmuxd: -session must not be empty")
		os.Exit(1)
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zmuxd: resolve paths: %v\n", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "zmuxd: create directories: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(paths.LogDir, logging.LevelInfo); err != nil {
		fmt.Fprintf(os.Stderr, "zmuxd: warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()

	logging.Info("zmuxd %s (commit %s) starting session %q", version, commit, *sessionName)

	cfg, err := config.DefaultConfig()
	if err != nil {
		logging.Error("zmuxd: resolve config: %v", err)
		os.Exit(1)
	}
	cfg.Paths = paths

	sess, err := openOrResurrect(*sessionName, cfg, paths)
	if err != nil {
		logging.Error("zmuxd: start session: %v", err)
		os.Exit(1)
	}

	router := session.NewRouter(sess, cfg)

	sup := supervisor.New(context.Background())
	sup.SetErrorHandler(func(name string, err error) {
		logging.Error("zmuxd: worker %s: %v", name, err)
	})
	safego.SetPanicHandler(func(name string, recovered any, stack []byte) {
		logging.Error("zmuxd: panic in %s: %v\n%s", name, recovered, stack)
	})

	socketPath := paths.SocketPath(*sessionName)
	ln, err := ipc.Listen(socketPath)
	if err != nil {
		logging.Error("zmuxd: listen: %v", err)
		os.Exit(1)
	}
	logging.Info("zmuxd: listening on %s", socketPath)

	shutdown := make(chan string, 1)
	router.OnSessionExit = func(reason string) {
		select {
		case shutdown <- reason:
		default:
		}
	}

	sup.Start("screen", func(ctx context.Context) error {
		router.Run(ctx.Done())
		return nil
	}, supervisor.WithRestartPolicy(supervisor.RestartNever))

	sup.Start("ipc-accept", func(ctx context.Context) error {
		return acceptLoop(ctx, ln, router)
	}, supervisor.WithRestartPolicy(supervisor.RestartOnError))

	if *webAddr != "" {
		token := *webToken
		if token == "" {
			token, err = webbridge.LoadOrCreateToken(*sessionName)
			if err != nil {
				logging.Warn("zmuxd: load bridge token: %v", err)
			}
		}
		bridge := webbridge.NewServer(version, token, func(name string) (*session.Router, bool) {
			if name != "" && name != *sessionName {
				return nil, false
			}
			return router, true
		}, func(reason string) {
			select {
			case shutdown <- reason:
			default:
			}
		})
		sup.Start("webbridge", func(ctx context.Context) error {
			err := bridge.ListenAndServe(ctx, *webAddr)
			if ctx.Err() != nil {
				return nil
			}
			return err
		}, supervisor.WithRestartPolicy(supervisor.RestartOnError))
	}

	if *resurrectOn {
		sup.Start("resurrect-snapshot", func(ctx context.Context) error {
			periodicSnapshot(ctx, paths, *sessionName, router)
			return nil
		}, supervisor.WithRestartPolicy(supervisor.RestartNever))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var reason string
	select {
	case reason = <-shutdown:
	case s := <-sig:
		reason = "signal " + s.String()
	}

	logging.Info("zmuxd: shutting down (%s)", reason)
	if *resurrectOn {
		if err := snapshotNow(paths, *sessionName, router); err != nil {
			logging.Warn("zmuxd: final resurrection snapshot: %v", err)
		}
	}
	sup.Stop()
	sess.Shutdown()
	ln.Close()
	os.Remove(socketPath)
	logging.Info("zmuxd: shutdown complete")
}

func defaultSessionName() string {
	if n := os.Getenv("ZMUX_SESSION_NAME"); n != "" {
		return n
	}
	return "main"
}

// openOrResurrect loads the named session's resurrection document if
// one exists and rebuilds the session from it; otherwise it starts a
// fresh single-tab session.
func openOrResurrect(name string, cfg *config.Config, paths *config.Paths) (*session.Session, error) {
	if resurrect.Exists(paths, name) {
		doc, err := resurrect.Read(paths, name)
		if err != nil {
			logging.Warn("zmuxd: resurrection file for %q unreadable, starting fresh: %v", name, err)
			return session.New(name, cfg)
		}
		sess, err := session.NewFromResurrection(name, cfg, doc)
		if err != nil {
			logging.Warn("zmuxd: resurrect %q failed, starting fresh: %v", name, err)
			return session.New(name, cfg)
		}
		logging.Info("zmuxd: resurrected session %q from %s", name, paths.ResurrectionPath(name))
		return sess, nil
	}
	return session.New(name, cfg)
}

func snapshotNow(paths *config.Paths, name string, router *session.Router) error {
	doc := resurrect.BuildDocument(router.Snapshot())
	return resurrect.Write(paths, name, doc)
}

// resurrectSnapshotInterval bounds how often the resurrection file is
// rewritten in the background, independent of the clean-shutdown
// write that always happens on the way out.
const resurrectSnapshotInterval = 30 * time.Second

func periodicSnapshot(ctx context.Context, paths *config.Paths, name string, router *session.Router) {
	ticker := time.NewTicker(resurrectSnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := snapshotNow(paths, name, router); err != nil {
				logging.Debug("zmuxd: periodic resurrection snapshot: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// acceptLoop accepts IPC connections until ctx is canceled, handling
// each on its own goroutine, one worker per attached client.
func acceptLoop(ctx context.Context, ln net.Listener, router *session.Router) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		safego.Go("ipc-client", func() {
			handleConn(conn, router)
		})
	}
}

// handleConn services one IPC connection end to end: it blocks for
// the client's AttachMsg, then pumps ClientToServerMsg into the
// router and ServerToClientMsg back out, until the connection closes.
func handleConn(conn net.Conn, router *session.Router) {
	defer conn.Close()
	framed := ipc.NewConn(conn)

	var first ipc.ClientToServerMsg
	if err := framed.ReadMessage(&first); err != nil {
		return
	}
	if first.Attach == nil {
		logging.Warn("zmuxd: first message from %s was not Attach", conn.RemoteAddr())
		return
	}
	clientID := first.Attach.ClientID
	if clientID == "" {
		clientID = conn.RemoteAddr().String()
	}

	outbound := make(chan ipc.ServerToClientMsg, 64)
	done := make(chan struct{})
	safego.Go("ipc-client-writer", func() {
		for {
			select {
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				if err := framed.WriteMessage(msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})

	router.Attach(clientID, first.Attach.Cols, first.Attach.Rows, func(msg ipc.ServerToClientMsg) error {
		select {
		case outbound <- msg:
			return nil
		default:
			// A client that cannot keep up with render output has this
			// new message dropped (the returned error is logged by the
			// router) rather than blocking the render tick for every
			// other attached client.
			return fmt.Errorf("zmuxd: client %s output queue full", clientID)
		}
	})
	defer func() {
		router.Detach(clientID)
		close(done)
		close(outbound)
	}()

	for {
		var msg ipc.ClientToServerMsg
		if err := framed.ReadMessage(&msg); err != nil {
			return
		}
		if err := router.Dispatch(clientID, msg); err != nil {
			logging.Debug("zmuxd: dispatch from %s: %v", clientID, err)
		}
	}
}
