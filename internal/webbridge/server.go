// Package webbridge exposes a Session Router (spec.md section 4.7)
// over HTTP and WebSocket for browser clients, grounded on the
// teacher's internal/linear webhook HTTP server (http.NewServeMux,
// context-cancel shutdown, header-based auth returning 401) and on
// danielgatis-go-headless-term's wasm/example/server.go for the
// gorilla/websocket PTY-bridge shape: a JSON text control message for
// resize, binary frames for raw terminal bytes in both directions.
package webbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zmux-dev/zmux/internal/ipc"
	"github.com/zmux-dev/zmux/internal/logging"
	"github.com/zmux-dev/zmux/internal/session"
)

// Registry resolves a named session's Router. The empty name resolves
// to the bridge's default (first-attached) session.
type Registry func(sessionName string) (*session.Router, bool)

// Server is an http.Handler implementing spec.md section 6's browser
// endpoints: GET /info/version, POST /command/shutdown, POST
// /session, WS /ws/control, and WS /ws/terminal[/{session}].
type Server struct {
	Version    string
	Token      string
	Registry   Registry
	OnShutdown func(reason string)

	upgrader websocket.Upgrader
}

// NewServer builds a Server. token may be empty, in which case every
// request is accepted unauthenticated -- only appropriate for a
// bridge bound to loopback.
func NewServer(version, token string, registry Registry, onShutdown func(reason string)) *Server {
	return &Server{
		Version:    version,
		Token:      token,
		Registry:   registry,
		OnShutdown: onShutdown,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/info/version", s.handleVersion)
	mux.HandleFunc("/command/shutdown", s.authed(s.handleShutdown))
	mux.HandleFunc("/session", s.authed(s.handleNewSession))
	mux.HandleFunc("/ws/control", s.handleWSControl)
	mux.HandleFunc("/ws/terminal", s.handleWSTerminal)
	mux.HandleFunc("/ws/terminal/", s.handleWSTerminal)
	return mux
}

// ListenAndServe runs the bridge until ctx is canceled, matching the
// teacher's WebhookServer.Start shutdown pattern.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()
	logging.Info("webbridge: listening on %s", addr)
	return httpSrv.ListenAndServe()
}

func (s *Server) bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if tok, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return tok
		}
	}
	return r.URL.Query().Get("token")
}

// authOK reports whether r carries the configured bearer token, via
// either the Authorization header or a token query parameter -- the
// latter exists because browser WebSocket clients cannot set custom
// headers on the upgrade request.
func (s *Server) authOK(r *http.Request) bool {
	if s.Token == "" {
		return true
	}
	return s.bearerToken(r) == s.Token
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authOK(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.Version})
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.OnShutdown != nil {
		go s.OnShutdown("requested via /command/shutdown")
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"web_client_id": uuid.New().String()})
}

// routerFor resolves the target session named by the "session" query
// parameter (control socket) or URL suffix (terminal socket).
func (s *Server) routerFor(name string) (*session.Router, bool) {
	if s.Registry == nil {
		return nil, false
	}
	return s.Registry(name)
}

// wsControlIn is a browser control-socket request: an action,
// resize, paste, config write, or exit, mirroring
// ipc.ClientToServerMsg's variants in a JSON-friendly shape.
type wsControlIn struct {
	Type        string `json:"type"`
	Action      string `json:"action,omitempty"`
	Args        []string `json:"args,omitempty"`
	Cols        int    `json:"cols,omitempty"`
	Rows        int    `json:"rows,omitempty"`
	Data        string `json:"data,omitempty"`
	Key         string `json:"key,omitempty"`
	Value       string `json:"value,omitempty"`
	KillSession bool   `json:"kill_session,omitempty"`
}

// wsControlOut is a browser control-socket notification, mirroring
// ipc.ServerToClientMsg's non-render variants.
type wsControlOut struct {
	Type        string `json:"type"`
	Reason      string `json:"reason,omitempty"`
	SessionName string `json:"session_name,omitempty"`
	Key         string `json:"key,omitempty"`
	Value       string `json:"value,omitempty"`
	Level       string `json:"level,omitempty"`
	Text        string `json:"text,omitempty"`
}

func controlInToIPC(in wsControlIn) *ipc.ClientToServerMsg {
	switch in.Type {
	case "action":
		return &ipc.ClientToServerMsg{Action: &ipc.ActionMsg{Name: in.Action, Args: in.Args}}
	case "resize":
		return &ipc.ClientToServerMsg{Resize: &ipc.ResizeMsg{Cols: in.Cols, Rows: in.Rows}}
	case "paste":
		return &ipc.ClientToServerMsg{Paste: &ipc.PasteMsg{Data: []byte(in.Data)}}
	case "config_write":
		return &ipc.ClientToServerMsg{ConfigWrite: &ipc.ConfigWriteMsg{Key: in.Key, Value: in.Value}}
	case "exit":
		return &ipc.ClientToServerMsg{Exit: &ipc.ExitMsg{KillSession: in.KillSession}}
	default:
		return nil
	}
}

// controlOutFromIPC translates a router notification for the control
// socket. Render frames are carried only by the terminal socket, so
// they translate to nil here.
func controlOutFromIPC(msg ipc.ServerToClientMsg) *wsControlOut {
	switch {
	case msg.Exit != nil:
		return &wsControlOut{Type: "exit", Reason: msg.Exit.Reason}
	case msg.SwitchSession != nil:
		return &wsControlOut{Type: "switch_session", SessionName: msg.SwitchSession.SessionName}
	case msg.WriteConfig != nil:
		return &wsControlOut{Type: "write_config", Key: msg.WriteConfig.Key, Value: msg.WriteConfig.Value}
	case msg.Log != nil:
		return &wsControlOut{Type: "log", Level: msg.Log.Level, Text: msg.Log.Text}
	default:
		return nil
	}
}

func (s *Server) handleWSControl(w http.ResponseWriter, r *http.Request) {
	if !s.authOK(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	router, ok := s.routerFor(r.URL.Query().Get("session"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("webbridge: control upgrade: %v", err)
		return
	}
	defer conn.Close()

	clientID := "web-control-" + uuid.New().String()
	var writeMu sync.Mutex
	router.Attach(clientID, 80, 24, func(msg ipc.ServerToClientMsg) error {
		out := controlOutFromIPC(msg)
		if out == nil {
			return nil
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(out)
	})
	defer router.Detach(clientID)

	for {
		var in wsControlIn
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		msg := controlInToIPC(in)
		if msg == nil {
			continue
		}
		if err := router.Dispatch(clientID, *msg); err != nil {
			logging.Warn("webbridge: control dispatch: %v", err)
		}
	}
}

// terminalResizeMsg is the JSON text-frame control message a terminal
// socket client sends on attach and on every browser resize, ahead of
// the raw byte stream -- the same shape the teacher's
// wasm/example/server.go reference uses for its PTY bridge.
type terminalResizeMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

func (s *Server) handleWSTerminal(w http.ResponseWriter, r *http.Request) {
	if !s.authOK(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	sessionName := ""
	if strings.HasPrefix(r.URL.Path, "/ws/terminal/") {
		sessionName = strings.TrimPrefix(r.URL.Path, "/ws/terminal/")
	}
	router, ok := s.routerFor(sessionName)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("webbridge: terminal upgrade: %v", err)
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	var writeMu sync.Mutex
	router.Attach(clientID, 80, 24, func(msg ipc.ServerToClientMsg) error {
		if msg.Render == nil {
			return nil
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteMessage(websocket.BinaryMessage, msg.Render.Bytes)
	})
	defer router.Detach(clientID)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch mt {
		case websocket.BinaryMessage:
			if err := router.Dispatch(clientID, ipc.ClientToServerMsg{Key: &ipc.KeyMsg{Bytes: data}}); err != nil {
				logging.Warn("webbridge: terminal dispatch: %v", err)
			}
		case websocket.TextMessage:
			var resize terminalResizeMsg
			if json.Unmarshal(data, &resize) != nil || resize.Type != "resize" {
				continue
			}
			if err := router.Dispatch(clientID, ipc.ClientToServerMsg{Resize: &ipc.ResizeMsg{Cols: resize.Cols, Rows: resize.Rows}}); err != nil {
				logging.Warn("webbridge: terminal resize dispatch: %v", err)
			}
		}
	}
}
