package webbridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/session"
)

func testRouter(t *testing.T) *session.Router {
	t.Helper()
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("config.DefaultConfig: %v", err)
	}
	cfg.Paths.ConfigPath = t.TempDir() + "/config.json"
	cfg.DefaultShell = "cat"
	cfg.StartDir = t.TempDir()

	sess, err := session.New("test", cfg)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(sess.Shutdown)

	router := session.NewRouter(sess, cfg)
	stop := make(chan struct{})
	go router.Run(stop)
	t.Cleanup(func() { close(stop) })
	return router
}

func testServer(t *testing.T, token string) (*httptest.Server, *Server) {
	t.Helper()
	router := testRouter(t)
	srv := NewServer("0.1.0-test", token, func(name string) (*session.Router, bool) {
		return router, true
	}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func TestVersionRequiresNoAuth(t *testing.T) {
	ts, _ := testServer(t, "secret")
	resp, err := http.Get(ts.URL + "/info/version")
	if err != nil {
		t.Fatalf("GET /info/version: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] != "0.1.0-test" {
		t.Fatalf("version = %q", body["version"])
	}
}

func TestNewSessionRejectsMissingToken(t *testing.T) {
	ts, _ := testServer(t, "secret")
	resp, err := http.Post(ts.URL+"/session", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestNewSessionAcceptsBearerToken(t *testing.T) {
	ts, _ := testServer(t, "secret")
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/session", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["web_client_id"] == "" {
		t.Fatal("expected non-empty web_client_id")
	}
}

func TestTerminalSocketEchoesInput(t *testing.T) {
	ts, _ := testServer(t, "")
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/terminal"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(terminalResizeMsg{Type: "resize", Cols: 80, Rows: 24}); err != nil {
		t.Fatalf("write resize: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("hello\n")); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if mt == websocket.BinaryMessage && strings.Contains(string(data), "hello") {
			return
		}
	}
}
