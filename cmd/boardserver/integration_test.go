package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoryscramble/board"
	"memoryscramble/boardlog"
	"memoryscramble/config"
)

func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte("2x2\nA\nA\nA\nA\n"), 0o644))
	b, err := board.ParseFromFile(path)
	require.NoError(t, err)

	cfg := config.Defaults()
	logger := slog.New(boardlog.NewCompactHandler(testLogWriter{t}, slog.LevelInfo))
	hub := NewHub(b, cfg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	server := httptest.NewServer(mux)
	return server, server.Close
}

type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func connectWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestRegisterAssignsRequestedID(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "register", "playerId": "alice"}))
	msg := readMsg(t, conn)
	assert.Equal(t, "registered", msg["type"])
	assert.Equal(t, "alice", msg["playerId"])
}

func TestFlipRoundTripOverWebSocket(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "register", "playerId": "alice"}))
	_ = readMsg(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "flip", "row": 0, "col": 0}))
	msg := readMsg(t, conn)
	assert.Equal(t, "rendered", msg["type"])
	render, ok := msg["render"].(string)
	require.True(t, ok)
	assert.Contains(t, render, "my A")
}

func TestFlipOutOfBoundsReturnsError(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "register", "playerId": "alice"}))
	_ = readMsg(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "flip", "row": 9, "col": 9}))
	msg := readMsg(t, conn)
	assert.Equal(t, "error", msg["type"])
}

func TestSecondPlayerReceivesPushedRenderOnMutation(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	alice := connectWS(t, server)
	defer alice.Close()
	bob := connectWS(t, server)
	defer bob.Close()

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "register", "playerId": "alice"}))
	_ = readMsg(t, alice)
	require.NoError(t, bob.WriteJSON(map[string]string{"type": "register", "playerId": "bob"}))
	_ = readMsg(t, bob)

	require.NoError(t, alice.WriteJSON(map[string]interface{}{"type": "flip", "row": 0, "col": 0}))
	_ = readMsg(t, alice) // alice's own direct response

	msg := readMsg(t, bob) // bob's push from the change watcher
	assert.Equal(t, "rendered", msg["type"])
	render, ok := msg["render"].(string)
	require.True(t, ok)
	assert.Contains(t, render, "up A")
}
