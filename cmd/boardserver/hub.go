package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"memoryscramble/board"
	"memoryscramble/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub serves one Board to any number of WebSocket-connected players.
// It owns no board state itself: every request is translated directly
// into a Board method call, and the hub's only job is connection
// bookkeeping and the JSON envelope protocol around it.
type Hub struct {
	board *board.Board
	cfg   *config.Config
	log   *slog.Logger

	mu      sync.Mutex
	clients map[string]*Client // playerID -> connection, empty string excluded
}

// NewHub returns a Hub ready to serve b over WebSocket connections.
func NewHub(b *board.Board, cfg *config.Config, logger *slog.Logger) *Hub {
	return &Hub{
		board:   b,
		cfg:     cfg,
		log:     logger,
		clients: make(map[string]*Client),
	}
}

// ServeWS upgrades r to a WebSocket connection and spawns the read/write
// pumps for a fresh, not-yet-registered Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "tag", "hub", "error", err.Error())
		return
	}

	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	go c.writePump()
	go c.readPump()
}

// register binds a connection to a player id, assigning a fresh uuid
// when the client didn't name one. Re-registering the same connection
// under a different id is not supported; callers hold one id for the
// connection's lifetime.
func (h *Hub) register(c *Client, requestedID string) string {
	playerID := requestedID
	if playerID == "" {
		playerID = uuid.NewString()
	}

	h.mu.Lock()
	h.clients[playerID] = c
	h.mu.Unlock()

	h.log.Info("player connected", "tag", "hub", "player", playerID)
	h.subscribe(playerID)
	return playerID
}

// unregister drops c's entry so pushRendered stops targeting it. It
// does not unregister the player from the Board: a disconnected player
// keeps their flip-count and lingering state, and may reconnect under
// the same id and resume exactly where they left off.
func (h *Hub) unregister(playerID string) {
	if playerID == "" {
		return
	}
	h.mu.Lock()
	delete(h.clients, playerID)
	h.mu.Unlock()
	h.log.Info("player disconnected", "tag", "hub", "player", playerID)
}

// subscribe arms a one-shot change watcher for playerID that re-arms
// itself after every notification, turning Board's one-shot watcher
// into a standing push subscription for as long as the connection
// stays registered.
func (h *Hub) subscribe(playerID string) {
	h.board.AddChangeWatcher(playerID, func(render string) {
		h.pushRendered(playerID, render)
		h.mu.Lock()
		_, stillConnected := h.clients[playerID]
		h.mu.Unlock()
		if stillConnected {
			h.subscribe(playerID)
		}
	})
}

func (h *Hub) pushRendered(playerID, render string) {
	h.mu.Lock()
	c, ok := h.clients[playerID]
	h.mu.Unlock()
	if !ok {
		return
	}
	c.sendJSON(RenderedMsg{Type: "rendered", Render: render})
}

// runEvents drains events and, for each one, logs it and broadcasts an
// EventMsg to every currently connected client. Run as a goroutine from
// main; events are a best-effort observability and notification feed,
// not something gameplay depends on (a client that misses one still
// converges via its own render pushes).
func (h *Hub) runEvents(ctx context.Context, events <-chan board.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.log.Info(ev.Kind.String(),
				"tag", "event",
				"player", ev.PlayerID,
				"cells", cellsToString(ev.Cells),
			)
			h.broadcastEvent(ev)
		}
	}
}

func (h *Hub) broadcastEvent(ev board.Event) {
	msg := EventMsg{
		Type:     "event",
		Kind:     ev.Kind.String(),
		PlayerID: ev.PlayerID,
		Cells:    make([][2]int, len(ev.Cells)),
	}
	for i, pos := range ev.Cells {
		msg.Cells[i] = [2]int{pos.Row, pos.Col}
	}

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.sendJSON(msg)
	}
}

func cellsToString(cells []board.CellPos) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return strings.Join(parts, ",")
}

// flipTimeout derives the context used to bound a suspended FlipUp
// call from the host's configured timeout; zero means no deadline.
func flipTimeout(cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.FlipTimeoutMS <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), time.Duration(cfg.FlipTimeoutMS)*time.Millisecond)
}
