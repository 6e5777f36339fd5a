package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"memoryscramble/boarderrors"
	"memoryscramble/wsutil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a middleman between one WebSocket connection and the Hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	playerID string
}

// readPump pumps inbound frames to handleMessage until the connection
// closes. Runs in its own goroutine per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c.playerID)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("websocket read error", "tag", "client", "player", c.playerID, "error", err.Error())
			}
			break
		}
		c.handleMessage(message)
	}
}

// writePump pumps queued frames and periodic pings to the connection.
// Runs in its own goroutine per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("invalid message format")
		return
	}

	if c.playerID == "" && envelope.Type != "register" {
		c.sendError("register first")
		return
	}

	switch envelope.Type {
	case "register":
		c.handleRegister(envelope.Raw)
	case "flip":
		c.handleFlip(envelope.Raw)
	case "render":
		c.handleRender()
	default:
		c.sendError("unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleRegister(raw json.RawMessage) {
	if c.playerID != "" {
		c.sendError("already registered")
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid register message")
		return
	}
	if len(msg.PlayerID) > c.hub.cfg.MaxPlayerIDLength {
		c.sendError("player id too long")
		return
	}
	if msg.PlayerID != "" {
		if _, err := c.hub.board.RegisterPlayer(msg.PlayerID); err != nil {
			c.sendError(err.Error())
			return
		}
	}

	playerID := c.hub.register(c, msg.PlayerID)
	if _, err := c.hub.board.RegisterPlayer(playerID); err != nil {
		c.sendError(err.Error())
		c.hub.unregister(playerID)
		return
	}
	c.playerID = playerID
	c.sendJSON(RegisteredMsg{Type: "registered", PlayerID: playerID})
}

func (c *Client) handleFlip(raw json.RawMessage) {
	var msg FlipMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid flip message")
		return
	}

	ctx, cancel := flipTimeout(c.hub.cfg)
	defer cancel()

	if err := c.hub.board.FlipUp(ctx, c.playerID, msg.Row, msg.Col); err != nil {
		c.sendError(flipErrorMessage(err))
		return
	}
	c.sendJSON(RenderedMsg{Type: "rendered", Render: c.hub.board.Render(c.playerID)})
}

func (c *Client) handleRender() {
	c.sendJSON(RenderedMsg{Type: "rendered", Render: c.hub.board.Render(c.playerID)})
}

func flipErrorMessage(err error) string {
	switch {
	case errors.Is(err, boarderrors.ErrOutOfBounds):
		return "out of bounds"
	case errors.Is(err, boarderrors.ErrEmptySpace):
		return "empty space"
	case errors.Is(err, boarderrors.ErrControlled):
		return "card is controlled by another player"
	case errors.Is(err, boarderrors.ErrSameCardTwice):
		return "same card flipped twice"
	case errors.Is(err, boarderrors.ErrNotFaceUp):
		return "card is not face up"
	case errors.Is(err, boarderrors.ErrUnknownPlayer):
		return "unknown player"
	default:
		return err.Error()
	}
}

func (c *Client) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.hub.log.Error("marshal failed", "tag", "client", "error", err.Error())
		return
	}
	wsutil.SafeSend(c.send, data)
}

func (c *Client) sendError(message string) {
	c.sendJSON(ErrorMsg{Type: "error", Message: message})
}
