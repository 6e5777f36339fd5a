package main

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server
// messages. Type routes the message; Raw holds the full JSON payload
// so the specific payload can be unmarshaled once Type is known.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON captures the raw payload alongside the routing type.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// RegisterMsg declares a player id for this connection. If PlayerID is
// empty the hub assigns one.
type RegisterMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// FlipMsg requests board.Board.FlipUp at (Row, Col).
type FlipMsg struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// --- Server-to-client messages ---

// RegisteredMsg confirms registration and reports the assigned id.
type RegisteredMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// RenderedMsg carries one Board.Render result.
type RenderedMsg struct {
	Type   string `json:"type"`
	Render string `json:"render"`
}

// EventMsg mirrors one board.Event, broadcast to every connected
// client alongside the render push, for clients that want raw outcome
// notifications (which cells flipped, matched, or were removed, and
// who caused it) in addition to renders.
type EventMsg struct {
	Type     string   `json:"type"`
	Kind     string   `json:"kind"`
	PlayerID string   `json:"playerId"`
	Cells    [][2]int `json:"cells"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
