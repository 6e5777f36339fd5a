package board

import (
	"fmt"
	"strings"
	"unicode"

	"memoryscramble/boarderrors"
)

// Player is the board's per-player bookkeeping: the cells held from
// the current turn's first and second flip, and a running flip count.
// Players never reference the Board; the Board owns Players by id.
type Player struct {
	id string

	firstCard  *CellPos
	secondCard *CellPos

	flipCount int
}

// ID returns the player's registered id.
func (p *Player) ID() string { return p.id }

// FlipCount returns the number of flips this player has made. It is
// monotonically non-decreasing.
func (p *Player) FlipCount() int {
	return p.flipCount
}

// isFirstCardFlip reports whether this player's next FlipUp call
// should be treated as the first flip of a turn.
func (p *Player) isFirstCardFlip() bool {
	return p.firstCard == nil
}

func isValidPlayerID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsFunc(id, unicode.IsSpace)
}

// RegisterPlayer registers id if it is not already known and returns
// its Player record. Registration is idempotent: calling it again
// with the same id returns the existing record unchanged.
func (b *Board) RegisterPlayer(id string) (*Player, error) {
	if !isValidPlayerID(id) {
		return nil, fmt.Errorf("%w: %q", boarderrors.ErrInvalidPlayerId, id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.players[id]; ok {
		return p, nil
	}
	p := &Player{id: id}
	b.players[id] = p
	b.playerOrder = append(b.playerOrder, id)
	return p, nil
}

// ListPlayers returns the registered player ids in registration order.
// The returned slice is a fresh copy.
func (b *Board) ListPlayers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.playerOrder))
	copy(out, b.playerOrder)
	return out
}

// Player returns the Player record for id, or (nil, false) if
// unregistered. The returned pointer is owned by the Board; callers
// should only use it via the accessor methods above.
func (b *Board) Player(id string) (*Player, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.players[id]
	return p, ok
}
