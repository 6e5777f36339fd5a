package board

import "strings"

// boardSnapshot is an immutable copy of the grid at one instant, used
// both by Render (synchronous) and by the change-watcher fan-out
// (asynchronous, after the lock is released) so every consumer of one
// notification sees the same moment.
type boardSnapshot struct {
	rows, cols int
	cells      []cell
}

func (b *Board) snapshotLocked() boardSnapshot {
	cells := make([]cell, len(b.cells))
	copy(cells, b.cells)
	return boardSnapshot{rows: b.rows, cols: b.cols, cells: cells}
}

// Render returns playerID's view of the board: a header line "RxC"
// followed by rows*cols tokens, one per line, row-major. Each token is
// "none" (empty), "down" (face-down), "my <pic>" (face-up, controlled
// by playerID), or "up <pic>" (face-up, controlled by someone else or
// uncontrolled). The snapshot is taken atomically under the board's
// lock, so it never interleaves with a concurrent mutation.
func (b *Board) Render(playerID string) string {
	b.mu.Lock()
	snap := b.snapshotLocked()
	b.mu.Unlock()
	return renderSnapshot(snap, playerID)
}

func renderSnapshot(snap boardSnapshot, playerID string) string {
	var sb strings.Builder
	sb.WriteString(header(snap.rows, snap.cols))
	sb.WriteByte('\n')
	for _, cl := range snap.cells {
		sb.WriteString(renderCell(cl, playerID))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderCell(cl cell, playerID string) string {
	switch {
	case cl.picture == "":
		return "none"
	case !cl.faceUp:
		return "down"
	case cl.controller == playerID:
		return "my " + cl.picture
	default:
		return "up " + cl.picture
	}
}
