package board

import (
	"fmt"

	"memoryscramble/boarderrors"
)

// PictureAt returns the picture token at (r, c), or "" if the cell is
// empty.
func (b *Board) PictureAt(r, c int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return "", fmt.Errorf("%w: (%d,%d)", boarderrors.ErrOutOfBounds, r, c)
	}
	return b.cellAt(CellPos{r, c}).picture, nil
}

// IsFaceUp reports whether the cell at (r, c) is face-up.
func (b *Board) IsFaceUp(r, c int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return false, fmt.Errorf("%w: (%d,%d)", boarderrors.ErrOutOfBounds, r, c)
	}
	return b.cellAt(CellPos{r, c}).faceUp, nil
}

// ControllerAt returns the id of the player controlling (r, c), or ""
// if the cell is uncontrolled.
func (b *Board) ControllerAt(r, c int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return "", fmt.Errorf("%w: (%d,%d)", boarderrors.ErrOutOfBounds, r, c)
	}
	return b.cellAt(CellPos{r, c}).controller, nil
}

// FlipDown is an administrative operation: it requires the target to
// be non-empty and face-up, and releases its controller (if any),
// waking waiters on that cell. It is an out-of-band tool; front-ends
// should not call it during normal play, since the flip state machine
// already produces face-down cells as a normal outcome (3-B, 3-A).
func (b *Board) FlipDown(r, c int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inBounds(r, c) {
		return fmt.Errorf("%w: (%d,%d)", boarderrors.ErrOutOfBounds, r, c)
	}
	pos := CellPos{r, c}
	cl := b.cellAt(pos)
	if cl.picture == "" || !cl.faceUp {
		return fmt.Errorf("%w: (%d,%d)", boarderrors.ErrNotFaceUp, r, c)
	}
	cl.faceUp = false
	if cl.controller != "" {
		cl.controller = ""
		b.wakeWaitersLocked(pos)
	}
	return nil
}
