package board

import (
	"context"
	"fmt"

	"memoryscramble/boarderrors"
)

// FlipUp is the only mutator exposed for gameplay. It may suspend the
// calling goroutine awaiting release of a card controlled by another
// player (rule 1-D) and resume it later; ctx governs that wait only,
// since once a call proceeds past the suspension point it runs to
// completion without consulting ctx again.
//
// Preconditions: (r, c) in bounds and playerID registered; violations
// return ErrOutOfBounds / ErrUnknownPlayer without suspending.
func (b *Board) FlipUp(ctx context.Context, playerID string, r, c int) error {
	for {
		b.mu.Lock()

		if !b.inBounds(r, c) {
			b.mu.Unlock()
			return fmt.Errorf("%w: (%d,%d)", boarderrors.ErrOutOfBounds, r, c)
		}
		p, ok := b.players[playerID]
		if !ok {
			b.mu.Unlock()
			return fmt.Errorf("%w: %q", boarderrors.ErrUnknownPlayer, playerID)
		}

		// Pre-step: a player whose secondCard is still set has a
		// completed pair from last round awaiting cleanup. Running it
		// now may clear firstCard, which changes which branch below
		// applies to the rest of this call.
		if p.secondCard != nil {
			b.runCleanupLocked(p)
		}

		if p.isFirstCardFlip() {
			// Defensive re-run: covers a prior 2-A/2-B/same-cell
			// failure, which already cleared firstCard/secondCard but
			// left a cell on the lingering list. No-op (idempotent)
			// when there is nothing left to clean.
			b.runCleanupLocked(p)

			wait, err := b.firstFlipLocked(p, playerID, r, c)
			if wait == nil {
				return err
			}
			// Rule 1-D: another player controls the target. Enqueue
			// and suspend outside the lock; on wake, retry from the
			// top; the cell may no longer be in the same state.
			b.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				b.mu.Lock()
				b.removeWaiterLocked(CellPos{r, c}, wait)
				b.mu.Unlock()
				return ctx.Err()
			}
		}

		err := b.secondFlipLocked(p, playerID, r, c)
		return err
	}
}

// firstFlipLocked implements rules 1-A through 1-D. Callers must hold
// b.mu and have already run cleanup, which is why a cell this player
// controlled going into the call (e.g. a just-matched, not yet
// cleaned-up pair) can never still be theirs by the time this switch
// runs: cleanup has already either removed it (3-A) or released
// control of it (3-B). It returns (nil, err) when the call is finished
// (success or failure), or (wait, nil) when the caller must suspend on
// wait outside the lock. b.mu is unlocked before returning only in the
// success/failure path below; the caller unlocks in the wait path.
func (b *Board) firstFlipLocked(p *Player, playerID string, r, c int) (chan struct{}, error) {
	pos := CellPos{r, c}
	cl := b.cellAt(pos)

	switch {
	case cl.picture == "":
		// 1-A. Also covers reselecting a cell just cleared by this
		// call's own pre-step cleanup (e.g. a just-matched pair): by
		// the time control reaches here the cell is already empty, so
		// there is no controller to compare against.
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: (%d,%d)", boarderrors.ErrEmptySpace, r, c)

	case !cl.faceUp:
		// 1-B
		cl.faceUp = true
		cl.controller = playerID
		p.firstCard = &pos
		p.flipCount++
		b.notifyWatchersLocked()
		b.emit(Event{Kind: EventFlipped, PlayerID: playerID, Cells: []CellPos{pos}})
		b.mu.Unlock()
		return nil, nil

	case cl.controller == "":
		// 1-C: face-up, uncontrolled. No visible change, so change
		// watchers are not notified here, unlike 1-B.
		cl.controller = playerID
		p.firstCard = &pos
		p.flipCount++
		b.mu.Unlock()
		return nil, nil

	default:
		// 1-D: controlled by another player. Enqueue a waiter and let
		// the caller suspend outside the lock.
		b.emit(Event{Kind: EventWaiting, PlayerID: playerID, Cells: []CellPos{pos}})
		wait := make(chan struct{})
		b.waiters[pos] = append(b.waiters[pos], wait)
		return wait, nil
	}
}

// secondFlipLocked implements the same-cell guard and rules 2-A
// through 2-E. Callers must hold b.mu; it always unlocks before
// returning.
func (b *Board) secondFlipLocked(p *Player, playerID string, r, c int) error {
	defer b.mu.Unlock()

	first := *p.firstCard
	target := CellPos{r, c}

	if target == first {
		// Same-cell guard.
		b.releaseIfHeldLocked(first, playerID)
		b.addLingeringLocked(p, first)
		p.firstCard = nil
		p.secondCard = nil
		return fmt.Errorf("%w: (%d,%d)", boarderrors.ErrSameCardTwice, r, c)
	}

	tc := b.cellAt(target)

	switch {
	case tc.picture == "":
		// 2-A
		b.releaseIfHeldLocked(first, playerID)
		b.addLingeringLocked(p, first)
		p.firstCard = nil
		p.secondCard = nil
		return fmt.Errorf("%w: (%d,%d)", boarderrors.ErrEmptySpace, r, c)

	case tc.controller != "":
		// 2-B: face-up and controlled by anyone. Deliberately does
		// not block: blocking here could deadlock a pair of players
		// each holding the card the other wants.
		b.releaseIfHeldLocked(first, playerID)
		b.addLingeringLocked(p, first)
		p.firstCard = nil
		p.secondCard = nil
		return fmt.Errorf("%w: (%d,%d)", boarderrors.ErrControlled, r, c)

	default:
		// 2-C (face-down) or already face-up and uncontrolled.
		if !tc.faceUp {
			tc.faceUp = true
		}
		tc.controller = playerID
		p.secondCard = &target
		p.flipCount++

		fc := b.cellAt(first)
		matched := fc.picture != "" && fc.picture == tc.picture
		if matched {
			// 2-D: leave both face-up, controlled by playerID until
			// this player's next first-flip triggers 3-A cleanup.
			b.emit(Event{Kind: EventMatched, PlayerID: playerID, Cells: []CellPos{first, target}})
		} else {
			// 2-E: release both; they stay face-up, uncontrolled,
			// until 3-B flips them down at this player's next turn.
			b.releaseIfHeldLocked(first, playerID)
			b.releaseIfHeldLocked(target, playerID)
			b.emit(Event{Kind: EventMismatched, PlayerID: playerID, Cells: []CellPos{first, target}})
		}
		b.notifyWatchersLocked()
		return nil
	}
}

// runCleanupLocked performs the previous-play cleanup (rules 3-A,
// 3-B). Safe to call when there is nothing to clean up (idempotent).
func (b *Board) runCleanupLocked(p *Player) {
	if keys := b.lingering[p.id]; len(keys) > 0 {
		for _, pos := range keys {
			cl := b.cellAt(pos)
			if cl.picture != "" && cl.faceUp && cl.controller == "" {
				cl.faceUp = false
			}
		}
		delete(b.lingering, p.id)
	}

	switch {
	case p.firstCard != nil && p.secondCard != nil:
		first, second := *p.firstCard, *p.secondCard
		fc, sc := b.cellAt(first), b.cellAt(second)
		if fc.picture != "" && fc.picture == sc.picture {
			// 3-A: matched pair removal.
			removed := make([]CellPos, 0, 2)
			for _, pos := range [2]CellPos{first, second} {
				cl := b.cellAt(pos)
				if cl.controller == p.id {
					cl.picture = ""
					cl.faceUp = false
					cl.controller = ""
					b.wakeWaitersLocked(pos)
					removed = append(removed, pos)
				}
			}
			if len(removed) > 0 {
				b.emit(Event{Kind: EventRemoved, PlayerID: p.id, Cells: removed})
			}
		} else {
			// 3-B: flip down if still present, face-up, uncontrolled.
			for _, pos := range [2]CellPos{first, second} {
				cl := b.cellAt(pos)
				if cl.picture != "" && cl.faceUp && cl.controller == "" {
					cl.faceUp = false
				}
			}
		}
	case p.firstCard != nil:
		cl := b.cellAt(*p.firstCard)
		if cl.picture != "" && cl.faceUp && cl.controller == "" {
			cl.faceUp = false
		}
	}

	p.firstCard = nil
	p.secondCard = nil
}

// releaseIfHeldLocked releases control of pos if it is still held by
// playerID, waking its waiter queue. A no-op if control already moved
// on (e.g. cleanup already ran).
func (b *Board) releaseIfHeldLocked(pos CellPos, playerID string) {
	cl := b.cellAt(pos)
	if cl.controller == playerID {
		cl.controller = ""
		b.wakeWaitersLocked(pos)
	}
}

// wakeWaitersLocked wakes every waiter parked on pos by closing each
// channel. Waking the whole queue at once is safe: at most one waiter
// will succeed on retry, the rest see a different state and re-suspend.
func (b *Board) wakeWaitersLocked(pos CellPos) {
	waiters := b.waiters[pos]
	if len(waiters) == 0 {
		return
	}
	delete(b.waiters, pos)
	for _, ch := range waiters {
		close(ch)
	}
}

// removeWaiterLocked removes one specific waiter channel from pos's
// queue, used when a suspended FlipUp is cancelled via ctx. A no-op if
// the waiter already woke (and was removed) concurrently.
func (b *Board) removeWaiterLocked(pos CellPos, wait chan struct{}) {
	waiters := b.waiters[pos]
	for i, ch := range waiters {
		if ch == wait {
			waiters = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(waiters) == 0 {
		delete(b.waiters, pos)
	} else {
		b.waiters[pos] = waiters
	}
}

// addLingeringLocked records pos to be flipped down at p's next
// first-flip (rule 3-B via runCleanupLocked).
func (b *Board) addLingeringLocked(p *Player, pos CellPos) {
	b.lingering[p.id] = append(b.lingering[p.id], pos)
}
