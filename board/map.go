package board

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"memoryscramble/boarderrors"
)

// Map applies f to every non-empty card's picture, in row-major order,
// replacing it in place. Each cell's transform runs concurrently in
// its own goroutine; the grid lock is released while awaiting a
// transform and re-acquired atomically around each cell update. f's
// result must still satisfy the no-whitespace, non-empty picture
// contract or Map fails with ErrInvalidCard. On completion the
// representation invariant is re-checked and change watchers are
// notified.
func (b *Board) Map(ctx context.Context, f func(picture string) (string, error)) error {
	b.mu.Lock()
	n := len(b.cells)
	b.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		b.mu.Lock()
		picture := b.cells[i].picture
		b.mu.Unlock()
		if picture == "" {
			continue
		}
		g.Go(func() error {
			newPicture, err := f(picture)
			if err != nil {
				return err
			}
			if newPicture == "" || strings.ContainsFunc(newPicture, unicode.IsSpace) {
				return fmt.Errorf("%w: %q", boarderrors.ErrInvalidCard, newPicture)
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			b.mu.Lock()
			b.cells[i].picture = newPicture
			b.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.mu.Lock()
	b.checkRepLocked()
	b.notifyWatchersLocked()
	b.mu.Unlock()
	return nil
}
