package board

import (
	"context"
	"errors"
	"strings"
	"testing"

	"memoryscramble/boarderrors"
)

func TestMapTransformsNonEmptyCellsInPlace(t *testing.T) {
	b := newTestBoard(t, 2, 2, "a", "", "b", "b")
	err := b.Map(context.Background(), func(pic string) (string, error) {
		return strings.ToUpper(pic), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"A", "", "B", "B"}
	for i, w := range want {
		if b.cells[i].picture != w {
			t.Errorf("cell %d: expected %q, got %q", i, w, b.cells[i].picture)
		}
	}
}

func TestMapRejectsWhitespaceResult(t *testing.T) {
	b := newTestBoard(t, 2, 2, "a", "", "b", "b")
	err := b.Map(context.Background(), func(pic string) (string, error) {
		return "has space", nil
	})
	if !errors.Is(err, boarderrors.ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
}

func TestMapPropagatesTransformError(t *testing.T) {
	b := newTestBoard(t, 2, 2, "a", "", "b", "b")
	sentinel := errors.New("boom")
	err := b.Map(context.Background(), func(pic string) (string, error) {
		return "", sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected transform error to propagate, got %v", err)
	}
}

func TestMapNotifiesWatchers(t *testing.T) {
	b := newTestBoard(t, 2, 2, "a", "", "b", "b")
	mustRegister(t, b, "p1")

	notified := make(chan string, 1)
	b.AddChangeWatcher("p1", func(render string) { notified <- render })

	if err := b.Map(context.Background(), func(pic string) (string, error) {
		return strings.ToUpper(pic), nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case render := <-notified:
		if !strings.Contains(render, "down") {
			t.Errorf("expected a rendered grid, got %q", render)
		}
	case <-boundedTimeout():
		t.Fatal("watcher was never notified after Map")
	}
}
