package board

import (
	"context"
	"testing"
)

func TestChangeWatcherFiresOnceOnFirstFlip(t *testing.T) {
	b := newTestBoard(t, 2, 2, "A", "A", "B", "B")
	mustRegister(t, b, "p1")

	calls := make(chan string, 4)
	b.AddChangeWatcher("p1", func(render string) { calls <- render })

	if err := b.FlipUp(context.Background(), "p1", 0, 0); err != nil {
		t.Fatalf("flip: %v", err)
	}

	select {
	case <-calls:
	case <-boundedTimeout():
		t.Fatal("watcher never fired after 1-B")
	}

	// A second mutation must not re-fire the same (already-consumed)
	// watcher registration.
	if err := b.FlipUp(context.Background(), "p1", 0, 1); err != nil {
		t.Fatalf("flip: %v", err)
	}
	select {
	case render := <-calls:
		t.Fatalf("watcher fired a second time without re-registration: %q", render)
	default:
	}
}

func TestChangeWatcherNotNotifiedOn1C(t *testing.T) {
	// 1-C: face-up, uncontrolled card taken by a second player produces
	// no visible grid change, so watchers are not notified.
	b := newTestBoard(t, 2, 2, "A", "A", "B", "B")
	mustRegister(t, b, "p1")
	mustRegister(t, b, "p2")
	ctx := context.Background()

	if err := b.FlipUp(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("p1 flip: %v", err)
	}
	if err := b.FlipUp(ctx, "p1", 1, 1); err != nil {
		t.Fatalf("p1 second flip (mismatch releases (0,0)): %v", err)
	}

	calls := make(chan string, 4)
	b.AddChangeWatcher("p2", func(render string) { calls <- render })

	if err := b.FlipUp(ctx, "p2", 0, 0); err != nil {
		t.Fatalf("p2 1-C flip: %v", err)
	}

	select {
	case render := <-calls:
		t.Fatalf("expected no watcher notification on 1-C, got %q", render)
	default:
	}
}

func TestChangeWatchersShareOneSnapshot(t *testing.T) {
	b := newTestBoard(t, 2, 2, "A", "A", "B", "B")
	mustRegister(t, b, "p1")
	mustRegister(t, b, "p2")

	r1 := make(chan string, 1)
	r2 := make(chan string, 1)
	b.AddChangeWatcher("p1", func(render string) { r1 <- render })
	b.AddChangeWatcher("p2", func(render string) { r2 <- render })

	if err := b.FlipUp(context.Background(), "p1", 0, 0); err != nil {
		t.Fatalf("flip: %v", err)
	}

	var render1, render2 string
	select {
	case render1 = <-r1:
	case <-boundedTimeout():
		t.Fatal("p1 watcher never fired")
	}
	select {
	case render2 = <-r2:
	case <-boundedTimeout():
		t.Fatal("p2 watcher never fired")
	}

	if render1 == "" || render2 == "" {
		t.Fatal("expected non-empty renders for both watchers")
	}
	// Both renders describe the same grid state: only (0,0) face-up.
	if want := "2x2\nmy A\ndown\ndown\ndown\n"; render1 != want {
		t.Errorf("p1 render:\n got: %q\nwant: %q", render1, want)
	}
	if want := "2x2\nup A\ndown\ndown\ndown\n"; render2 != want {
		t.Errorf("p2 render:\n got: %q\nwant: %q", render2, want)
	}
	if render1 == render2 {
		t.Error("expected per-player renders to differ (my vs up)")
	}
}
