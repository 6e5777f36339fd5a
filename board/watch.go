package board

// AddChangeWatcher registers a one-shot sink for playerID. The next
// time the board mutates (see notifyWatchersLocked's call sites:
// rules 1-B, 2-D, 2-E, and Map), every registered sink across all
// players is delivered that player's Render output, then the whole
// watcher map is cleared. A watcher never fires twice; observing a
// later change requires re-registering.
func (b *Board) AddChangeWatcher(playerID string, sink func(render string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watchers[playerID] = append(b.watchers[playerID], sink)
}

// notifyWatchersLocked swaps out the watcher map and takes a grid
// snapshot under the lock, then delivers renders from that snapshot
// outside the lock to avoid re-entrancy (a sink that itself calls back
// into the board must not deadlock on b.mu) and to guarantee every
// sink in this notification sees the same moment in time.
func (b *Board) notifyWatchersLocked() {
	if len(b.watchers) == 0 {
		return
	}
	pending := b.watchers
	b.watchers = make(map[string][]func(string))
	snap := b.snapshotLocked()

	go func() {
		for playerID, sinks := range pending {
			render := renderSnapshot(snap, playerID)
			for _, sink := range sinks {
				sink(render)
			}
		}
	}()
}
