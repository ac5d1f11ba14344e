package lfset

// expandAsNeeded is the resize check run before every probe step of a
// write. It first helps any migration into t to completion, then starts an
// expansion if t looks more than half full. A true result means the caller
// must restart against the current table.
//
// The approximate insert count is checked on every step. Because it lags by
// up to one shard threshold per thread, probes that have already gone
// deeper than probeSuspicion also consult the exact count.
func (s *Set) expandAsNeeded(tid int, t *table, i int) bool {
	s.helpExpansion(tid, t)

	half := int64(len(t.slots) / 2)
	if t.inserts.Approximate() > half ||
		(i > s.probeSuspicion && t.inserts.Exact() > half) {
		s.startExpansion(tid, t)
		return true
	}
	return false
}

// startExpansion installs a successor of t if t is still current, then
// helps migrate into whichever table is current afterwards.
func (s *Set) startExpansion(tid int, t *table) {
	if s.current.Load() == t {
		live := t.inserts.Exact() - t.deletes.Exact()
		if live < 1 {
			live = 1
		}
		newT := s.newTable(max(growFactor*int(live), len(t.slots)), t)
		s.register(newT)
		if s.current.CompareAndSwap(t, newT) {
			s.resizes.Add(1)
		} else {
			// Another goroutine installed its successor first.
			s.unregister(newT)
		}
	}
	s.helpExpansion(tid, s.current.Load())
}

// helpExpansion claims and migrates chunks of t's predecessor until none
// are left, then waits until every claimed chunk is done.
func (s *Set) helpExpansion(tid int, t *table) {
	pred := t.pred.Load()
	if pred == nil {
		return
	}
	for t.chunksClaimed.Load() < t.totalChunks {
		chunk := t.chunksClaimed.Add(1) - 1
		if chunk >= t.totalChunks {
			break
		}
		s.migrate(tid, t, pred, int(chunk))
		if t.chunksDone.Add(1) == t.totalChunks {
			s.retire(t, pred)
		}
	}
	s.waitMigration(t)
}

// migrate moves one chunk of pred into t. The caller owns the chunk, so
// nothing else marks these slots; marking with a fetch-or always succeeds
// on the first attempt even while stale writers race on the same slot.
func (s *Set) migrate(tid int, t, pred *table, chunk int) {
	start := chunk * s.chunkSize
	end := min(start+s.chunkSize, len(pred.slots))
	for i := start; i < end; i++ {
		v := pred.slots[i].Or(markedBit)
		if v&markedBit != 0 || !isKey(v) {
			continue
		}
		// Expansion stays off so migration cannot trigger another resize.
		s.insert(tid, v, s.hash(v), t, true)
	}
}

// waitMigration spins until every chunk of t's predecessor is migrated.
func (s *Set) waitMigration(t *table) {
	var spins int
	for t.chunksDone.Load() < t.totalChunks {
		pause(&spins, s.spinWait)
	}
}
