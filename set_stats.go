package lfset

import (
	"fmt"
	"iter"
)

// Capacity returns the slot count of the current table.
func (s *Set) Capacity() int {
	return len(s.current.Load().slots)
}

// InitialCapacity returns the capacity the Set was created with.
func (s *Set) InitialCapacity() int {
	return s.initCap
}

// Threads returns the number of thread ids the Set accepts.
func (s *Set) Threads() int {
	return s.threads
}

// Size returns the number of keys according to the exact counters of the
// current table. Under concurrent writers it is an estimate.
func (s *Set) Size() int {
	tab := s.current.Load()
	return int(tab.inserts.Exact() - tab.deletes.Exact())
}

// Range calls yield for every key in the set, stopping early if yield
// returns false. Like SumOfKeys it waits for a pending migration first and
// is not a snapshot.
func (s *Set) Range(yield func(key uint32) bool) {
	s.scan(yield)
}

// All returns an iterator over the keys of the set.
//
// Usage:
//
//	for k := range s.All() {
//		...
//	}
func (s *Set) All() iter.Seq[uint32] {
	return s.Range
}

// Stats returns statistics for the Set. Just like other Set methods, this
// one is thread-safe. Yet it's an O(N) operation, so it should be used only
// for diagnostics or debugging purposes.
func (s *Set) Stats() *SetStats {
	tab := s.current.Load()
	stats := &SetStats{
		Capacity:        len(tab.slots),
		InitialCapacity: s.initCap,
		Threads:         s.threads,
		Generation:      tab.gen,
		LiveGenerations: len(s.liveGenerations()),
		Resizes:         s.resizes.Load(),
		FullProbes:      s.fullProbes.Load(),
		ApproxInserts:   tab.inserts.Approximate(),
		ApproxDeletes:   tab.deletes.Approximate(),
		ExactInserts:    tab.inserts.Exact(),
		ExactDeletes:    tab.deletes.Exact(),
		PendingChunks:   tab.totalChunks - tab.chunksDone.Load(),
	}
	for i := range tab.slots {
		v := tab.slots[i].Load()
		if v&markedBit != 0 {
			stats.Marked++
			continue
		}
		switch v {
		case emptySlot:
			stats.Empty++
		case tombstone:
			stats.Tombstones++
		default:
			stats.Keys++
		}
	}
	return stats
}

// String returns a one-line summary of Stats.
func (s *Set) String() string {
	return s.Stats().String()
}

// SetStats is Set statistics.
//
// Warning: set statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type SetStats struct {
	// Capacity is the slot count of the current table.
	Capacity int
	// InitialCapacity is the capacity passed to New.
	InitialCapacity int
	// Threads is the number of accepted thread ids.
	Threads int
	// Generation is the id of the current table.
	Generation uint64
	// LiveGenerations is the number of tables that are current or still
	// being drained.
	LiveGenerations int
	// Resizes is the number of successor tables installed so far.
	Resizes int64
	// FullProbes counts insert probes that found no room in a whole
	// table. A steadily growing value means the resize policy cannot keep
	// up with the insert rate.
	FullProbes int64
	// Keys, Tombstones, Empty and Marked classify the slots of the current
	// table. Marked slots only appear once a successor is draining it.
	Keys       int
	Tombstones int
	Empty      int
	Marked     int
	// ApproxInserts and ApproxDeletes are the cheap counter reads of the
	// current table; ExactInserts and ExactDeletes include every shard.
	ApproxInserts int64
	ApproxDeletes int64
	ExactInserts  int64
	ExactDeletes  int64
	// PendingChunks is the number of predecessor chunks not yet migrated
	// into the current table.
	PendingChunks int64
}

func (st *SetStats) String() string {
	return fmt.Sprintf(
		"lfset.SetStats{capacity=%d init=%d gen=%d live=%d resizes=%d "+
			"full=%d keys=%d tombstones=%d empty=%d marked=%d "+
			"inserts=%d/%d deletes=%d/%d pending=%d}",
		st.Capacity, st.InitialCapacity, st.Generation, st.LiveGenerations,
		st.Resizes, st.FullProbes, st.Keys, st.Tombstones, st.Empty,
		st.Marked, st.ApproxInserts, st.ExactInserts, st.ApproxDeletes,
		st.ExactDeletes, st.PendingChunks,
	)
}
