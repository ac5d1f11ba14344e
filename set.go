package lfset

import (
	"sync/atomic"

	"github.com/llxisdsh/pb"
)

// Set is a lock-free, incrementally resizable set of uint32 keys stored in
// an open-addressed table with linear probing.
//
// Concurrency model:
//   - Every slot is a single atomic word holding EMPTY, a key, a tombstone,
//     or any of those with the mark bit set. All mutation is a single-word
//     CAS; no operation takes a lock.
//   - Insert and erase check the per-table approximate counters on every
//     probe step. When the table is more than half full a successor table is
//     built and installed with one CAS on the current-table handle; racing
//     builders discard their copy.
//   - Migration moves the predecessor's slots into the successor in chunks.
//     Any goroutine that runs an insert or erase during the resize window
//     claims chunks and helps; the chunk owner marks each predecessor slot
//     before copying it so that stale writers fail their CAS and retry
//     against the new table.
//   - Helpers spin until every chunk is done before touching the successor,
//     so a table is never mutated while its predecessor still holds keys.
//
// Keys must lie in [MinKey, MaxKey]; 0, the tombstone value and anything with
// the top bit set panic. Every operation that can write takes a thread id in
// [0, threads) used to pick a counter shard; concurrently active goroutines
// must use distinct ids.
//
// Example:
//
//	s := New(4, 64)
//	s.InsertIfAbsent(0, 42)
//	ok := s.Contains(42)
type Set struct {
	_          noCopy
	current    atomic.Pointer[table]
	gens       pb.HashTrieMap[uint64, *table]
	nextGen    atomic.Uint64
	resizes    atomic.Int64
	fullProbes atomic.Int64

	hash             HashFunc
	threads          int
	initCap          int
	chunkSize        int
	spinWait         int
	counterThreshold int
	probeSuspicion   int
	fullResize       bool
}

// table is one generation of the set. Its shape never changes; a resize
// builds a successor instead.
type table struct {
	slots []atomic.Uint32
	// pred is the table being drained into this one. It is cleared once the
	// last chunk has been migrated.
	pred        atomic.Pointer[table]
	predCap     int
	totalChunks int64
	_           [cacheLineSize]byte
	// chunksClaimed hands out chunk indexes; chunksDone counts finished ones.
	chunksClaimed atomic.Int64
	_             [cacheLineSize - 8]byte
	chunksDone    atomic.Int64
	_             [cacheLineSize - 8]byte
	inserts       *ApproxCounter
	deletes       *ApproxCounter
	gen           uint64
}

// New creates a Set for up to threads concurrently active goroutines with
// room for capacity keys before the first resize.
//
// Configuration options:
//   - WithHasher(fn): key hash, Murmur3 by default.
//   - WithChunkSize(n): migration unit, 4096 slots by default.
//   - WithSpinWait(n): PAUSE spins between yields while waiting on migration.
//   - WithCounterThreshold(n): shard fold threshold of the resize counters.
//   - WithProbeSuspicion(n): probe depth that triggers the exact count check.
//   - WithFullTableResize(b): force a resize when an insert finds no room.
//
// panic if threads <= 0 or capacity <= 0.
func New(threads, capacity int, options ...func(*SetConfig)) *Set {
	if threads <= 0 {
		panic("lfset: threads must be positive")
	}
	if capacity <= 0 {
		panic("lfset: capacity must be positive")
	}
	cfg := defaultSetConfig()
	for _, o := range options {
		o(&cfg)
	}
	s := &Set{
		hash:             cfg.hash,
		threads:          threads,
		initCap:          capacity,
		chunkSize:        cfg.chunkSize,
		spinWait:         cfg.spinWait,
		counterThreshold: cfg.counterThreshold,
		probeSuspicion:   cfg.probeSuspicion,
		fullResize:       !cfg.noFullResize,
	}
	t := s.newTable(capacity, nil)
	s.register(t)
	s.current.Store(t)
	return s
}

func (s *Set) newTable(capacity int, pred *table) *table {
	t := &table{
		slots:   make([]atomic.Uint32, capacity),
		inserts: NewApproxCounter(s.threads, s.counterThreshold),
		deletes: NewApproxCounter(s.threads, s.counterThreshold),
		gen:     s.nextGen.Add(1) - 1,
	}
	if pred != nil {
		t.predCap = len(pred.slots)
		t.totalChunks = int64(ceilDiv(t.predCap, s.chunkSize))
		t.pred.Store(pred)
	}
	return t
}

// Contains reports whether key is in the set. It never writes and never
// waits; under concurrent mutation the answer may already be stale.
func (s *Set) Contains(key uint32) bool {
	checkKey(key)
	h := s.hash(key)
	for {
		tab := s.current.Load()
		// Sample migration progress before probing: if it was pending, no
		// erase can have run against tab yet, so a key still sitting in an
		// unmigrated chunk of the predecessor is live.
		var pred *table
		if tab.chunksDone.Load() < tab.totalChunks {
			pred = tab.pred.Load()
		}
		found, settled := tab.lookup(key, h)
		if !settled {
			// tab has been superseded
			continue
		}
		if found {
			return true
		}
		if pred != nil {
			return pred.holds(key, h)
		}
		return false
	}
}

// InsertIfAbsent adds key on behalf of thread tid. It returns false if the
// key was already present.
func (s *Set) InsertIfAbsent(tid int, key uint32) bool {
	checkKey(key)
	checkTid(tid, s.threads)
	return s.insert(tid, key, s.hash(key), nil, false)
}

// Erase removes key on behalf of thread tid. It returns false if the key
// was not present.
func (s *Set) Erase(tid int, key uint32) bool {
	checkKey(key)
	checkTid(tid, s.threads)
	h := s.hash(key)
	for {
		tab := s.current.Load()
		if erased, settled := s.tryErase(tid, key, h, tab); settled {
			return erased
		}
	}
}

// insert retries tryInsert until it settles. A nil tab starts from the
// current table; later attempts always rebind to whatever is current.
func (s *Set) insert(
	tid int,
	key, h uint32,
	tab *table,
	disableExpansion bool,
) bool {
	for {
		if tab == nil {
			tab = s.current.Load()
		}
		if inserted, settled := s.tryInsert(tid, key, h, tab, disableExpansion); settled {
			return inserted
		}
		tab = nil
	}
}

// tryInsert makes one pass over tab. settled is false when the caller must
// restart against the current table.
func (s *Set) tryInsert(
	tid int,
	key, h uint32,
	tab *table,
	disableExpansion bool,
) (inserted, settled bool) {
	n := len(tab.slots)
	base := int(h % uint32(n))
	for i := range n {
		if !disableExpansion && s.expandAsNeeded(tid, tab, i) {
			return false, false
		}
		idx := base + i
		if idx >= n {
			idx -= n
		}
		slot := &tab.slots[idx]
		found := slot.Load()
		if found&markedBit != 0 {
			return false, false
		}
		if found == key {
			return false, true
		}
		if found != emptySlot {
			continue
		}
		if slot.CompareAndSwap(emptySlot, key) {
			tab.inserts.Increment(tid)
			return true, true
		}
		// Lost the race for this slot; see who won.
		found = slot.Load()
		if found&markedBit != 0 {
			return false, false
		}
		if found == key {
			return false, true
		}
	}

	s.fullProbes.Add(1)
	if !disableExpansion && s.fullResize {
		s.startExpansion(tid, tab)
		return false, false
	}
	return false, true
}

func (s *Set) tryErase(
	tid int,
	key, h uint32,
	tab *table,
) (erased, settled bool) {
	n := len(tab.slots)
	base := int(h % uint32(n))
	for i := range n {
		if s.expandAsNeeded(tid, tab, i) {
			return false, false
		}
		idx := base + i
		if idx >= n {
			idx -= n
		}
		slot := &tab.slots[idx]
		found := slot.Load()
		if found&markedBit != 0 {
			return false, false
		}
		if found == emptySlot {
			return false, true
		}
		if found != key {
			continue
		}
		if slot.CompareAndSwap(key, tombstone) {
			tab.deletes.Increment(tid)
			return true, true
		}
		// Either a concurrent erase won, or the slot was marked for
		// migration and the key now lives in the successor.
		if slot.Load()&markedBit != 0 {
			return false, false
		}
		return false, true
	}
	return false, true
}

// lookup probes for key. settled is false when a marked slot shows the
// table has been superseded.
func (t *table) lookup(key, h uint32) (found, settled bool) {
	n := len(t.slots)
	idx := int(h % uint32(n))
	for range n {
		v := t.slots[idx].Load()
		if v&markedBit != 0 {
			return false, false
		}
		if v == key {
			return true, true
		}
		if v == emptySlot {
			return false, true
		}
		if idx++; idx == n {
			idx = 0
		}
	}
	return false, true
}

// holds probes a predecessor that is being drained. Marked keys count: they
// are live and on their way to the successor.
func (t *table) holds(key, h uint32) bool {
	n := len(t.slots)
	idx := int(h % uint32(n))
	for range n {
		v := t.slots[idx].Load() &^ markedBit
		if v == key {
			return true
		}
		if v == emptySlot {
			return false
		}
		if idx++; idx == n {
			idx = 0
		}
	}
	return false
}

// SumOfKeys waits for any migration into the current table to finish, then
// returns the sum of every key it holds. It is a consistency check for
// quiescent callers, not a linearizable snapshot.
func (s *Set) SumOfKeys() int64 {
	var sum int64
	s.scan(func(key uint32) bool {
		sum += int64(key)
		return true
	})
	return sum
}

// scan waits for migration into the current table and then visits its
// keys in slot order.
func (s *Set) scan(yield func(key uint32) bool) {
	tab := s.current.Load()
	s.waitMigration(tab)
	for i := range tab.slots {
		v := tab.slots[i].Load() &^ markedBit
		if isKey(v) && !yield(v) {
			return
		}
	}
}
