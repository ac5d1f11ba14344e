package lfset

import (
	"fmt"
	"runtime"
	_ "unsafe" // for linkname

	"github.com/llxisdsh/lfset/internal/opt"
)

// ============================================================================
// Private Constants
// ============================================================================

// cacheLineSize is the size of a cache line in bytes.
const cacheLineSize = opt.CacheLineSize_

// Slot encoding. The mark bit is the most significant bit of the slot; the
// tombstone is the largest value that does not use it. Real keys therefore
// live in [1, tombstone-1].
const (
	emptySlot uint32 = 0
	tombstone uint32 = 0x7FFFFFFF
	markedBit uint32 = 0x80000000
)

const (
	// MinKey is the smallest key a Set accepts.
	MinKey uint32 = 1
	// MaxKey is the largest key a Set accepts.
	MaxKey uint32 = tombstone - 1
)

// Resize and migration configuration
const (
	// defaultChunkSize: predecessor slots migrated per claimed chunk
	defaultChunkSize = 4096
	// defaultSpinWait: pause-spins between yields while waiting on migration
	defaultSpinWait = 10
	// defaultProbeSuspicion: probe depth after which the exact insert
	// count is consulted instead of the approximate one
	defaultProbeSuspicion = 10
	// growFactor: successor capacity is growFactor times the live count
	growFactor = 4
)

// ============================================================================
// Utility Functions
// ============================================================================

// isKey reports whether an unmarked slot value holds a key.
//
//go:nosplit
func isKey(v uint32) bool {
	return v != emptySlot && v != tombstone
}

// checkKey panics on values that would collide with the slot sentinels.
func checkKey(key uint32) {
	if key < MinKey || key > MaxKey {
		panic(fmt.Sprintf("lfset: key %d out of range [%d, %d]", key, MinKey, MaxKey))
	}
}

func checkTid(tid, threads int) {
	if uint(tid) >= uint(threads) {
		panic(fmt.Sprintf("lfset: thread id %d out of range [0, %d)", tid, threads))
	}
}

// ceilDiv returns ceil(a/b) for positive b.
//
//go:nosplit
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// ============================================================================
// Locker Utilities
// ============================================================================

// noCopy marks a struct for go vet's copylocks check. Keep it as a named
// field so its methods stay out of the holder's method set.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// pause burns one PAUSE-style spin and, once limit spins have been spent,
// yields the processor instead and starts over.
func pause(spins *int, limit int) {
	if *spins < limit {
		*spins++
		runtime_doSpin()
		return
	}
	*spins = 0
	runtime.Gosched()
}

// runtime_doSpin executes a short burst of PAUSE instructions.
//
//go:linkname runtime_doSpin sync.runtime_doSpin
func runtime_doSpin()
