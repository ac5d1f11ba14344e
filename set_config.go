package lfset

// ============================================================================
// Configuration
// ============================================================================

// SetConfig defines configurable options for Set initialization.
// The construction parameters every Set needs (thread count and initial
// capacity) are arguments of New; everything here has a working default.
type SetConfig struct {
	// hash maps keys to table positions.
	// If nil, Murmur3 is used.
	hash HashFunc

	// chunkSize is the number of predecessor slots a helper claims and
	// migrates as one unit. Smaller chunks spread migration across more
	// helpers; larger chunks reduce traffic on the claim counter.
	chunkSize int

	// spinWait is the number of PAUSE spins a goroutine waiting for
	// migration to finish performs before it yields the processor.
	spinWait int

	// counterThreshold is the fold threshold of the per-table approximate
	// counters. Zero selects max(1000, 30*threads).
	counterThreshold int

	// probeSuspicion is the probe depth past which an insert stops trusting
	// the approximate counter and consults the exact count.
	probeSuspicion int

	// noFullResize disables the forced expansion that otherwise follows an
	// insert probe which exhausted the whole table.
	noFullResize bool
}

func defaultSetConfig() SetConfig {
	return SetConfig{
		hash:           Murmur3,
		chunkSize:      defaultChunkSize,
		spinWait:       defaultSpinWait,
		probeSuspicion: defaultProbeSuspicion,
	}
}

// WithHasher sets the key hash function. Pass nil to keep Murmur3.
//
// Usage:
//
//	s := New(8, 1024, WithHasher(XXH3))
func WithHasher(hash HashFunc) func(*SetConfig) {
	return func(c *SetConfig) {
		if hash != nil {
			c.hash = hash
		}
	}
}

// WithChunkSize sets how many predecessor slots are migrated per claimed
// chunk. If n is zero or negative, the value is ignored.
func WithChunkSize(n int) func(*SetConfig) {
	return func(c *SetConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithSpinWait sets how many PAUSE spins a migration waiter performs
// between yields. Zero yields on every poll. Negative values are ignored.
func WithSpinWait(n int) func(*SetConfig) {
	return func(c *SetConfig) {
		if n >= 0 {
			c.spinWait = n
		}
	}
}

// WithCounterThreshold sets the shard fold threshold of the per-table
// insert and delete counters. If n is zero or negative, the value is
// ignored.
//
// Lower thresholds make the cheap resize check more accurate at the cost of
// more traffic on the shared total.
func WithCounterThreshold(n int) func(*SetConfig) {
	return func(c *SetConfig) {
		if n > 0 {
			c.counterThreshold = n
		}
	}
}

// WithProbeSuspicion sets the probe depth after which inserts consult the
// exact insert count. Negative values are ignored.
func WithProbeSuspicion(n int) func(*SetConfig) {
	return func(c *SetConfig) {
		if n >= 0 {
			c.probeSuspicion = n
		}
	}
}

// WithFullTableResize controls what happens when an insert probes every
// slot of a table without finding room. When enabled (the default) the
// insert forces an expansion and retries; otherwise it reports false.
func WithFullTableResize(enabled bool) func(*SetConfig) {
	return func(c *SetConfig) {
		c.noFullResize = !enabled
	}
}
