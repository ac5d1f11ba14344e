package lfset

import (
	"sync/atomic"

	"github.com/llxisdsh/lfset/internal/opt"
)

// ApproxCounter is a per-thread sharded counter.
//
// Each thread increments its own shard; once a shard reaches the fold
// threshold its value is added to a shared atomic total and the shard is
// zeroed. Reading the total alone is cheap but may lag the true count by up
// to threads*threshold. Summing every shard as well gives the exact count
// once writers have quiesced.
//
// Set uses two of these per table to decide when to resize without putting
// a contended atomic on every insert.
type ApproxCounter struct {
	_         noCopy
	_         [cacheLineSize]byte
	total     atomic.Int64
	_         [cacheLineSize - 8]byte
	shards    []opt.CounterStripe_
	threshold uintptr
}

// NewApproxCounter creates a counter for threads distinct thread ids.
// A threshold <= 0 selects the default of max(1000, 30*threads).
//
// panic if threads <= 0.
func NewApproxCounter(threads, threshold int) *ApproxCounter {
	if threads <= 0 {
		panic("lfset: threads must be positive")
	}
	if threshold <= 0 {
		threshold = defaultCounterThreshold(threads)
	}
	return &ApproxCounter{
		shards:    make([]opt.CounterStripe_, threads),
		threshold: uintptr(threshold),
	}
}

func defaultCounterThreshold(threads int) int {
	return max(1000, 30*threads)
}

// Increment adds one on behalf of thread tid.
// Only the goroutine that owns tid may call it.
func (c *ApproxCounter) Increment(tid int) {
	p := &c.shards[tid].C
	v := atomic.LoadUintptr(p) + 1
	if v >= c.threshold {
		c.total.Add(int64(v))
		atomic.StoreUintptr(p, 0)
		return
	}
	atomic.StoreUintptr(p, v)
}

// Approximate returns the folded total only.
func (c *ApproxCounter) Approximate() int64 {
	return c.total.Load()
}

// Exact returns the folded total plus every shard. The shards are not read
// atomically as a group, so under concurrent writers the result is only
// a close estimate.
func (c *ApproxCounter) Exact() int64 {
	sum := c.total.Load()
	for i := range c.shards {
		sum += int64(atomic.LoadUintptr(&c.shards[i].C))
	}
	return sum
}

// Reset stores value into the total and zeroes all shards.
// Increments racing with Reset may be lost.
func (c *ApproxCounter) Reset(value int64) {
	c.total.Store(value)
	for i := range c.shards {
		atomic.StoreUintptr(&c.shards[i].C, 0)
	}
}

// Threads returns the number of shards.
func (c *ApproxCounter) Threads() int {
	return len(c.shards)
}

// Threshold returns the shard fold threshold.
func (c *ApproxCounter) Threshold() int {
	return int(c.threshold)
}
