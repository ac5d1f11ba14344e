//go:build lfset_enable_padding || (!lfset_disable_padding && !(amd64 || 386 || arm || mips || mipsle || wasm))

package opt

import "unsafe"

// CounterStripe_ is one thread's shard of an ApproxCounter, padded out to a
// full cache line so neighbouring shards never share one. This is the
// default on 64-bit targets other than amd64 and whenever the
// lfset_enable_padding tag is set.
type CounterStripe_ struct {
	C uintptr // owner-written, read atomically by Exact
	_ [CacheLineSize_ - unsafe.Sizeof(uintptr(0))]byte
}

const Padded_ = true
