//go:build !lfset_enable_padding && (lfset_disable_padding || amd64 || 386 || arm || mips || mipsle || wasm)

package opt

// CounterStripe_ is one thread's shard of an ApproxCounter, stored densely.
// amd64 and the 32-bit targets take this layout unless lfset_enable_padding
// is set; lfset_disable_padding selects it everywhere else.
type CounterStripe_ struct {
	C uintptr // owner-written, read atomically by Exact
}

const Padded_ = false
