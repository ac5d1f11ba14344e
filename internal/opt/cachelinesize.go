//go:build !lfset_cachelinesize_64 && !lfset_cachelinesize_128

package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize_ separates counter shards and the migration cursors of a
// table. x/sys/cpu sizes CacheLinePad for the target GOARCH.
const CacheLineSize_ = unsafe.Sizeof(cpu.CacheLinePad{})
