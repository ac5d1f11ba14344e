//go:build lfset_cachelinesize_128

package opt

// CacheLineSize_ forced by the lfset_cachelinesize_128 build tag.
// Useful on Apple silicon and some POWER parts where x/sys reports 64.
const CacheLineSize_ = 128
