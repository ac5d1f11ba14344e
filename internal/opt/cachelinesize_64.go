//go:build lfset_cachelinesize_64

package opt

// CacheLineSize_ forced by the lfset_cachelinesize_64 build tag.
const CacheLineSize_ = 64
