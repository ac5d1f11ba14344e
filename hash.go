package lfset

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// HashFunc maps a key to a 32-bit digest. It must be pure and deterministic;
// the table index of a key is its digest modulo the table capacity.
type HashFunc func(key uint32) uint32

const murmur3Seed uint32 = 0x1a8b714c

// Murmur3 is the 32-bit MurmurHash3 of a single 4-byte block with a fixed
// seed. It is the default HashFunc.
//
//go:nosplit
func Murmur3(key uint32) uint32 {
	const (
		c1 = 0xcc9e2d51
		c2 = 0x1b873593
		n  = 0xe6546b64
	)
	k := key * c1
	k = k<<15 | k>>17
	k *= c2

	h := k ^ murmur3Seed
	h = h<<13 | h>>19
	h = h*5 + n

	h ^= 4

	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// XXHash hashes the little-endian bytes of key with XXH64 and folds the
// result to 32 bits.
func XXHash(key uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], key)
	return fold64(xxhash.Sum64(b[:]))
}

// XXH3 hashes the little-endian bytes of key with XXH3-64 and folds the
// result to 32 bits.
func XXH3(key uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], key)
	return fold64(xxh3.Hash(b[:]))
}

//go:nosplit
func fold64(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32)
}
