// Package hashutil reduces arbitrary Go values to the uint64 hashes the
// hyperloglog core consumes. The core package never hashes anything
// itself — every Add call expects a pre-hashed value — so every caller
// that isn't already working with hashes goes through here first.
package hashutil

import (
	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// Uint64 hashes a uint64 by reducing it to its 8 little-endian bytes and
// feeding xxhash. Plain integer inputs (IDs, counters) are not
// well-distributed on their own, so this still goes through a real hash
// rather than being used verbatim.
func Uint64(v uint64) uint64 {
	var buf [8]byte
	putUint64(buf[:], v)
	return xxhash.Sum64(buf[:])
}

// String hashes a string with xxhash, the default hash family for this
// package.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes hashes a byte slice with xxhash.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func putUint64(buf []byte, v uint64) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	buf[4] = byte(v >> 32)
	buf[5] = byte(v >> 40)
	buf[6] = byte(v >> 48)
	buf[7] = byte(v >> 56)
}

// Hasher is an alternate hash family, for callers who need a second,
// independent hash (double-hashing schemes, or cross-checking estimator
// accuracy against hash-quality assumptions).
type Hasher interface {
	Uint64(v uint64) uint64
	String(s string) uint64
	Bytes(b []byte) uint64
}

// NewMurmur returns a Hasher backed by murmur3 rather than xxhash.
func NewMurmur() Hasher {
	return murmurHasher{}
}

type murmurHasher struct{}

func (murmurHasher) Uint64(v uint64) uint64 {
	var buf [8]byte
	putUint64(buf[:], v)
	return murmur3.Sum64(buf[:])
}

func (murmurHasher) String(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}

func (murmurHasher) Bytes(b []byte) uint64 {
	return murmur3.Sum64(b)
}
