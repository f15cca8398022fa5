package hyperloglog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectSparseToDenseDiscardedBitsZero(t *testing.T) {
	p := 14
	shift := uint(pPrime - p) // 11
	idxPrime := uint32(7) << shift
	entries := []uint32{packEntry(idxPrime, 3)}

	dense := newDenseRegister(1<<p, true)
	projectSparseToDense(entries, dense, p)

	require.Equal(t, uint8(3+shift), dense.get(7))
}

func TestProjectSparseToDenseDiscardedBitsNonzero(t *testing.T) {
	p := 14
	shift := uint(pPrime - p)
	idxPrime := (uint32(9) << shift) | 0b100 // rBits = 0b100 -> trailingZeros=2, val=3
	entries := []uint32{packEntry(idxPrime, 50)}

	dense := newDenseRegister(1<<p, true)
	projectSparseToDense(entries, dense, p)

	require.Equal(t, uint8(3), dense.get(9))
}

func TestProjectSparseToDenseIdempotentUnderDuplicateIndices(t *testing.T) {
	p := 14
	shift := uint(pPrime - p)
	base := uint32(2) << shift
	entries := []uint32{
		packEntry(base, 1),      // rBits == 0 -> val = 1 + shift
		packEntry(base|0b1, 10), // rBits != 0 -> val = trailingZeros(1)+1 == 1, collides to the same dense index
	}
	dense := newDenseRegister(1<<p, true)
	projectSparseToDense(entries, dense, p)

	require.Equal(t, uint8(1+shift), dense.get(2), "the > guard in set keeps the larger of the two projected values")
}
