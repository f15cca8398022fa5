package hyperloglog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenseSetMonotone(t *testing.T) {
	d := newDenseRegister(16, true)
	require.True(t, d.set(0, 5))
	require.False(t, d.set(0, 3), "lower value must not overwrite")
	require.True(t, d.set(0, 7))
	require.Equal(t, uint8(7), d.get(0))
}

func TestDenseNumZerosAccuracy(t *testing.T) {
	d := newDenseRegister(8, true)
	require.Equal(t, 8, d.numZeros)
	d.set(0, 1)
	require.Equal(t, 7, d.numZeros)
	d.set(0, 2) // raising an already-nonzero slot must not double-decrement
	require.Equal(t, 7, d.numZeros)
}

func TestDenseMaxValueAccuracy(t *testing.T) {
	d := newDenseRegister(8, true)
	d.set(3, 10)
	d.set(5, 4)
	require.Equal(t, uint8(10), d.maxValue)
	d.set(5, 20)
	require.Equal(t, uint8(20), d.maxValue)
}

func TestDenseSumInversePow2(t *testing.T) {
	d := newDenseRegister(4, true)
	// all zero: sum == m
	require.InDelta(t, 4.0, d.sumInversePow2(), 1e-9)
	d.set(0, 1)
	want := 3.0 + math.Exp2(-1)
	require.InDelta(t, want, d.sumInversePow2(), 1e-9)
}

func TestDenseMergeTakesMax(t *testing.T) {
	a := newDenseRegister(8, true)
	b := newDenseRegister(8, true)
	a.set(0, 3)
	b.set(0, 5)
	b.set(1, 2)
	require.NoError(t, a.merge(b))
	require.Equal(t, uint8(5), a.get(0))
	require.Equal(t, uint8(2), a.get(1))
}

func TestDenseMergeSizeMismatch(t *testing.T) {
	a := newDenseRegister(8, true)
	b := newDenseRegister(16, true)
	err := a.merge(b)
	require.Error(t, err)
	var sizeErr *SizeMismatchError
	require.ErrorAs(t, err, &sizeErr)
}

func TestDenseBytesRoundTrip(t *testing.T) {
	for _, bitPack := range []bool{true, false} {
		d := newDenseRegister(32, bitPack)
		for i := 0; i < 32; i++ {
			d.set(i, uint8(i%60))
		}
		data := d.toBytes()
		require.Len(t, data, 32)

		d2 := newDenseRegister(32, bitPack)
		require.NoError(t, d2.loadBytes(data))
		for i := 0; i < 32; i++ {
			require.Equal(t, d.get(i), d2.get(i), "index %d", i)
		}
	}
}

func TestDenseLoadBytesSizeMismatch(t *testing.T) {
	d := newDenseRegister(8, true)
	err := d.loadBytes(make([]byte, 4))
	require.Error(t, err)
}

func TestDenseAddRoutesByLowBits(t *testing.T) {
	d := newDenseRegister(16, true)
	// p = 4 -> m = 16; idx = hash & 0xF
	d.add(0x1, 4)
	require.NotEqual(t, uint8(0), d.get(1))
}
