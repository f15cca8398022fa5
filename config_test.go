package hyperloglog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	require.Equal(t, 14, e.P())
	require.Equal(t, 64, e.HashBits())
	require.Equal(t, Sparse, e.Encoding())
}

func TestNewRejectsInvalidP(t *testing.T) {
	_, err := New(WithP(3))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = New(WithP(17))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewCapsHashBits(t *testing.T) {
	e, err := New(WithHashBits(256))
	require.NoError(t, err)
	require.Equal(t, 128, e.HashBits())
}

func TestNewWithDenseEncoding(t *testing.T) {
	e, err := New(WithEncoding(Dense))
	require.NoError(t, err)
	require.Equal(t, Dense, e.Encoding())
}

func TestComputeAlphaMMBuckets(t *testing.T) {
	require.InDelta(t, 0.673*16*16, computeAlphaMM(16, 16), 1e-9)
	require.InDelta(t, 0.697*16*16, computeAlphaMM(32, 16), 1e-9)
	require.InDelta(t, 0.709*16*16, computeAlphaMM(64, 16), 1e-9)

	want128 := (0.7213 / (1 + 1.079/16)) * 16 * 16
	require.InDelta(t, want128, computeAlphaMM(128, 16), 1e-9)
}

// TestNewUsesUncappedHashBitsForAlpha guards against alpha selection being
// fed the counting-time effBits (always <=64) instead of the configured,
// 128-capped hashBits: a 128-bit estimator must land in the formula
// branch, not silently reuse the hashBits<=64 constant.
func TestNewUsesUncappedHashBitsForAlpha(t *testing.T) {
	e64, err := New(WithP(10), WithHashBits(64))
	require.NoError(t, err)
	e128, err := New(WithP(10), WithHashBits(128))
	require.NoError(t, err)

	require.NotEqual(t, e64.cfg.alphaMM, e128.cfg.alphaMM)

	m := float64(e128.cfg.m)
	want := (0.7213 / (1 + 1.079/m)) * m * m
	require.InDelta(t, want, e128.cfg.alphaMM, 1e-6)
}

func TestComputePromotionThreshold(t *testing.T) {
	require.Equal(t, (16384*6/8)/5, computePromotionThreshold(16384, true))
	require.Equal(t, 16384/3, computePromotionThreshold(16384, false))
}
