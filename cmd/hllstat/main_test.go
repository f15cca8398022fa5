package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&flagPrecision, "precision", 0, "")
	cmd.Flags().IntVar(&flagHashBits, "hash-bits", 0, "")
	cmd.Flags().BoolVar(&flagBitPack, "bit-pack", false, "")
	cmd.Flags().BoolVar(&flagMurmur, "murmur", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

// An explicit --bit-pack=false must win even when the environment-derived
// default is true; a plain "cfg.BitPack || flagBitPack" OR can never turn
// false once the default is true.
func TestResolveBitPackExplicitFalseOverridesEnvDefault(t *testing.T) {
	cmd := newTestCmd(t, "--bit-pack=false")
	require.False(t, resolveBitPack(cmd, cliConfig{BitPack: true}))
}

func TestResolveBitPackExplicitTrueOverridesEnvDefault(t *testing.T) {
	cmd := newTestCmd(t, "--bit-pack=true")
	require.True(t, resolveBitPack(cmd, cliConfig{BitPack: false}))
}

func TestResolveBitPackUnsetUsesEnvDefault(t *testing.T) {
	cmd := newTestCmd(t)
	require.True(t, resolveBitPack(cmd, cliConfig{BitPack: true}))
	require.False(t, resolveBitPack(cmd, cliConfig{BitPack: false}))
}

func TestBuildEstimatorFlagOverridesPrecisionAndHashBits(t *testing.T) {
	cmd := newTestCmd(t, "--precision=8", "--hash-bits=32")
	e, err := buildEstimator(cmd, cliConfig{Precision: 14, HashBits: 64, BitPack: true})
	require.NoError(t, err)
	require.Equal(t, 8, e.P())
	require.Equal(t, 32, e.HashBits())
}

func TestBuildEstimatorFlagUnsetUsesEnvDefault(t *testing.T) {
	cmd := newTestCmd(t)
	e, err := buildEstimator(cmd, cliConfig{Precision: 12, HashBits: 64, BitPack: true})
	require.NoError(t, err)
	require.Equal(t, 12, e.P())
}
