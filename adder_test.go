package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// sumKey formats a+b over n+1 result bits, matching SumWires order.
func sumKey(a, b uint64, n int) string {
	return fmt.Sprintf("%0*b", n+1, a+b)
}

func TestAdderSumsExhaustive(t *testing.T) {
	for n := 1; n <= 3; n++ {
		for a := uint64(0); a < 1<<n; a++ {
			for b := uint64(0); b < 1<<n; b++ {
				cla, err := NewCarryLookaheadAdder(n, AdderDecomp{NoDecomp, NoDecomp})
				require.NoError(t, err)
				require.NoError(t, cla.Circuit.CheckMoments())

				cla.PrepareOperands(a, b)
				hist, err := cla.ReadSum(NewSimulator(1), 3)
				require.NoError(t, err)
				require.Equal(t, map[string]int{sumKey(a, b, n): 3}, hist,
					"%d + %d over %d bits", a, b, n)
			}
		}
	}
}

func TestAdderWithDecomposedToffolis(t *testing.T) {
	decomp := AdderDecomp{
		Compute:   ZeroAncillaTDepth4,
		Uncompute: ZeroAncillaTDepth0Uncompute,
	}
	cases := [][2]uint64{{0, 0}, {5, 11}, {15, 15}, {9, 6}, {7, 1}}
	for _, tc := range cases {
		cla, err := NewCarryLookaheadAdder(4, decomp)
		require.NoError(t, err)
		require.NoError(t, cla.Circuit.CheckMoments())
		require.Zero(t, TCountOfCircuit(cla.Circuit)%7)

		cla.PrepareOperands(tc[0], tc[1])
		hist, err := cla.ReadSum(NewSimulator(2), 3)
		require.NoError(t, err)
		require.Equal(t, map[string]int{sumKey(tc[0], tc[1], 4): 3}, hist,
			"%d + %d", tc[0], tc[1])
	}
}

func TestAdderFourAncilla(t *testing.T) {
	decomp := AdderDecomp{
		Compute:   FourAncillaTDepth1A,
		Uncompute: FourAncillaTDepth1B,
	}
	for a := uint64(0); a < 4; a++ {
		for b := uint64(0); b < 4; b++ {
			cla, err := NewCarryLookaheadAdder(2, decomp)
			require.NoError(t, err)

			cla.PrepareOperands(a, b)
			hist, err := cla.ReadSum(NewSimulator(3), 2)
			require.NoError(t, err)
			require.Equal(t, map[string]int{sumKey(a, b, 2): 2}, hist)
		}
	}
}

func TestAdderRejectsZeroBits(t *testing.T) {
	_, err := NewCarryLookaheadAdder(0, AdderDecomp{NoDecomp, NoDecomp})
	require.Error(t, err)
}

// The point of carry lookahead is depth growing with log n while the
// ripple construction grows linearly.
func TestAdderDepthGrowth(t *testing.T) {
	depth8, err := NewCarryLookaheadAdder(8, AdderDecomp{NoDecomp, NoDecomp})
	require.NoError(t, err)
	depth16, err := NewCarryLookaheadAdder(16, AdderDecomp{NoDecomp, NoDecomp})
	require.NoError(t, err)

	d8 := Depth(depth8.Circuit)
	d16 := Depth(depth16.Circuit)
	require.Less(t, d16, 2*d8, "depth should grow sublinearly")
}
