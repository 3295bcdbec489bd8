package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// blockCircuit decomposes a single Toffoli on fresh wires, with the
// given basis state prepared first.
func blockCircuit(typ ToffoliDecompType, a, b, t int) *Circuit {
	c := NewCircuit("a", "b", "t")
	if a == 1 {
		c.AddGate("X", 0, 0)
	}
	if b == 1 {
		c.AddGate("X", 1, 0)
	}
	if t == 1 {
		c.AddGate("X", 2, 0)
	}
	Decompose(c, typ, 0, 1, 2, 1)
	return c
}

func TestDecompMetricsMatchCounting(t *testing.T) {
	for _, typ := range decompChoices {
		t.Run(typ.String(), func(t *testing.T) {
			c := NewCircuit("a", "b", "t")
			consumed := Decompose(c, typ, 0, 1, 2, 0)
			m := typ.Metrics()

			require.NoError(t, c.CheckMoments())
			require.Equal(t, m.Depth, consumed)
			require.Equal(t, m.Depth, Depth(c))
			require.Equal(t, m.TCount, TCountOfCircuit(c))
			require.Equal(t, m.TDepth, TDepthOfCircuit(c))
			require.Equal(t, m.HCount, HCountOfCircuit(c))
			require.Equal(t, m.CNOTCount, CNOTCountOfCircuit(c))
			require.Equal(t, m.Ancillas, c.NumQubits()-3)
			require.Equal(t, m.Cbits, c.NumCbits)
		})
	}
}

func TestDecomposeMatchesToffoliOnBasisStates(t *testing.T) {
	unitary := []ToffoliDecompType{
		NoDecomp,
		ZeroAncillaTDepth4,
		ZeroAncillaTDepth4Compute,
		FourAncillaTDepth1A,
		FourAncillaTDepth1B,
	}
	sim := NewSimulator(1)

	for _, typ := range unitary {
		for input := 0; input < 8; input++ {
			a, b, tt := input&1, input>>1&1, input>>2&1
			c := blockCircuit(typ, a, b, tt)

			_, state, err := sim.RunOnce(c)
			require.NoError(t, err)

			want := a | b<<1 | (tt^(a&b))<<2
			require.InDelta(t, 1.0, state.Prob(want), 1e-9,
				"%s input %03b", typ, input)
		}
	}
}

// A basis-state check misses diagonal phase errors, so sandwich the
// decomposed block between Hadamards and a plain Toffoli: the composite
// is the identity exactly when the block equals CCX including phases.
func TestDecomposePhaseExact(t *testing.T) {
	unitary := []ToffoliDecompType{
		ZeroAncillaTDepth4,
		FourAncillaTDepth1A,
		FourAncillaTDepth1B,
	}
	sim := NewSimulator(1)

	for _, typ := range unitary {
		c := NewCircuit("a", "b", "t")
		for q := 0; q < 3; q++ {
			c.AddGate("H", q, 0)
		}
		consumed := Decompose(c, typ, 0, 1, 2, 1)
		c.AddCCX(0, 1, 2, 1+consumed)
		for q := 0; q < 3; q++ {
			c.AddGate("H", q, 2+consumed)
		}

		_, state, err := sim.RunOnce(c)
		require.NoError(t, err)
		require.InDelta(t, 1.0, state.Prob(0), 1e-9, typ.String())
	}
}

// The measurement-based variant erases a target holding AND(a, b). Run a
// plain Toffoli first, then the erasing block, and require the exact
// input state back with the classical bit consumed.
func TestMeasureUncomputeErasesAnd(t *testing.T) {
	for input := 0; input < 4; input++ {
		a, b := input&1, input>>1&1

		c := NewCircuit("a", "b", "t")
		if a == 1 {
			c.AddGate("X", 0, 0)
		}
		if b == 1 {
			c.AddGate("X", 1, 0)
		}
		c.AddCCX(0, 1, 2, 1)
		Decompose(c, ZeroAncillaTDepth0Uncompute, 0, 1, 2, 2)
		require.Equal(t, 1, c.NumCbits)

		// Both measurement branches must land on the same state.
		for seed := int64(1); seed <= 8; seed++ {
			_, state, err := NewSimulator(seed).RunOnce(c)
			require.NoError(t, err)
			require.InDelta(t, 1.0, state.Prob(a|b<<1), 1e-9,
				fmt.Sprintf("input %02b seed %d", input, seed))
		}
	}
}

func TestDecompTypeStrings(t *testing.T) {
	require.Equal(t, "NO_DECOMP", NoDecomp.String())
	require.Equal(t, "ZERO_ANCILLA_TDEPTH_4_COMPUTE", ZeroAncillaTDepth4Compute.String())
	require.Equal(t, ZeroAncillaTDepth4.Metrics(), ZeroAncillaTDepth4Compute.Metrics())
	require.Equal(t, FourAncillaTDepth1A.Metrics(), FourAncillaTDepth1B.Metrics())

	parsed, err := ParseToffoliDecompType("four_ancilla_tdepth_1_a")
	require.NoError(t, err)
	require.Equal(t, FourAncillaTDepth1A, parsed)
	_, err = ParseToffoliDecompType("bogus")
	require.Error(t, err)
}
