package main

import (
	"fmt"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	DisableLogger()
	os.Exit(m.Run())
}

var verifyScenarios = []DecompScenario{
	{NoDecomp, NoDecomp, NoDecomp, false},
	{NoDecomp, NoDecomp, NoDecomp, true},
	{ZeroAncillaTDepth4, ZeroAncillaTDepth4, ZeroAncillaTDepth4, false},
	{ZeroAncillaTDepth4Compute, ZeroAncillaTDepth4, ZeroAncillaTDepth0Uncompute, true},
	{NoDecomp, ZeroAncillaTDepth4, NoDecomp, true},
	{FourAncillaTDepth1A, FourAncillaTDepth1A, FourAncillaTDepth1B, false},
	{FourAncillaTDepth1A, FourAncillaTDepth1A, FourAncillaTDepth1B, true},
}

func TestVerifyCountsAcrossScenarios(t *testing.T) {
	for n := 2; n <= 3; n++ {
		for _, scenario := range verifyScenarios {
			t.Run(fmt.Sprintf("n=%d %s", n, scenario), func(t *testing.T) {
				bb, err := NewBucketBrigade(n, scenario)
				require.NoError(t, err)
				require.NoError(t, bb.Circuit.CheckMoments())
				require.NoError(t, bb.Verify())
			})
		}
	}
}

func TestBucketBrigadeRejectsSmallTree(t *testing.T) {
	_, err := NewBucketBrigade(1, DecompScenario{})
	require.Error(t, err)
	_, err = NewBucketBrigade(0, DecompScenario{})
	require.Error(t, err)
}

func TestToffoliCountsByStage(t *testing.T) {
	bb, err := NewBucketBrigade(3, DecompScenario{NoDecomp, NoDecomp, NoDecomp, false})
	require.NoError(t, err)

	// 2^n - 2 per fan stage, 2^n in the memory stage.
	require.Equal(t, 6+8+6, ToffoliCountOfCircuit(bb.Circuit))
}

// readoutScenarios are small enough to simulate end to end.
var readoutScenarios = []DecompScenario{
	{NoDecomp, NoDecomp, NoDecomp, false},
	{ZeroAncillaTDepth4, ZeroAncillaTDepth4, ZeroAncillaTDepth4, false},
	{ZeroAncillaTDepth4Compute, ZeroAncillaTDepth4, ZeroAncillaTDepth0Uncompute, true},
}

func TestReadoutMatchesMemory(t *testing.T) {
	const memory = uint64(0b0110)
	for _, scenario := range readoutScenarios {
		for address := 0; address < 4; address++ {
			t.Run(fmt.Sprintf("%s addr=%d", scenario, address), func(t *testing.T) {
				bb, err := NewBucketBrigade(2, scenario)
				require.NoError(t, err)
				require.NoError(t, bb.PrepareState(address, memory))

				hist, err := bb.Readout(NewSimulator(7), 10)
				require.NoError(t, err)

				expected := fmt.Sprintf("%d", memory>>address&1)
				require.Equal(t, map[string]int{expected: 10}, hist)
			})
		}
	}
}

// The fan-out stage must return every routing and ancilla wire to zero,
// so after a full pass only address, memory and readout wires may be
// set.
func TestFanOutUncomputesRouting(t *testing.T) {
	bb, err := NewBucketBrigade(2, DecompScenario{ZeroAncillaTDepth4, ZeroAncillaTDepth4, ZeroAncillaTDepth4, false})
	require.NoError(t, err)
	require.NoError(t, bb.PrepareState(3, 0b1000))

	_, state, err := NewSimulator(1).RunOnce(bb.Circuit)
	require.NoError(t, err)

	want := 0
	want |= 1 << bb.addr[0]
	want |= 1 << bb.addr[1]
	want |= 1 << bb.mem["11"]
	want |= 1 << bb.out
	require.InDelta(t, 1.0, state.Prob(want), 1e-9)
}

func TestRemoveTGates(t *testing.T) {
	scenario := DecompScenario{ZeroAncillaTDepth4, ZeroAncillaTDepth4, ZeroAncillaTDepth4, false}
	bb, err := NewBucketBrigade(2, scenario)
	require.NoError(t, err)
	total := TCountOfCircuit(bb.Circuit)
	require.Equal(t, 8*7, total)

	rng := rand.New(rand.NewSource(3))
	mutated, err := bb.RemoveTGates(0.5, rng, false)
	require.NoError(t, err)

	require.Equal(t, total, TCountOfCircuit(bb.Circuit), "inplace=false must not touch the receiver")
	require.Equal(t, total/2, TCountOfCircuit(mutated.Circuit))

	_, err = mutated.RemoveTGates(1.0, rng, true)
	require.NoError(t, err)
	require.Equal(t, 0, TCountOfCircuit(mutated.Circuit))
}

func TestRemoveTGatesRejectsBadFraction(t *testing.T) {
	bb, err := NewBucketBrigade(2, DecompScenario{ZeroAncillaTDepth4, ZeroAncillaTDepth4, ZeroAncillaTDepth4, false})
	require.NoError(t, err)
	total := TCountOfCircuit(bb.Circuit)

	rng := rand.New(rand.NewSource(1))
	_, err = bb.RemoveTGates(1.5, rng, false)
	require.Error(t, err)
	_, err = bb.RemoveTGates(-0.1, rng, false)
	require.Error(t, err)
	require.Equal(t, total, TCountOfCircuit(bb.Circuit), "rejected call must not mutate")
}

func TestPrepareStateRejectsBadAddress(t *testing.T) {
	bb, err := NewBucketBrigade(2, DecompScenario{NoDecomp, NoDecomp, NoDecomp, false})
	require.NoError(t, err)
	depth := Depth(bb.Circuit)

	require.Error(t, bb.PrepareState(7, 0b10))
	require.Error(t, bb.PrepareState(-1, 0))
	require.Equal(t, depth, Depth(bb.Circuit), "rejected call must not prepend a moment")

	require.NoError(t, bb.PrepareState(3, 0))
}

func TestRepackAfterRemoval(t *testing.T) {
	bb, err := NewBucketBrigade(2, DecompScenario{ZeroAncillaTDepth4, ZeroAncillaTDepth4, ZeroAncillaTDepth4, false})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	mutated, err := bb.RemoveTGates(1.0, rng, false)
	require.NoError(t, err)
	before := Depth(mutated.Circuit)

	repacked := Repack(mutated.Circuit)
	require.NoError(t, repacked.CheckMoments())
	require.LessOrEqual(t, Depth(repacked), before)
	require.Equal(t, CountGates(mutated.Circuit), CountGates(repacked))
	require.Equal(t, FromCircuit(repacked).CriticalDepth(), Depth(repacked))
}

func TestCopyIsDeep(t *testing.T) {
	bb, err := NewBucketBrigade(2, DecompScenario{NoDecomp, NoDecomp, NoDecomp, false})
	require.NoError(t, err)

	cp := bb.Copy()
	cp.Circuit.AddGate("X", 0, cp.Circuit.MaxSteps)
	require.Equal(t, len(bb.Circuit.Gates)+1, len(cp.Circuit.Gates))

	replacement := NewCircuit("w")
	cp.SetCircuit(replacement)
	require.NotSame(t, bb.Circuit, cp.Circuit)
}

func TestBinaryStrings(t *testing.T) {
	require.Equal(t, []string{"0", "1"}, binaryStrings(1))
	require.Equal(t, []string{"00", "01", "10", "11"}, binaryStrings(2))
	require.Len(t, binaryStrings(4), 16)
}
