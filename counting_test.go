package main

import "testing"

// sampleCircuit has one of everything the counters care about:
// moments:  0           1        2        3
//           H q0, T q1  T† q1    CX 0→1   CCX (0,1)→2
func sampleCircuit() *Circuit {
	c := NewCircuit("q0", "q1", "q2")
	c.AddGate("H", 0, 0)
	c.AddGate("T", 1, 0)
	c.AddDaggerGate("T", 1, 1)
	c.AddGate("CX", 1, 2, 0)
	c.AddCCX(0, 1, 2, 3)
	return c
}

func TestCounters(t *testing.T) {
	c := sampleCircuit()

	if got := CountGates(c); got != 5 {
		t.Errorf("CountGates = %d, want 5", got)
	}
	if got := Depth(c); got != 4 {
		t.Errorf("Depth = %d, want 4", got)
	}
	if got := TCountOfCircuit(c); got != 2 {
		t.Errorf("TCount = %d, want 2 (dagger included)", got)
	}
	if got := TDepthOfCircuit(c); got != 2 {
		t.Errorf("TDepth = %d, want 2", got)
	}
	if got := HCountOfCircuit(c); got != 1 {
		t.Errorf("HCount = %d, want 1", got)
	}
	if got := CNOTCountOfCircuit(c); got != 1 {
		t.Errorf("CNOTCount = %d, want 1", got)
	}
	if got := ToffoliCountOfCircuit(c); got != 1 {
		t.Errorf("ToffoliCount = %d, want 1", got)
	}
}

func TestDepthSkipsEmptyMoments(t *testing.T) {
	c := sampleCircuit()
	c.InsertStep(2)

	if got := Depth(c); got != 4 {
		t.Errorf("Depth after inserting empty moment = %d, want 4", got)
	}
	if c.MaxSteps != 5 {
		t.Errorf("MaxSteps = %d, want 5", c.MaxSteps)
	}
}

func TestOpIndicesMomentOrder(t *testing.T) {
	c := NewCircuit("q0", "q1")
	c.AddGate("T", 0, 1)
	c.AddGate("T", 1, 0) // appended later but in an earlier moment

	indices := OpIndices(c, isT)
	if len(indices) != 2 {
		t.Fatalf("expected 2 indices, got %d", len(indices))
	}
	// Moment order: the gate at step 0 (list index 1) comes first.
	if indices[0] != 1 || indices[1] != 0 {
		t.Errorf("indices = %v, want [1 0]", indices)
	}
}

func TestDepthOfOpsCountsSharedMoments(t *testing.T) {
	c := NewCircuit("q0", "q1")
	c.AddGate("T", 0, 0)
	c.AddDaggerGate("T", 1, 0)
	c.AddGate("T", 0, 1)

	if got := DepthOfOps(c, isT); got != 2 {
		t.Errorf("DepthOfOps = %d, want 2", got)
	}
	if got := CountOps(c, isT); got != 3 {
		t.Errorf("CountOps = %d, want 3", got)
	}
}
