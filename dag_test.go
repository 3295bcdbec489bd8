package main

import "testing"

func TestRepackParallelizesIndependentGates(t *testing.T) {
	c := NewCircuit("q0", "q1", "q2")
	// Deliberately serial schedule on disjoint wires.
	c.AddGate("H", 0, 0)
	c.AddGate("H", 1, 1)
	c.AddGate("H", 2, 2)

	packed := Repack(c)
	if got := Depth(packed); got != 1 {
		t.Errorf("Depth after repack = %d, want 1", got)
	}
	if got := CountGates(packed); got != 3 {
		t.Errorf("gate count after repack = %d, want 3", got)
	}
	if err := packed.CheckMoments(); err != nil {
		t.Errorf("CheckMoments: %v", err)
	}
}

func TestCriticalDepthOfChain(t *testing.T) {
	c := NewCircuit("q0", "q1")
	c.AddGate("CX", 1, 0, 0)
	c.AddGate("CX", 0, 1, 1)
	c.AddGate("CX", 1, 2, 0)
	c.AddGate("H", 0, 3)

	dag := FromCircuit(c)
	if got := dag.CriticalDepth(); got != 4 {
		t.Errorf("CriticalDepth = %d, want 4", got)
	}
}

func TestTopologicalSortRespectsWireOrder(t *testing.T) {
	c := NewCircuit("q0")
	c.AddGate("X", 0, 2)
	c.AddGate("H", 0, 0)

	dag := FromCircuit(c)
	order := dag.TopologicalSort()
	if len(order) != 2 {
		t.Fatalf("order length = %d", len(order))
	}
	if order[0].Gate.Type != "H" {
		t.Errorf("first gate = %s, want H", order[0].Gate.Type)
	}
}

func TestRepackKeepsMeasurementBeforeClassicalControl(t *testing.T) {
	c := NewCircuit("q0", "q1")
	c.AddGate("H", 0, 0)
	cbit := c.AddCbit()
	c.AddMeasure(0, 1, cbit)
	c.AddClassicalControlGate("X", 1, 2, cbit)

	packed := Repack(c)
	if err := packed.CheckMoments(); err != nil {
		t.Fatalf("CheckMoments: %v", err)
	}

	var measureStep, condStep int
	for _, g := range packed.Gates {
		switch {
		case g.Type == "MEASURE":
			measureStep = g.Step
		case g.ClassicalControl >= 0:
			condStep = g.Step
		}
	}
	if measureStep >= condStep {
		t.Errorf("measurement at step %d not before conditioned gate at step %d", measureStep, condStep)
	}
}

func TestRepackIsIdempotentOnPackedCircuit(t *testing.T) {
	bb, err := NewBucketBrigade(2, DecompScenario{
		FanIn:  ZeroAncillaTDepth4,
		Mem:    ZeroAncillaTDepth4,
		FanOut: ZeroAncillaTDepth4,
	})
	if err != nil {
		t.Fatal(err)
	}

	once := Repack(bb.Circuit)
	twice := Repack(once)
	if Depth(once) != Depth(twice) {
		t.Errorf("repack not stable: %d then %d", Depth(once), Depth(twice))
	}
	if Depth(once) != FromCircuit(bb.Circuit).CriticalDepth() {
		t.Errorf("repacked depth %d != critical depth %d", Depth(once), FromCircuit(bb.Circuit).CriticalDepth())
	}
}
