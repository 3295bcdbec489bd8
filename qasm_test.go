package main

import (
	"strings"
	"testing"
)

func qasmFixture() *Circuit {
	c := NewCircuit("q0", "q1", "q2")
	c.AddGate("H", 0, 0)
	c.AddGate("X", 1, 0)
	c.AddGate("T", 2, 1)
	c.AddDaggerGate("T", 0, 1)
	c.AddGate("CX", 1, 2, 0)
	c.AddCCX(0, 1, 2, 3)
	cbit := c.AddCbit()
	c.AddMeasure(2, 4, cbit)
	c.AddClassicalControlGate("CZ", 1, 5, cbit, 0)
	c.AddClassicalControlGate("X", 2, 5, cbit)
	return c
}

func TestToQASMOutput(t *testing.T) {
	qasm := qasmFixture().ToQASM()

	for _, want := range []string{
		"OPENQASM 2.0;",
		"qreg q[3];",
		"creg c[1];",
		"h q[0];",
		"tdg q[0];",
		"cx q[0], q[1];",
		"ccx q[0], q[1], q[2];",
		"measure q[2] -> c[0];",
		"if (c[0]==1) cz q[0], q[1];",
		"if (c[0]==1) x q[2];",
	} {
		if !strings.Contains(qasm, want) {
			t.Errorf("QASM output missing %q:\n%s", want, qasm)
		}
	}
}

func TestQASMRoundTrip(t *testing.T) {
	orig := qasmFixture()
	parsed := NewCircuit()
	if err := parsed.ParseQASM(orig.ToQASM()); err != nil {
		t.Fatal(err)
	}

	if parsed.NumQubits() != orig.NumQubits() {
		t.Errorf("qubits = %d, want %d", parsed.NumQubits(), orig.NumQubits())
	}
	if parsed.NumCbits != orig.NumCbits {
		t.Errorf("cbits = %d, want %d", parsed.NumCbits, orig.NumCbits)
	}
	if CountGates(parsed) != CountGates(orig) {
		t.Fatalf("gate count = %d, want %d", CountGates(parsed), CountGates(orig))
	}

	// The parser lays gates on consecutive moments in emission order, so
	// gate streams match pairwise up to the Step field.
	var flat []*Gate
	for _, moment := range orig.Moments() {
		flat = append(flat, moment...)
	}
	for i, g := range parsed.Gates {
		want := flat[i]
		if g.Type != want.Type || g.Target != want.Target ||
			g.Control != want.Control || g.IsDagger != want.IsDagger ||
			g.ClassicalControl != want.ClassicalControl || g.MeasureBit != want.MeasureBit {
			t.Errorf("gate %d = %+v, want %+v (up to step)", i, g, *want)
		}
	}
	if err := parsed.CheckMoments(); err != nil {
		t.Errorf("CheckMoments: %v", err)
	}
}

func TestQASMRoundTripCircuitSemantics(t *testing.T) {
	// Decomposed Toffoli exercises every emitted gate form; the reparsed
	// circuit must compute the same function.
	c := NewCircuit("a", "b", "t")
	c.AddGate("X", 0, 0)
	c.AddGate("X", 1, 0)
	Decompose(c, ZeroAncillaTDepth4, 0, 1, 2, 1)

	parsed := NewCircuit()
	if err := parsed.ParseQASM(c.ToQASM()); err != nil {
		t.Fatal(err)
	}

	sim := NewSimulator(1)
	hist, err := sim.Run(parsed, []int{0, 1, 2}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if hist["111"] != 5 {
		t.Errorf("histogram = %v, want all shots on 111", hist)
	}
}

func TestParseQASMIgnoresUnknownLines(t *testing.T) {
	c := NewCircuit()
	err := c.ParseQASM("OPENQASM 2.0;\nqreg q[2];\n// comment\nbarrier q;\nh q[1];\n")
	if err != nil {
		t.Fatal(err)
	}
	if CountGates(c) != 1 || c.Gates[0].Type != "H" || c.Gates[0].Target != 1 {
		t.Errorf("unexpected parse result: %+v", c.Gates)
	}
}
