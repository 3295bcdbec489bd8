package main

import "fmt"

// ToffoliDecompType selects how a Toffoli gate is realised over the
// Clifford+T gate set.
type ToffoliDecompType int

const (
	// NoDecomp keeps the plain CCX gate.
	NoDecomp ToffoliDecompType = iota
	// ZeroAncillaTDepth4 is the 7-T, 6-CNOT decomposition packed to
	// T-depth 4 without ancilla wires.
	ZeroAncillaTDepth4
	// ZeroAncillaTDepth4Compute is ZeroAncillaTDepth4 under a name that
	// marks its use on the compute side of a compute/uncompute pair.
	ZeroAncillaTDepth4Compute
	// ZeroAncillaTDepth0Uncompute erases target = AND(c1, c2) by an
	// X-basis measurement followed by a classically conditioned CZ and
	// reset. It is exact only when the target holds the AND of its
	// controls, which is what the fan-out stage guarantees.
	ZeroAncillaTDepth0Uncompute
	// FourAncillaTDepth1A spends four XOR ancillae to compress all seven
	// T gates into a single moment.
	FourAncillaTDepth1A
	// FourAncillaTDepth1B is FourAncillaTDepth1A with the T layer
	// conjugated, usable as its uncompute partner.
	FourAncillaTDepth1B
)

func (t ToffoliDecompType) String() string {
	switch t {
	case NoDecomp:
		return "NO_DECOMP"
	case ZeroAncillaTDepth4:
		return "ZERO_ANCILLA_TDEPTH_4"
	case ZeroAncillaTDepth4Compute:
		return "ZERO_ANCILLA_TDEPTH_4_COMPUTE"
	case ZeroAncillaTDepth0Uncompute:
		return "ZERO_ANCILLA_TDEPTH_0_UNCOMPUTE"
	case FourAncillaTDepth1A:
		return "FOUR_ANCILLA_TDEPTH_1_A"
	case FourAncillaTDepth1B:
		return "FOUR_ANCILLA_TDEPTH_1_B"
	default:
		return fmt.Sprintf("ToffoliDecompType(%d)", int(t))
	}
}

// DecompMetrics are the per-Toffoli resource costs of a decomposition,
// needed to predict circuit metrics without walking gates.
type DecompMetrics struct {
	Depth     int
	TCount    int
	TDepth    int
	HCount    int
	CNOTCount int
	Ancillas  int
	Cbits     int
}

// Metrics returns the resource costs of one decomposed Toffoli.
func (t ToffoliDecompType) Metrics() DecompMetrics {
	switch t {
	case NoDecomp:
		return DecompMetrics{Depth: 1}
	case ZeroAncillaTDepth4, ZeroAncillaTDepth4Compute:
		return DecompMetrics{Depth: 10, TCount: 7, TDepth: 4, HCount: 2, CNOTCount: 6}
	case ZeroAncillaTDepth0Uncompute:
		return DecompMetrics{Depth: 3, HCount: 1, Cbits: 1}
	case FourAncillaTDepth1A, FourAncillaTDepth1B:
		return DecompMetrics{Depth: 9, TCount: 7, TDepth: 1, HCount: 2, CNOTCount: 18, Ancillas: 4}
	default:
		return DecompMetrics{}
	}
}

// Decompose writes the chosen realisation of Toffoli(c1, c2, t) into the
// circuit, starting at the given moment, allocating ancilla wires and
// classical bits as needed. It returns the number of moments consumed,
// which always equals Metrics().Depth.
func Decompose(c *Circuit, typ ToffoliDecompType, c1, c2, t, step int) int {
	switch typ {
	case NoDecomp:
		c.AddCCX(c1, c2, t, step)
		return 1
	case ZeroAncillaTDepth4, ZeroAncillaTDepth4Compute:
		return decomposeTDepth4(c, c1, c2, t, step)
	case ZeroAncillaTDepth0Uncompute:
		return decomposeMeasureUncompute(c, c1, c2, t, step)
	case FourAncillaTDepth1A:
		return decomposeTDepth1(c, c1, c2, t, step, false)
	case FourAncillaTDepth1B:
		return decomposeTDepth1(c, c1, c2, t, step, true)
	default:
		c.AddCCX(c1, c2, t, step)
		return 1
	}
}

// decomposeTDepth4 lays out the standard 7-T decomposition with the
// diagonal gates commuted into shared moments, so the T gates occupy four
// moments instead of six.
func decomposeTDepth4(c *Circuit, a, b, t, step int) int {
	c.AddGate("H", t, step)
	c.AddGate("CX", t, step+1, b)
	c.AddDaggerGate("T", t, step+2)
	c.AddGate("T", a, step+2)
	c.AddGate("T", b, step+2)
	c.AddGate("CX", t, step+3, a)
	c.AddGate("T", t, step+4)
	c.AddGate("CX", t, step+5, b)
	c.AddDaggerGate("T", t, step+6)
	c.AddGate("CX", b, step+6, a)
	c.AddGate("CX", t, step+7, a)
	c.AddGate("T", t, step+8)
	c.AddDaggerGate("T", b, step+8)
	c.AddGate("H", t, step+9)
	c.AddGate("CX", b, step+9, a)
	return 10
}

// decomposeMeasureUncompute erases the target by measuring it in the X
// basis and repairing the phase with a conditioned CZ on the controls.
// The conditioned X returns the measured wire to |0>.
func decomposeMeasureUncompute(c *Circuit, c1, c2, t, step int) int {
	cbit := c.AddCbit()
	c.AddGate("H", t, step)
	c.AddMeasure(t, step+1, cbit)
	c.AddClassicalControlGate("CZ", c2, step+2, cbit, c1)
	c.AddClassicalControlGate("X", t, step+2, cbit)
	return 3
}

// decomposeTDepth1 computes the four XOR parities a+b, a+t, b+t and
// a+b+t on fresh ancillae, applies the whole T layer of the CCZ phase
// polynomial in one moment, and uncomputes the parities. The H pair on
// the target turns the CCZ into a Toffoli.
func decomposeTDepth1(c *Circuit, a, b, t, step int, conjugate bool) int {
	anc1 := c.AddQubit(fmt.Sprintf("anc%d", c.NumQubits()))
	anc2 := c.AddQubit(fmt.Sprintf("anc%d", c.NumQubits()))
	anc3 := c.AddQubit(fmt.Sprintf("anc%d", c.NumQubits()))
	anc4 := c.AddQubit(fmt.Sprintf("anc%d", c.NumQubits()))

	c.AddGate("H", t, step)
	c.AddGate("CX", anc4, step, a)
	c.AddGate("CX", anc3, step, b)

	c.AddGate("CX", anc1, step+1, a)
	c.AddGate("CX", anc4, step+1, b)
	c.AddGate("CX", anc3, step+1, t)

	c.AddGate("CX", anc1, step+2, b)
	c.AddGate("CX", anc2, step+2, a)
	c.AddGate("CX", anc4, step+2, t)

	c.AddGate("CX", anc2, step+3, t)

	addPhase := func(q, at int, dagger bool) {
		if dagger != conjugate {
			c.AddDaggerGate("T", q, at)
		} else {
			c.AddGate("T", q, at)
		}
	}
	addPhase(a, step+4, false)
	addPhase(b, step+4, false)
	addPhase(t, step+4, false)
	addPhase(anc1, step+4, true)
	addPhase(anc2, step+4, true)
	addPhase(anc3, step+4, true)
	addPhase(anc4, step+4, false)

	c.AddGate("CX", anc2, step+5, t)

	c.AddGate("CX", anc1, step+6, b)
	c.AddGate("CX", anc2, step+6, a)
	c.AddGate("CX", anc4, step+6, t)

	c.AddGate("CX", anc1, step+7, a)
	c.AddGate("CX", anc4, step+7, b)
	c.AddGate("CX", anc3, step+7, t)

	c.AddGate("H", t, step+8)
	c.AddGate("CX", anc4, step+8, a)
	c.AddGate("CX", anc3, step+8, b)

	return 9
}
