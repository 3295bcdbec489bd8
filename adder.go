package main

import (
	"fmt"
	"math/bits"
)

// AdderDecomp pairs the decomposition used when computing the propagate
// tree with the one used when erasing it. The erasing side may be the
// measurement-based uncompute, since every tree wire holds the AND of
// its two inputs at erase time.
type AdderDecomp struct {
	Compute   ToffoliDecompType
	Uncompute ToffoliDecompType
}

// CarryLookaheadAdder is the log-depth out-of-place adder: carries are
// computed on dedicated wires through propagate, generate and carry
// rounds, the sum lands on the b register, and the propagate tree is
// erased afterwards. Bit 0 is the least significant.
type CarryLookaheadAdder struct {
	NumBits int
	Decomp  AdderDecomp
	Circuit *Circuit

	a, b []int
	z    []int         // z[i] is the carry into bit i, z[n] the carry out
	tree map[[2]int]int // propagate tree wires p[t][m] for t >= 1
}

// NewCarryLookaheadAdder builds the adder circuit for two n-bit
// operands.
func NewCarryLookaheadAdder(n int, decomp AdderDecomp) (*CarryLookaheadAdder, error) {
	if n < 1 {
		return nil, fmt.Errorf("adder needs at least 1 bit, got %d", n)
	}
	cla := &CarryLookaheadAdder{
		NumBits: n,
		Decomp:  decomp,
		tree:    make(map[[2]int]int),
	}
	cla.build()

	logger.Debug().
		Int("bits", n).
		Int("qubits", cla.Circuit.NumQubits()).
		Int("depth", Depth(cla.Circuit)).
		Msg("built carry-lookahead adder")
	return cla, nil
}

func (cla *CarryLookaheadAdder) build() {
	n := cla.NumBits
	c := NewCircuit()
	cla.Circuit = c

	for i := 0; i < n; i++ {
		cla.a = append(cla.a, c.AddQubit(fmt.Sprintf("a%d", i)))
	}
	for i := 0; i < n; i++ {
		cla.b = append(cla.b, c.AddQubit(fmt.Sprintf("b%d", i)))
	}
	cla.z = make([]int, n+1)
	for i := 1; i <= n; i++ {
		cla.z[i] = c.AddQubit(fmt.Sprintf("z%d", i))
	}
	rounds := bits.Len(uint(n)) - 1
	for t := 1; t <= rounds; t++ {
		for m := 1; m <= n>>t-1; m++ {
			cla.tree[[2]int{t, m}] = c.AddQubit(fmt.Sprintf("p%d_%d", t, m))
		}
	}

	// Generate bits onto the carry wires, then propagate bits onto b.
	step := 0
	depth := 0
	for i := 0; i < n; i++ {
		depth = Decompose(c, cla.Decomp.Compute, cla.a[i], cla.b[i], cla.z[i+1], step)
	}
	step += depth
	for i := 0; i < n; i++ {
		c.AddGate("CX", cla.b[i], step, cla.a[i])
	}
	step++

	// Propagate rounds build the tree of block-propagate bits.
	for t := 1; t <= rounds; t++ {
		depth = 0
		for m := 1; m <= n>>t-1; m++ {
			depth = Decompose(c, cla.Decomp.Compute,
				cla.propagate(t-1, 2*m), cla.propagate(t-1, 2*m+1), cla.tree[[2]int{t, m}], step)
		}
		step += depth
	}

	// Generate rounds merge block generates upward.
	for t := 1; t <= rounds; t++ {
		depth = 0
		for m := 0; m <= n>>t-1; m++ {
			block := m << t
			depth = Decompose(c, cla.Decomp.Compute,
				cla.z[block+1<<(t-1)], cla.propagate(t-1, 2*m+1), cla.z[block+1<<t], step)
		}
		step += depth
	}

	// Carry rounds fill in the remaining carries, high blocks first.
	for t := bits.Len(uint(2*n/3)) - 1; t >= 1; t-- {
		depth = 0
		for m := 1; m <= (n-1<<(t-1))>>t; m++ {
			block := m << t
			depth = Decompose(c, cla.Decomp.Compute,
				cla.z[block], cla.propagate(t-1, 2*m), cla.z[block+1<<(t-1)], step)
		}
		step += depth
	}

	// Erase the propagate tree.
	for t := rounds; t >= 1; t-- {
		depth = 0
		for m := 1; m <= n>>t-1; m++ {
			depth = Decompose(c, cla.Decomp.Uncompute,
				cla.propagate(t-1, 2*m), cla.propagate(t-1, 2*m+1), cla.tree[[2]int{t, m}], step)
		}
		step += depth
	}

	// Sum bits: b_i already holds p_i, fold in the carry.
	for i := 1; i < n; i++ {
		c.AddGate("CX", cla.b[i], step, cla.z[i])
	}
}

// propagate returns the wire holding the block-propagate bit p[t][m].
// Level 0 lives on the b register.
func (cla *CarryLookaheadAdder) propagate(t, m int) int {
	if t == 0 {
		return cla.b[m]
	}
	return cla.tree[[2]int{t, m}]
}

// PrepareOperands prepends a moment of X gates loading the two operands.
func (cla *CarryLookaheadAdder) PrepareOperands(x, y uint64) {
	c := cla.Circuit
	c.InsertStep(0)
	for i := 0; i < cla.NumBits; i++ {
		if x>>i&1 == 1 {
			c.AddGate("X", cla.a[i], 0)
		}
		if y>>i&1 == 1 {
			c.AddGate("X", cla.b[i], 0)
		}
	}
}

// SumWires returns the wires holding the result, most significant first,
// so a histogram key over them reads as the binary sum.
func (cla *CarryLookaheadAdder) SumWires() []int {
	wires := []int{cla.z[cla.NumBits]}
	for i := cla.NumBits - 1; i >= 0; i-- {
		wires = append(wires, cla.b[i])
	}
	return wires
}

// ReadSum simulates the adder and histograms the sum register.
func (cla *CarryLookaheadAdder) ReadSum(sim *Simulator, repetitions int) (map[string]int, error) {
	return sim.Run(cla.Circuit, cla.SumWires(), repetitions)
}
