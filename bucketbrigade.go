package main

import (
	"fmt"
	"maps"
	"math"
	"math/rand"
	"slices"
	"sort"
)

// DecompScenario assigns a Toffoli decomposition to each stage of the
// bucket brigade. ParallelToffolis additionally fans the shared address
// control of each tree level into a copy pool so that the Toffolis of a
// level run side by side instead of one after another.
type DecompScenario struct {
	FanIn            ToffoliDecompType
	Mem              ToffoliDecompType
	FanOut           ToffoliDecompType
	ParallelToffolis bool
}

func (s DecompScenario) String() string {
	mode := "serial"
	if s.ParallelToffolis {
		mode = "parallel"
	}
	return fmt.Sprintf("[%s %s %s] %s", s.FanIn, s.Mem, s.FanOut, mode)
}

// BucketBrigade is a bucket brigade QRAM circuit over n address qubits.
// The routing tree has one wire b_s per binary string s of length 1..n,
// one memory wire m_s per n-bit string, and a single readout wire.
type BucketBrigade struct {
	NumAddressQubits int
	Scenario         DecompScenario
	Circuit          *Circuit

	addr []int
	node map[string]int
	mem  map[string]int
	out  int
	pool []int
}

// binaryStrings returns every binary string of the given length in
// numeric order.
func binaryStrings(length int) []string {
	out := make([]string, 0, 1<<length)
	for i := 0; i < 1<<length; i++ {
		out = append(out, fmt.Sprintf("%0*b", length, i))
	}
	return out
}

// NewBucketBrigade builds the full circuit: fan-in routing, memory
// readout, and fan-out uncomputation. At least two address qubits are
// required, a single-level tree has no routing to do.
func NewBucketBrigade(n int, scenario DecompScenario) (*BucketBrigade, error) {
	if n < 2 {
		return nil, fmt.Errorf("bucket brigade needs at least 2 address qubits, got %d", n)
	}
	bb := &BucketBrigade{
		NumAddressQubits: n,
		Scenario:         scenario,
		node:             make(map[string]int),
		mem:              make(map[string]int),
	}
	bb.build()

	logger.Debug().
		Int("addressQubits", n).
		Str("scenario", scenario.String()).
		Int("qubits", bb.Circuit.NumQubits()).
		Int("depth", Depth(bb.Circuit)).
		Msg("built bucket brigade")
	return bb, nil
}

func (bb *BucketBrigade) build() {
	n := bb.NumAddressQubits
	c := NewCircuit()
	bb.Circuit = c

	for i := 0; i < n; i++ {
		bb.addr = append(bb.addr, c.AddQubit(fmt.Sprintf("a%d", i)))
	}
	for k := 1; k <= n; k++ {
		for _, s := range binaryStrings(k) {
			bb.node[s] = c.AddQubit("b_" + s)
		}
	}
	for _, s := range binaryStrings(n) {
		bb.mem[s] = c.AddQubit("m_" + s)
	}
	bb.out = c.AddQubit("out")
	if bb.Scenario.ParallelToffolis {
		for i := 0; i < 1<<(n-1)-1; i++ {
			bb.pool = append(bb.pool, c.AddQubit(fmt.Sprintf("p%d", i)))
		}
	}

	step := bb.fanIn(0)
	step = bb.memory(step)
	bb.fanOut(step)
}

// fanIn activates exactly one leaf of the routing tree per address value.
// Level 1 splits on a0 with an X and two CNOTs, each deeper level splits
// every active node on the next address qubit.
func (bb *BucketBrigade) fanIn(step int) int {
	c := bb.Circuit
	c.AddGate("X", bb.node["0"], step)
	c.AddGate("CX", bb.node["1"], step, bb.addr[0])
	c.AddGate("CX", bb.node["0"], step+1, bb.addr[0])
	step += 2

	for k := 2; k <= bb.NumAddressQubits; k++ {
		step = bb.fanInLevel(k, step)
	}
	return step
}

func (bb *BucketBrigade) fanInLevel(k, step int) int {
	c := bb.Circuit
	parents := binaryStrings(k - 1)
	typ := bb.Scenario.FanIn

	if bb.Scenario.ParallelToffolis {
		step = bb.copyLadder(bb.addr[k-1], len(parents), step, false)
		depth := 0
		for i, s := range parents {
			depth = Decompose(c, typ, bb.levelControl(i, k), bb.node[s], bb.node[s+"1"], step)
		}
		step += depth
		step = bb.copyLadder(bb.addr[k-1], len(parents), step, true)
	} else {
		for _, s := range parents {
			step += Decompose(c, typ, bb.addr[k-1], bb.node[s], bb.node[s+"1"], step)
		}
	}

	// The 0-branch is parent XOR 1-branch, so it comes up exactly when
	// the parent is active and the address bit is zero.
	for _, s := range parents {
		c.AddGate("CX", bb.node[s+"0"], step, bb.node[s])
	}
	for _, s := range parents {
		c.AddGate("CX", bb.node[s+"0"], step+1, bb.node[s+"1"])
	}
	return step + 2
}

// memory copies the addressed cell onto the readout wire. All leaf
// Toffolis share the readout target, so this stage is serial in both
// modes.
func (bb *BucketBrigade) memory(step int) int {
	c := bb.Circuit
	for _, s := range binaryStrings(bb.NumAddressQubits) {
		step += Decompose(c, bb.Scenario.Mem, bb.node[s], bb.mem[s], bb.out, step)
	}
	return step
}

// fanOut mirrors fanIn to return every routing wire to zero.
func (bb *BucketBrigade) fanOut(step int) int {
	c := bb.Circuit
	for k := bb.NumAddressQubits; k >= 2; k-- {
		step = bb.fanOutLevel(k, step)
	}

	c.AddGate("CX", bb.node["0"], step, bb.addr[0])
	c.AddGate("X", bb.node["0"], step+1)
	c.AddGate("CX", bb.node["1"], step+1, bb.addr[0])
	return step + 2
}

func (bb *BucketBrigade) fanOutLevel(k, step int) int {
	c := bb.Circuit
	parents := binaryStrings(k - 1)
	typ := bb.Scenario.FanOut

	for _, s := range parents {
		c.AddGate("CX", bb.node[s+"0"], step, bb.node[s+"1"])
	}
	for _, s := range parents {
		c.AddGate("CX", bb.node[s+"0"], step+1, bb.node[s])
	}
	step += 2

	if bb.Scenario.ParallelToffolis {
		step = bb.copyLadder(bb.addr[k-1], len(parents), step, false)
		depth := 0
		for i, s := range parents {
			depth = Decompose(c, typ, bb.levelControl(i, k), bb.node[s], bb.node[s+"1"], step)
		}
		step += depth
		step = bb.copyLadder(bb.addr[k-1], len(parents), step, true)
	} else {
		for _, s := range parents {
			step += Decompose(c, typ, bb.addr[k-1], bb.node[s], bb.node[s+"1"], step)
		}
	}
	return step
}

// levelControl returns the control wire for the i-th node of a level: the
// address qubit itself for the first node, a pool copy for the rest.
func (bb *BucketBrigade) levelControl(i, k int) int {
	if i == 0 {
		return bb.addr[k-1]
	}
	return bb.pool[i-1]
}

// copyLadder duplicates wire q onto copies-1 pool wires by CNOT
// doubling, taking log2(copies) moments. With invert it runs the same
// rounds in reverse, returning the pool to zero.
func (bb *BucketBrigade) copyLadder(q, copies, step int, invert bool) int {
	c := bb.Circuit
	type round struct{ have int }
	var rounds []round
	for have := 1; have < copies; have *= 2 {
		rounds = append(rounds, round{have})
	}
	if invert {
		slices.Reverse(rounds)
	}
	for _, r := range rounds {
		for i := 0; i < r.have && r.have+i < copies; i++ {
			src := q
			if i > 0 {
				src = bb.pool[i-1]
			}
			c.AddGate("CX", bb.pool[r.have-1+i], step, src)
		}
		step++
	}
	return step
}

func (bb *BucketBrigade) fanToffolis() int { return 1<<bb.NumAddressQubits - 2 }
func (bb *BucketBrigade) memToffolis() int { return 1 << bb.NumAddressQubits }

// levelBlockDepth is the moment cost of one tree level's Toffoli stage.
func levelBlockDepth(k int, m DecompMetrics, parallel bool) int {
	if parallel {
		return 2*(k-1) + m.Depth
	}
	return (1 << (k - 1)) * m.Depth
}

// VerifyNumberQubits compares the circuit wire count against the closed
// form over tree size, pool size and per-Toffoli ancillae.
func (bb *BucketBrigade) VerifyNumberQubits() (got, want int) {
	n := bb.NumAddressQubits
	want = n + (1<<(n+1) - 2) + 1<<n + 1
	if bb.Scenario.ParallelToffolis {
		want += 1<<(n-1) - 1
	}
	want += bb.fanToffolis() * (bb.Scenario.FanIn.Metrics().Ancillas + bb.Scenario.FanOut.Metrics().Ancillas)
	want += bb.memToffolis() * bb.Scenario.Mem.Metrics().Ancillas
	return bb.Circuit.NumQubits(), want
}

// VerifyDepth compares the moment count against the closed form.
func (bb *BucketBrigade) VerifyDepth() (got, want int) {
	n := bb.NumAddressQubits
	din := bb.Scenario.FanIn.Metrics()
	dout := bb.Scenario.FanOut.Metrics()
	par := bb.Scenario.ParallelToffolis

	want = 2
	for k := 2; k <= n; k++ {
		want += levelBlockDepth(k, din, par) + 2
	}
	want += bb.memToffolis() * bb.Scenario.Mem.Metrics().Depth
	for k := 2; k <= n; k++ {
		want += levelBlockDepth(k, dout, par) + 2
	}
	want += 2
	return Depth(bb.Circuit), want
}

// VerifyTCount compares the counted T gates against the closed form.
func (bb *BucketBrigade) VerifyTCount() (got, want int) {
	want = bb.fanToffolis()*(bb.Scenario.FanIn.Metrics().TCount+bb.Scenario.FanOut.Metrics().TCount) +
		bb.memToffolis()*bb.Scenario.Mem.Metrics().TCount
	return TCountOfCircuit(bb.Circuit), want
}

// VerifyTDepth compares the counted T moments against the closed form.
// In parallel mode every fan level contributes one Toffoli worth of T
// moments, in serial mode every Toffoli does.
func (bb *BucketBrigade) VerifyTDepth() (got, want int) {
	n := bb.NumAddressQubits
	fanBlocks := bb.fanToffolis()
	if bb.Scenario.ParallelToffolis {
		fanBlocks = n - 1
	}
	want = fanBlocks*(bb.Scenario.FanIn.Metrics().TDepth+bb.Scenario.FanOut.Metrics().TDepth) +
		bb.memToffolis()*bb.Scenario.Mem.Metrics().TDepth
	return TDepthOfCircuit(bb.Circuit), want
}

// VerifyHadamardCount compares the counted H gates against the closed
// form.
func (bb *BucketBrigade) VerifyHadamardCount() (got, want int) {
	want = bb.fanToffolis()*(bb.Scenario.FanIn.Metrics().HCount+bb.Scenario.FanOut.Metrics().HCount) +
		bb.memToffolis()*bb.Scenario.Mem.Metrics().HCount
	return HCountOfCircuit(bb.Circuit), want
}

// Verify runs every closed-form check and reports the first mismatch.
func (bb *BucketBrigade) Verify() error {
	checks := []struct {
		name string
		fn   func() (int, int)
	}{
		{"qubits", bb.VerifyNumberQubits},
		{"depth", bb.VerifyDepth},
		{"T count", bb.VerifyTCount},
		{"T depth", bb.VerifyTDepth},
		{"H count", bb.VerifyHadamardCount},
	}
	for _, check := range checks {
		if got, want := check.fn(); got != want {
			return fmt.Errorf("%s: got %d, want %d", check.name, got, want)
		}
	}
	return nil
}

// Copy returns a deep copy sharing no state with the original.
func (bb *BucketBrigade) Copy() *BucketBrigade {
	cp := *bb
	cp.Circuit = bb.Circuit.Copy()
	cp.addr = slices.Clone(bb.addr)
	cp.node = maps.Clone(bb.node)
	cp.mem = maps.Clone(bb.mem)
	cp.pool = slices.Clone(bb.pool)
	return &cp
}

// SetCircuit replaces the underlying circuit, keeping the wire bindings.
func (bb *BucketBrigade) SetCircuit(c *Circuit) {
	bb.Circuit = c
}

// PrepareState prepends a moment of X gates loading the address register
// and the memory cells. The address is read MSB first, so address qubit
// a0 selects the top half of the tree. Bit i of memory loads cell m_i.
func (bb *BucketBrigade) PrepareState(address int, memory uint64) error {
	if address < 0 || address >= 1<<bb.NumAddressQubits {
		return fmt.Errorf("address %d is outside [0, %d]", address, 1<<bb.NumAddressQubits-1)
	}
	c := bb.Circuit
	c.InsertStep(0)
	bits := fmt.Sprintf("%0*b", bb.NumAddressQubits, address)
	for i, b := range bits {
		if b == '1' {
			c.AddGate("X", bb.addr[i], 0)
		}
	}
	for i, s := range binaryStrings(bb.NumAddressQubits) {
		if memory>>i&1 == 1 {
			c.AddGate("X", bb.mem[s], 0)
		}
	}
	return nil
}

// Readout simulates the circuit and returns the histogram of the readout
// wire over the given number of repetitions.
func (bb *BucketBrigade) Readout(sim *Simulator, repetitions int) (map[string]int, error) {
	return sim.Run(bb.Circuit, []int{bb.out}, repetitions)
}

// RemoveTGates deletes a random fraction of the circuit's T gates, a
// destructive mutation used to probe how much of the T budget the
// routing actually needs. With inplace false the receiver is left
// untouched and the mutated copy is returned.
func (bb *BucketBrigade) RemoveTGates(percentage float64, rng *rand.Rand, inplace bool) (*BucketBrigade, error) {
	if percentage < 0 || percentage > 1 {
		return nil, fmt.Errorf("T fraction %g is outside [0, 1]", percentage)
	}
	target := bb
	if !inplace {
		target = bb.Copy()
	}
	c := target.Circuit

	indices := OpIndices(c, isT)
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	drop := int(math.Round(percentage * float64(len(indices))))
	doomed := slices.Clone(indices[:drop])
	sort.Sort(sort.Reverse(sort.IntSlice(doomed)))
	for _, i := range doomed {
		c.Gates = slices.Delete(c.Gates, i, i+1)
	}

	logger.Debug().
		Float64("percentage", percentage).
		Int("removed", drop).
		Int("remaining", TCountOfCircuit(c)).
		Msg("removed T gates")
	return target, nil
}
