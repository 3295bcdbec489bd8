package main

import "slices"

// DAGNode is one gate of the circuit together with the gates that must
// run before it. Edges come from shared wires and from classical bits
// flowing from a measurement into a conditioned gate.
type DAGNode struct {
	Gate         Gate
	Index        int   // position in the source gate list
	Dependencies []int // indices of nodes this one waits on
}

// CircuitDAG is the dependency view of a circuit. Moment indices are
// deliberately absent: the DAG only knows what must come before what,
// which is what rescheduling after gate removal needs.
type CircuitDAG struct {
	Nodes     []*DAGNode
	NumQubits int
	NumCbits  int
}

// FromCircuit builds the dependency graph of a circuit. Gates are
// visited in moment order, and every gate depends on the previous gate
// touching each of its wires and on the measurement that last wrote its
// classical control bit. Emitted circuits never reuse a classical bit,
// so a write never has to wait on earlier readers.
func FromCircuit(c *Circuit) *CircuitDAG {
	dag := &CircuitDAG{
		NumQubits: c.NumQubits(),
		NumCbits:  c.NumCbits,
	}

	order := make([]int, len(c.Gates))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return c.Gates[a].Step - c.Gates[b].Step
	})

	lastOnQubit := make(map[int]int)
	lastOnCbit := make(map[int]int)

	for _, gi := range order {
		g := c.Gates[gi]
		node := &DAGNode{Gate: g, Index: gi}

		deps := make(map[int]bool)
		for _, q := range g.Qubits() {
			if prev, ok := lastOnQubit[q]; ok {
				deps[prev] = true
			}
		}
		if g.ClassicalControl >= 0 {
			if prev, ok := lastOnCbit[g.ClassicalControl]; ok {
				deps[prev] = true
			}
		}
		for dep := range deps {
			node.Dependencies = append(node.Dependencies, dep)
		}
		slices.Sort(node.Dependencies)

		id := len(dag.Nodes)
		dag.Nodes = append(dag.Nodes, node)
		for _, q := range g.Qubits() {
			lastOnQubit[q] = id
		}
		if g.MeasureBit >= 0 {
			lastOnCbit[g.MeasureBit] = id
		}
	}
	return dag
}

// TopologicalSort returns the nodes in an order respecting every
// dependency edge.
func (dag *CircuitDAG) TopologicalSort() []*DAGNode {
	visited := make([]bool, len(dag.Nodes))
	result := make([]*DAGNode, 0, len(dag.Nodes))

	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range dag.Nodes[id].Dependencies {
			visit(dep)
		}
		result = append(result, dag.Nodes[id])
	}
	for id := range dag.Nodes {
		visit(id)
	}
	return result
}

// CriticalDepth returns the length of the longest dependency chain, the
// moment count of the tightest possible schedule.
func (dag *CircuitDAG) CriticalDepth() int {
	depth := make([]int, len(dag.Nodes))
	maxDepth := 0
	for id, node := range dag.Nodes {
		d := 1
		for _, dep := range node.Dependencies {
			d = max(d, depth[dep]+1)
		}
		depth[id] = d
		maxDepth = max(maxDepth, d)
	}
	return maxDepth
}

// ToCircuit schedules every node as early as its dependencies allow and
// emits the resulting circuit over the given wire labels.
func (dag *CircuitDAG) ToCircuit(labels []string) *Circuit {
	c := NewCircuit(labels...)
	c.NumCbits = dag.NumCbits

	scheduled := make([]int, len(dag.Nodes))
	for id, node := range dag.Nodes {
		step := 0
		for _, dep := range node.Dependencies {
			step = max(step, scheduled[dep]+1)
		}
		scheduled[id] = step
		g := node.Gate
		g.Step = step
		g.Controls = slices.Clone(g.Controls)
		c.Gates = append(c.Gates, g)
		c.grow(step)
	}
	return c
}

// Repack reschedules a circuit to its critical depth. Gate removal
// leaves holes in the timeline, this closes them without reordering any
// dependent pair.
func Repack(c *Circuit) *Circuit {
	return FromCircuit(c).ToCircuit(c.Labels)
}
