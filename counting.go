package main

// Gate matchers for the counting utilities.

func isT(g *Gate) bool       { return g.Type == "T" }
func isH(g *Gate) bool       { return g.Type == "H" }
func isCNOT(g *Gate) bool    { return g.Type == "CX" }
func isToffoli(g *Gate) bool { return g.Type == "CCX" }

// CountGates returns the total number of operations in the circuit.
func CountGates(c *Circuit) int {
	return len(c.Gates)
}

// Depth returns the number of non-empty moments.
func Depth(c *Circuit) int {
	depth := 0
	for _, moment := range c.Moments() {
		if len(moment) > 0 {
			depth++
		}
	}
	return depth
}

// CountOps counts operations matching the predicate.
func CountOps(c *Circuit, match func(*Gate) bool) int {
	count := 0
	for _, moment := range c.Moments() {
		for _, g := range moment {
			if match(g) {
				count++
			}
		}
	}
	return count
}

// OpIndices returns the indices (into c.Gates) of matching operations, in
// moment order. Used by the T-removal mutator.
func OpIndices(c *Circuit, match func(*Gate) bool) []int {
	byPtr := make(map[*Gate]int, len(c.Gates))
	for i := range c.Gates {
		byPtr[&c.Gates[i]] = i
	}
	var indices []int
	for _, moment := range c.Moments() {
		for _, g := range moment {
			if match(g) {
				indices = append(indices, byPtr[g])
			}
		}
	}
	return indices
}

// DepthOfOps returns the number of moments containing at least one
// matching operation.
func DepthOfOps(c *Circuit, match func(*Gate) bool) int {
	depth := 0
	for _, moment := range c.Moments() {
		for _, g := range moment {
			if match(g) {
				depth++
				break
			}
		}
	}
	return depth
}

// TCountOfCircuit counts T and T^-1 gates.
func TCountOfCircuit(c *Circuit) int { return CountOps(c, isT) }

// TDepthOfCircuit counts moments containing a T or T^-1 gate.
func TDepthOfCircuit(c *Circuit) int { return DepthOfOps(c, isT) }

// HCountOfCircuit counts Hadamard gates.
func HCountOfCircuit(c *Circuit) int { return CountOps(c, isH) }

// CNOTCountOfCircuit counts CNOT gates.
func CNOTCountOfCircuit(c *Circuit) int { return CountOps(c, isCNOT) }

// ToffoliCountOfCircuit counts undecomposed Toffoli gates.
func ToffoliCountOfCircuit(c *Circuit) int { return CountOps(c, isToffoli) }
