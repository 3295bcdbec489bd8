package main

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	threeQubitRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex    = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*c\[(\d+)\];?$`)
	ifRegex         = regexp.MustCompile(`^if\s*\(\s*c\[(\d+)\]\s*==\s*1\s*\)\s+(\w+)\s+q\[(\d+)\](?:,\s*q\[(\d+)\])?;?$`)
	qregRegex       = regexp.MustCompile(`qreg\s+q\[(\d+)\]`)
)

// Gate represents a single operation placed on the circuit.
//
// The gate set is Clifford+T plus measurement: H, X, S, T (with IsDagger
// for the adjoints), CX, CZ, CCX and MEASURE. Routing constructions never
// emit rotations, so there are no gate parameters.
type Gate struct {
	Type             string
	Target           int
	Control          int   // -1 if not a controlled gate
	Controls         []int // control qubits for CCX
	Step             int   // moment index in the circuit timeline
	IsDagger         bool  // adjoint for S and T
	ClassicalControl int   // -1, or the classical bit gating this gate
	MeasureBit       int   // classical bit written by MEASURE, -1 otherwise
}

// Qubits returns every wire the gate touches.
func (g Gate) Qubits() []int {
	qs := []int{g.Target}
	if g.Control >= 0 {
		qs = append(qs, g.Control)
	}
	qs = append(qs, g.Controls...)
	return qs
}

// References reports whether the gate touches the given wire.
func (g Gate) References(qubit int) bool {
	if g.Target == qubit || g.Control == qubit {
		return true
	}
	return slices.Contains(g.Controls, qubit)
}

// Circuit holds a quantum circuit as a flat gate list with explicit moment
// indices. Wires carry names (a0, b_01, m_0110, out, anc3) so that QRAM
// diagrams read like the constructions they implement.
type Circuit struct {
	Labels   []string
	Gates    []Gate
	MaxSteps int
	NumCbits int
}

// NewCircuit creates an empty circuit over the given named wires.
func NewCircuit(labels ...string) *Circuit {
	return &Circuit{Labels: labels}
}

// NumQubits returns the number of wires.
func (c *Circuit) NumQubits() int { return len(c.Labels) }

// AddQubit appends a fresh wire and returns its index.
func (c *Circuit) AddQubit(label string) int {
	c.Labels = append(c.Labels, label)
	return len(c.Labels) - 1
}

// AddCbit reserves a fresh classical bit and returns its index.
func (c *Circuit) AddCbit() int {
	c.NumCbits++
	return c.NumCbits - 1
}

func (c *Circuit) grow(step int) {
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddGate appends a gate at the given moment.
func (c *Circuit) AddGate(gateType string, target, step int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.Gates = append(c.Gates, Gate{
		Type:             gateType,
		Target:           target,
		Control:          ctrl,
		Step:             step,
		ClassicalControl: -1,
		MeasureBit:       -1,
	})
	c.grow(step)
}

// AddDaggerGate appends an adjoint S or T at the given moment.
func (c *Circuit) AddDaggerGate(gateType string, target, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:             gateType,
		Target:           target,
		Control:          -1,
		Step:             step,
		IsDagger:         true,
		ClassicalControl: -1,
		MeasureBit:       -1,
	})
	c.grow(step)
}

// AddCCX appends a Toffoli gate at the given moment.
func (c *Circuit) AddCCX(c1, c2, target, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:             "CCX",
		Target:           target,
		Control:          -1,
		Controls:         []int{c1, c2},
		Step:             step,
		ClassicalControl: -1,
		MeasureBit:       -1,
	})
	c.grow(step)
}

// AddMeasure appends a computational-basis measurement writing cbit.
func (c *Circuit) AddMeasure(target, step, cbit int) {
	c.Gates = append(c.Gates, Gate{
		Type:             "MEASURE",
		Target:           target,
		Control:          -1,
		Step:             step,
		ClassicalControl: -1,
		MeasureBit:       cbit,
	})
	c.grow(step)
	if cbit >= c.NumCbits {
		c.NumCbits = cbit + 1
	}
}

// AddClassicalControlGate appends a gate applied only when cbit is 1.
// An optional quantum control makes it a conditioned two-qubit gate (CZ).
func (c *Circuit) AddClassicalControlGate(gateType string, target, step, cbit int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.Gates = append(c.Gates, Gate{
		Type:             gateType,
		Target:           target,
		Control:          ctrl,
		Step:             step,
		ClassicalControl: cbit,
		MeasureBit:       -1,
	})
	c.grow(step)
	if cbit >= c.NumCbits {
		c.NumCbits = cbit + 1
	}
}

// Copy returns a deep copy of the circuit.
func (c *Circuit) Copy() *Circuit {
	cp := &Circuit{
		Labels:   slices.Clone(c.Labels),
		Gates:    make([]Gate, len(c.Gates)),
		MaxSteps: c.MaxSteps,
		NumCbits: c.NumCbits,
	}
	for i, g := range c.Gates {
		g.Controls = slices.Clone(g.Controls)
		cp.Gates[i] = g
	}
	return cp
}

// InsertStep opens an empty moment at the given index, shifting every
// later gate by one. Used to prepend state preparation.
func (c *Circuit) InsertStep(at int) {
	for i := range c.Gates {
		if c.Gates[i].Step >= at {
			c.Gates[i].Step++
		}
	}
	c.MaxSteps++
}

// Moments groups gates by step. Empty moments are preserved so that
// indices line up with the timeline.
func (c *Circuit) Moments() [][]*Gate {
	moments := make([][]*Gate, c.MaxSteps)
	for i := range c.Gates {
		g := &c.Gates[i]
		moments[g.Step] = append(moments[g.Step], g)
	}
	return moments
}

// CheckMoments verifies that no wire is referenced twice within a moment.
func (c *Circuit) CheckMoments() error {
	used := make(map[int]string)
	for step, moment := range c.Moments() {
		clear(used)
		for _, g := range moment {
			for _, q := range g.Qubits() {
				if prev, ok := used[q]; ok {
					return fmt.Errorf("step %d: wire %s used by %s and %s",
						step, c.Labels[q], prev, g.Type)
				}
			}
			for _, q := range g.Qubits() {
				used[q] = g.Type
			}
		}
	}
	return nil
}

// QubitIndex returns the index of the wire with the given label, or -1.
func (c *Circuit) QubitIndex(label string) int {
	return slices.Index(c.Labels, label)
}

// gateSymbol returns the diagram symbol for the gate on a given wire.
func gateSymbol(g *Gate, qubit int) string {
	if g.Control == qubit || slices.Contains(g.Controls, qubit) {
		return "@"
	}
	switch g.Type {
	case "CX", "CCX":
		return "X"
	case "CZ":
		return "@"
	case "MEASURE":
		return "M"
	case "S", "T":
		if g.IsDagger {
			return g.Type + "^-1"
		}
		return g.Type
	default:
		return g.Type
	}
}

// ToTextDiagram renders the circuit as an ASCII wire diagram, one row per
// wire, one column per moment.
func (c *Circuit) ToTextDiagram() string {
	moments := c.Moments()

	labelW := 0
	for _, l := range c.Labels {
		labelW = max(labelW, len(l))
	}

	// Column widths follow the widest symbol in each moment.
	colW := make([]int, len(moments))
	for s, moment := range moments {
		colW[s] = 1
		for _, g := range moment {
			for _, q := range g.Qubits() {
				colW[s] = max(colW[s], len(gateSymbol(g, q)))
			}
		}
	}

	var sb strings.Builder
	for q := range c.Labels {
		fmt.Fprintf(&sb, "%-*s: ", labelW, c.Labels[q])
		for s, moment := range moments {
			sym := ""
			for _, g := range moment {
				if g.References(q) {
					sym = gateSymbol(g, q)
					break
				}
			}
			sb.WriteString("-")
			sb.WriteString(sym)
			sb.WriteString(strings.Repeat("-", colW[s]-len(sym)+1))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToQASM generates QASM 2.0 output from the circuit.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", max(c.NumQubits(), 1))
	fmt.Fprintf(&sb, "creg c[%d];\n\n", max(c.NumCbits, 1))

	for _, moment := range c.Moments() {
		for _, g := range moment {
			c.writeGateQASM(&sb, g)
		}
	}
	return sb.String()
}

func (c *Circuit) writeGateQASM(sb *strings.Builder, g *Gate) {
	name := strings.ToLower(g.Type)
	if g.IsDagger {
		name += "dg"
	}
	switch {
	case g.ClassicalControl >= 0:
		if g.Control >= 0 {
			fmt.Fprintf(sb, "if (c[%d]==1) %s q[%d], q[%d];\n", g.ClassicalControl, name, g.Control, g.Target)
		} else {
			fmt.Fprintf(sb, "if (c[%d]==1) %s q[%d];\n", g.ClassicalControl, name, g.Target)
		}
	case g.Type == "MEASURE":
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", g.Target, g.MeasureBit)
	case g.Type == "CCX":
		fmt.Fprintf(sb, "ccx q[%d], q[%d], q[%d];\n", g.Controls[0], g.Controls[1], g.Target)
	case g.Control >= 0:
		fmt.Fprintf(sb, "%s q[%d], q[%d];\n", name, g.Control, g.Target)
	default:
		fmt.Fprintf(sb, "%s q[%d];\n", name, g.Target)
	}
}

// ParseQASM parses QASM text (the subset this tool emits) and rebuilds the
// circuit from it. Gates land on consecutive moments.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Gates = nil
	c.MaxSteps = 0
	c.NumCbits = 0
	step := 0

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if matches := qregRegex.FindStringSubmatch(line); len(matches) > 1 {
				n, _ := strconv.Atoi(matches[1])
				for len(c.Labels) < n {
					c.Labels = append(c.Labels, fmt.Sprintf("q%d", len(c.Labels)))
				}
			}
			continue
		}
		if strings.HasPrefix(line, "creg") {
			continue
		}

		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			target, _ := strconv.Atoi(matches[1])
			cbit, _ := strconv.Atoi(matches[2])
			c.AddMeasure(target, step, cbit)
			step++
			continue
		}

		if matches := ifRegex.FindStringSubmatch(line); matches != nil {
			cbit, _ := strconv.Atoi(matches[1])
			gateType := strings.ToUpper(matches[2])
			q1, _ := strconv.Atoi(matches[3])
			if matches[4] != "" {
				q2, _ := strconv.Atoi(matches[4])
				c.AddClassicalControlGate(gateType, q2, step, cbit, q1)
			} else {
				c.AddClassicalControlGate(gateType, q1, step, cbit)
			}
			step++
			continue
		}

		if matches := threeQubitRegex.FindStringSubmatch(line); matches != nil {
			if strings.ToUpper(matches[1]) == "CCX" {
				q1, _ := strconv.Atoi(matches[2])
				q2, _ := strconv.Atoi(matches[3])
				q3, _ := strconv.Atoi(matches[4])
				c.AddCCX(q1, q2, q3, step)
				step++
			}
			continue
		}

		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			q1, _ := strconv.Atoi(matches[2])
			q2, _ := strconv.Atoi(matches[3])
			c.AddGate(gateType, q2, step, q1)
			step++
			continue
		}

		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			target, _ := strconv.Atoi(matches[2])
			if base, ok := strings.CutSuffix(gateType, "DG"); ok {
				c.AddDaggerGate(base, target, step)
			} else {
				c.AddGate(gateType, target, step)
			}
			step++
			continue
		}
	}

	return nil
}
