package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"strings"
)

type Complex = complex128

// StateVector holds the amplitudes of an n-qubit register. Basis index bit
// q corresponds to wire q of the circuit.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyS(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	factor := 1i
	if dagger {
		factor = -1i
	}
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyT(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	var factor Complex
	if dagger {
		factor = cmplx.Exp(complex(0, -math.Pi/4))
	} else {
		factor = cmplx.Exp(complex(0, math.Pi/4))
	}
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyCCX(c1, c2, target int) {
	n := len(s.Amplitudes)
	c1Bit := 1 << c1
	c2Bit := 1 << c2
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&c1Bit != 0 && i&c2Bit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// measure samples wire q in the computational basis, collapses the state
// and returns the outcome.
func (s *StateVector) measure(q int, rng *rand.Rand) int {
	n := len(s.Amplitudes)
	bit := 1 << q

	prob1 := 0.0
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			prob1 += real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		}
	}

	outcome := 0
	if rng.Float64() < prob1 {
		outcome = 1
	}

	keep := prob1
	if outcome == 0 {
		keep = 1 - prob1
	}
	norm := complex(math.Sqrt(keep), 0)
	for i := 0; i < n; i++ {
		hit := i&bit != 0
		if hit == (outcome == 1) {
			s.Amplitudes[i] /= norm
		} else {
			s.Amplitudes[i] = 0
		}
	}
	return outcome
}

// Prob returns the probability of observing basis state idx.
func (s *StateVector) Prob(idx int) float64 {
	amp := s.Amplitudes[idx]
	return real(amp * cmplx.Conj(amp))
}

// Simulator executes circuits on a statevector with a seeded RNG, so runs
// with mid-circuit measurement are reproducible.
type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// apply executes a single gate, honoring classical controls.
func (sim *Simulator) apply(state *StateVector, g *Gate, cbits []int) error {
	if g.ClassicalControl >= 0 && cbits[g.ClassicalControl] != 1 {
		return nil
	}
	switch g.Type {
	case "H":
		state.applyH(g.Target)
	case "X":
		state.applyX(g.Target)
	case "Z":
		state.applyZ(g.Target)
	case "S":
		state.applyS(g.Target, g.IsDagger)
	case "T":
		state.applyT(g.Target, g.IsDagger)
	case "CX":
		state.applyCX(g.Control, g.Target)
	case "CZ":
		if g.ClassicalControl >= 0 && g.Control < 0 {
			return fmt.Errorf("conditioned CZ without a quantum control")
		}
		state.applyCZ(g.Control, g.Target)
	case "CCX":
		state.applyCCX(g.Controls[0], g.Controls[1], g.Target)
	case "MEASURE":
		cbits[g.MeasureBit] = state.measure(g.Target, sim.rng)
	default:
		return fmt.Errorf("unknown gate type %q", g.Type)
	}
	return nil
}

// RunOnce executes the circuit a single time and returns the classical
// bits and the final statevector.
func (sim *Simulator) RunOnce(c *Circuit) ([]int, *StateVector, error) {
	state := NewStateVector(c.NumQubits())
	cbits := make([]int, c.NumCbits)
	for _, moment := range c.Moments() {
		for _, g := range moment {
			if err := sim.apply(state, g, cbits); err != nil {
				return nil, nil, err
			}
		}
	}
	return cbits, state, nil
}

// Run executes the circuit repeatedly, additionally measuring the given
// wires at the end of each run, and histograms the outcomes. Keys are
// bitstrings over measuredQubits in the order given.
func (sim *Simulator) Run(c *Circuit, measuredQubits []int, repetitions int) (map[string]int, error) {
	freq := make(map[string]int)
	for rep := 0; rep < repetitions; rep++ {
		_, state, err := sim.RunOnce(c)
		if err != nil {
			return nil, err
		}
		var key strings.Builder
		for _, q := range measuredQubits {
			key.WriteByte('0' + byte(state.measure(q, sim.rng)))
		}
		freq[key.String()]++
	}
	return freq, nil
}
