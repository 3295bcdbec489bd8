package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ParseToffoliDecompType resolves a decomposition name as printed by
// String().
func ParseToffoliDecompType(s string) (ToffoliDecompType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, typ := range decompChoices {
		if typ.String() == name {
			return typ, nil
		}
	}
	return NoDecomp, fmt.Errorf("unknown decomposition %q", s)
}

type scenarioFlags struct {
	qubits   int
	fanIn    string
	mem      string
	fanOut   string
	parallel bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.qubits, "qubits", "n", 2, "number of address qubits")
	cmd.Flags().StringVar(&f.fanIn, "fan-in", ZeroAncillaTDepth4.String(), "fan-in Toffoli decomposition")
	cmd.Flags().StringVar(&f.mem, "mem", ZeroAncillaTDepth4.String(), "memory Toffoli decomposition")
	cmd.Flags().StringVar(&f.fanOut, "fan-out", ZeroAncillaTDepth4.String(), "fan-out Toffoli decomposition")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "run each tree level's Toffolis in parallel")
}

func (f *scenarioFlags) build() (*BucketBrigade, error) {
	fanIn, err := ParseToffoliDecompType(f.fanIn)
	if err != nil {
		return nil, err
	}
	mem, err := ParseToffoliDecompType(f.mem)
	if err != nil {
		return nil, err
	}
	fanOut, err := ParseToffoliDecompType(f.fanOut)
	if err != nil {
		return nil, err
	}
	return NewBucketBrigade(f.qubits, DecompScenario{
		FanIn:            fanIn,
		Mem:              mem,
		FanOut:           fanOut,
		ParallelToffolis: f.parallel,
	})
}

func printVerifyTable(bb *BucketBrigade) bool {
	rows := []struct {
		name string
		fn   func() (int, int)
	}{
		{"qubits", bb.VerifyNumberQubits},
		{"depth", bb.VerifyDepth},
		{"T count", bb.VerifyTCount},
		{"T depth", bb.VerifyTDepth},
		{"H count", bb.VerifyHadamardCount},
	}
	fmt.Printf("%-10s %10s %10s\n", "", "counted", "formula")
	ok := true
	for _, row := range rows {
		got, want := row.fn()
		mark := "ok"
		if got != want {
			mark = "MISMATCH"
			ok = false
		}
		fmt.Printf("%-10s %10d %10d  %s\n", row.name, got, want, mark)
	}
	return ok
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "qramcirq",
		Short: "Bucket brigade QRAM circuit constructor and analyzer",
		Long: "qramcirq builds bucket brigade QRAM circuits under configurable\n" +
			"Toffoli decompositions, checks their resource counts against closed\n" +
			"forms, and runs T-gate removal experiments on a statevector simulator.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				SetLoggerLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(initialModel(), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMetricsCmd(), newRemoveTCmd(), newAdderCmd(), newQASMCmd())
	return root
}

func newMetricsCmd() *cobra.Command {
	var flags scenarioFlags
	var diagram bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Build a bucket brigade circuit and print its verify table",
		RunE: func(cmd *cobra.Command, args []string) error {
			bb, err := flags.build()
			if err != nil {
				return err
			}
			if err := bb.Circuit.CheckMoments(); err != nil {
				return fmt.Errorf("moment check: %w", err)
			}
			if diagram {
				fmt.Println(bb.Circuit.ToTextDiagram())
			}
			fmt.Printf("scenario %s, n=%d\n\n", bb.Scenario, bb.NumAddressQubits)
			if !printVerifyTable(bb) {
				return fmt.Errorf("closed-form metrics do not match the circuit")
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&diagram, "diagram", false, "print the text diagram")
	return cmd
}

func newRemoveTCmd() *cobra.Command {
	var flags scenarioFlags
	var fraction float64
	var reps, address int
	var memory uint64
	var seed int64

	cmd := &cobra.Command{
		Use:   "remove-t",
		Short: "Delete a fraction of T gates and simulate the readout",
		RunE: func(cmd *cobra.Command, args []string) error {
			bb, err := flags.build()
			if err != nil {
				return err
			}
			if bb.Circuit.NumQubits() > maxSimWires {
				return fmt.Errorf("%d wires is beyond the simulator, pick a zero-ancilla scenario",
					bb.Circuit.NumQubits())
			}

			rng := rand.New(rand.NewSource(seed))
			before := TCountOfCircuit(bb.Circuit)
			mutated, err := bb.RemoveTGates(fraction, rng, false)
			if err != nil {
				return err
			}
			removed := before - TCountOfCircuit(mutated.Circuit)
			mutated.SetCircuit(Repack(mutated.Circuit))
			if err := mutated.PrepareState(address, memory); err != nil {
				return err
			}

			hist, err := mutated.Readout(NewSimulator(seed), reps)
			if err != nil {
				return err
			}

			logger.Info().
				Int("removedT", removed).
				Int("remainingT", TCountOfCircuit(mutated.Circuit)).
				Int("depth", Depth(mutated.Circuit)).
				Msg("mutated circuit")
			fmt.Printf("expected readout: %d\n", memory>>address&1)
			for outcome, count := range hist {
				fmt.Printf("  %s: %d/%d\n", outcome, count, reps)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&fraction, "fraction", 0.5, "fraction of T gates to delete")
	cmd.Flags().IntVar(&reps, "reps", 100, "simulation repetitions")
	cmd.Flags().IntVar(&address, "address", 0, "address to query")
	cmd.Flags().Uint64Var(&memory, "memory", 0b10, "memory cell bitmask")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func newAdderCmd() *cobra.Command {
	var nbits int
	var compute, uncompute string
	var a, b uint64
	var reps int
	var seed int64

	cmd := &cobra.Command{
		Use:   "adder",
		Short: "Build a carry-lookahead adder and simulate a sum",
		RunE: func(cmd *cobra.Command, args []string) error {
			computeTyp, err := ParseToffoliDecompType(compute)
			if err != nil {
				return err
			}
			uncomputeTyp, err := ParseToffoliDecompType(uncompute)
			if err != nil {
				return err
			}
			cla, err := NewCarryLookaheadAdder(nbits, AdderDecomp{
				Compute:   computeTyp,
				Uncompute: uncomputeTyp,
			})
			if err != nil {
				return err
			}
			if cla.Circuit.NumQubits() > maxSimWires {
				return fmt.Errorf("%d wires is beyond the simulator", cla.Circuit.NumQubits())
			}

			cla.PrepareOperands(a, b)
			hist, err := cla.ReadSum(NewSimulator(seed), reps)
			if err != nil {
				return err
			}

			fmt.Printf("%d + %d = %d\n", a, b, a+b)
			for outcome, count := range hist {
				fmt.Printf("  %s: %d/%d\n", outcome, count, reps)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&nbits, "bits", "n", 3, "operand width in bits")
	cmd.Flags().StringVar(&compute, "compute", NoDecomp.String(), "compute-side Toffoli decomposition")
	cmd.Flags().StringVar(&uncompute, "uncompute", NoDecomp.String(), "uncompute-side Toffoli decomposition")
	cmd.Flags().Uint64Var(&a, "a", 3, "first operand")
	cmd.Flags().Uint64Var(&b, "b", 5, "second operand")
	cmd.Flags().IntVar(&reps, "reps", 20, "simulation repetitions")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func newQASMCmd() *cobra.Command {
	var flags scenarioFlags
	var output string

	cmd := &cobra.Command{
		Use:   "qasm",
		Short: "Emit the bucket brigade circuit as QASM 2.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			bb, err := flags.build()
			if err != nil {
				return err
			}
			qasm := bb.Circuit.ToQASM()
			if output == "" {
				fmt.Print(qasm)
				return nil
			}
			if err := os.WriteFile(output, []byte(qasm), 0644); err != nil {
				return err
			}
			logger.Info().Str("path", output).Int("gates", CountGates(bb.Circuit)).Msg("wrote QASM")
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
