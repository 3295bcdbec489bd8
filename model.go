package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Simulation is dense statevector, so the experiment screen refuses
// circuits beyond this many wires.
const maxSimWires = 20

// focus represents which screen has keyboard input.
type focus int

const (
	focusConfig focus = iota
	focusCircuit
	focusExperiment
)

// Model represents the TUI application state.
type Model struct {
	bb *BucketBrigade

	cursorQubit int
	cursorStep  int
	width       int
	height      int
	focus       focus
	statusMsg   string

	// Scenario picker state
	cfgField    int
	cfgN        int
	cfgFanIn    int
	cfgMem      int
	cfgFanOut   int
	cfgParallel bool
	buildErr    string

	// Experiment state
	expField  int
	expInputs [4]textinput.Model // percentage, repetitions, address, memory
	histogram map[string]int
	expNote   string
	removed   int
}

const (
	expFieldPercent = iota
	expFieldReps
	expFieldAddress
	expFieldMemory
)

func initialModel() Model {
	m := Model{
		focus:    focusConfig,
		cfgN:     2,
		cfgFanIn: 1, cfgMem: 1, cfgFanOut: 1,
	}

	placeholders := [4]string{"0.5", "100", "2", "0b0110"}
	prompts := [4]string{"T fraction  ", "Repetitions ", "Address     ", "Memory      "}
	for i := range m.expInputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = prompts[i]
		ti.CharLimit = 18
		ti.SetValue(placeholders[i])
		m.expInputs[i] = ti
	}
	m.expInputs[0].Focus()
	return m
}

// buildFromConfig constructs the bucket brigade for the picked scenario.
func (m *Model) buildFromConfig() {
	scenario := DecompScenario{
		FanIn:            decompChoices[m.cfgFanIn],
		Mem:              decompChoices[m.cfgMem],
		FanOut:           decompChoices[m.cfgFanOut],
		ParallelToffolis: m.cfgParallel,
	}
	bb, err := NewBucketBrigade(m.cfgN, scenario)
	if err != nil {
		m.buildErr = err.Error()
		return
	}
	m.buildErr = ""
	m.bb = bb
	m.cursorQubit = 0
	m.cursorStep = 0
	m.focus = focusCircuit
}

// runExperiment mutates a copy of the circuit, removing the requested
// fraction of T gates, then simulates the readout for the chosen
// address and memory contents.
func (m *Model) runExperiment() {
	pct, err := strconv.ParseFloat(strings.TrimSpace(m.expInputs[expFieldPercent].Value()), 64)
	if err != nil || pct < 0 || pct > 1 {
		m.expNote = "fraction must be in [0, 1]"
		return
	}
	reps, err := strconv.Atoi(strings.TrimSpace(m.expInputs[expFieldReps].Value()))
	if err != nil || reps < 1 {
		m.expNote = "repetitions must be a positive integer"
		return
	}
	address, err := strconv.Atoi(strings.TrimSpace(m.expInputs[expFieldAddress].Value()))
	if err != nil || address < 0 || address >= 1<<m.bb.NumAddressQubits {
		m.expNote = fmt.Sprintf("address must be in [0, %d]", 1<<m.bb.NumAddressQubits-1)
		return
	}
	memory, err := strconv.ParseUint(strings.TrimSpace(m.expInputs[expFieldMemory].Value()), 0, 64)
	if err != nil {
		m.expNote = "memory must be a cell bitmask (e.g. 0b0110)"
		return
	}

	if m.bb.Circuit.NumQubits() > maxSimWires {
		m.expNote = fmt.Sprintf("%d wires is beyond the simulator, pick a zero-ancilla scenario",
			m.bb.Circuit.NumQubits())
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	before := TCountOfCircuit(m.bb.Circuit)
	mutated, err := m.bb.RemoveTGates(pct, rng, false)
	if err != nil {
		m.expNote = err.Error()
		return
	}
	m.removed = before - TCountOfCircuit(mutated.Circuit)
	mutated.SetCircuit(Repack(mutated.Circuit))
	if err := mutated.PrepareState(address, memory); err != nil {
		m.expNote = err.Error()
		return
	}

	hist, err := mutated.Readout(NewSimulator(time.Now().UnixNano()), reps)
	if err != nil {
		m.expNote = err.Error()
		return
	}
	m.histogram = hist
	expected := memory >> address & 1
	m.expNote = fmt.Sprintf("expected readout %d", expected)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusConfig:
			switch key {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.cfgField > 0 {
					m.cfgField--
				}
			case "down", "j":
				if m.cfgField < cfgFieldCount-1 {
					m.cfgField++
				}
			case "left", "h", "right", "l":
				delta := 1
				if key == "left" || key == "h" {
					delta = -1
				}
				switch m.cfgField {
				case cfgFieldN:
					m.cfgN = max(m.cfgN+delta, 2)
				case cfgFieldFanIn:
					m.cfgFanIn = cycleChoice(m.cfgFanIn, delta)
				case cfgFieldMem:
					m.cfgMem = cycleChoice(m.cfgMem, delta)
				case cfgFieldFanOut:
					m.cfgFanOut = cycleChoice(m.cfgFanOut, delta)
				case cfgFieldParallel:
					m.cfgParallel = !m.cfgParallel
				}
			case "enter":
				m.buildFromConfig()
			case "esc":
				if m.bb != nil {
					m.focus = focusCircuit
				}
			}

		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusConfig
			case "x":
				m.focus = focusExperiment
				m.histogram = nil
				m.expNote = ""
			case "ctrl+s":
				qasm := m.bb.Circuit.ToQASM()
				if err := os.WriteFile("bucketbrigade.qasm", []byte(qasm), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved bucketbrigade.qasm"
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.bb.Circuit.NumQubits()-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < m.bb.Circuit.MaxSteps-1 {
					m.cursorStep++
				}
			case "g":
				m.cursorStep = 0
			case "G":
				m.cursorStep = m.bb.Circuit.MaxSteps - 1
			}

		case focusExperiment:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "tab", "down":
				m.expInputs[m.expField].Blur()
				m.expField = (m.expField + 1) % len(m.expInputs)
				m.expInputs[m.expField].Focus()
			case "shift+tab", "up":
				m.expInputs[m.expField].Blur()
				m.expField = (m.expField + len(m.expInputs) - 1) % len(m.expInputs)
				m.expInputs[m.expField].Focus()
			case "enter":
				m.runExperiment()
			default:
				var cmd tea.Cmd
				m.expInputs[m.expField], cmd = m.expInputs[m.expField].Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// ──────────────────────────── View ────────────────────────────

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.focus == focusConfig || m.bb == nil {
		return m.renderConfig()
	}

	metricsWidth := 34
	circuitWidth := m.width - metricsWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	metricsPanel := m.renderMetricsPanel(metricsWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, metricsPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusExperiment {
		frame = overlayAt(frame, m.renderExperiment(), 4, 2)
	}

	return frame
}

// renderExperiment renders the T-removal experiment overlay.
func (m Model) renderExperiment() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("T-Removal Experiment"))
	sb.WriteString("\n\n")
	for i := range m.expInputs {
		sb.WriteString(m.expInputs[i].View())
		sb.WriteString("\n")
	}

	if m.removed > 0 || m.histogram != nil {
		fmt.Fprintf(&sb, "\nremoved %d T gates\n", m.removed)
	}
	if m.histogram != nil {
		sb.WriteString(renderHistogram(m.histogram, 28))
	}
	if m.expNote != "" {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(m.expNote))
	}

	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Tab Field  ⏎ Run  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderHistogram draws outcome frequencies as horizontal bars.
func renderHistogram(hist map[string]int, barW int) string {
	keys := make([]string, 0, len(hist))
	total := 0
	for k, v := range hist {
		keys = append(keys, k)
		total += v
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		frac := float64(hist[k]) / float64(total)
		filled := int(frac * float64(barW))
		fmt.Fprintf(&sb, "%s %s%s %4d\n",
			qubitLabelStyle.Render(k),
			gateStyle.Render(strings.Repeat("█", filled)),
			dimStyle.Render(strings.Repeat("░", barW-filled)),
			hist[k])
	}
	return sb.String()
}
