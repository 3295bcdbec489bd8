package main

import (
	"fmt"
	"slices"
	"strings"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate type.
func gateDisplayName(g *Gate) string {
	switch g.Type {
	case "MEASURE":
		return "M"
	case "S", "T":
		if g.IsDagger {
			return g.Type + "†"
		}
		return g.Type
	default:
		return g.Type
	}
}

// targetSymbol returns the wire symbol for the target qubit of a
// controlled gate.
func targetSymbol(gateType string) string {
	if gateType == "CZ" {
		return "●"
	}
	return "⊕"
}

// ──────────────────────────── Cell info ────────────────────────────

// cellInfo describes what occupies a single (step, qubit) cell.
type cellInfo struct {
	gate         *Gate
	isControl    bool
	isTarget     bool
	passThrough  bool
	vertAbove    bool
	vertBelow    bool
	measureBelow bool
}

// getCellInfo inspects the circuit at one grid cell. Vertical flags mark
// connector segments of multi-qubit gates spanning the cell, and
// measureBelow marks the double wire running down to the classical rail.
func getCellInfo(c *Circuit, step, qubit int) cellInfo {
	var info cellInfo
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step != step {
			continue
		}
		qs := g.Qubits()
		lo := slices.Min(qs)
		hi := slices.Max(qs)
		classical := g.Type == "MEASURE" || g.ClassicalControl >= 0

		if g.References(qubit) {
			info.gate = g
			info.isControl = g.Control == qubit || slices.Contains(g.Controls, qubit)
			info.isTarget = g.Target == qubit && (g.Control >= 0 || len(g.Controls) > 0)
			info.vertAbove = qubit > lo
			info.vertBelow = qubit < hi
			if classical && qubit == hi {
				info.measureBelow = true
			}
			return info
		}
		if lo < qubit && qubit < hi {
			info.passThrough = true
			info.vertAbove = true
			info.vertBelow = true
			return info
		}
		if classical && qubit > hi {
			info.measureBelow = true
		}
	}
	return info
}

// classicalBitAtStep returns the classical bit written or read at a step,
// or -1.
func classicalBitAtStep(c *Circuit, step int) int {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step != step {
			continue
		}
		if g.MeasureBit >= 0 {
			return g.MeasureBit
		}
		if g.ClassicalControl >= 0 {
			return g.ClassicalControl
		}
	}
	return -1
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, cursor bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell ──
	if cursor {
		bdr := cursorBoxStyle
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		if info.gate != nil {
			if info.isControl {
				mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
			} else if info.isTarget {
				sym := targetSymbol(info.gate.Type)
				mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
			} else {
				name := padCenter(gateDisplayName(info.gate), gateNameW)
				mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
			}
		} else if info.passThrough {
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		} else {
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	if info.gate != nil {
		if info.isControl || info.isTarget {
			sym := "●"
			if info.isTarget {
				sym = targetSymbol(info.gate.Type)
			}
			top = emptyRow
			if info.vertAbove {
				top = vertRow
			}
			mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
			bot = emptyRow
			if info.vertBelow {
				bot = vertRow
			}
			if info.measureBelow {
				bot = dblVertRow
			}

		} else {
			margin := (cellW - gateBoxW) / 2
			rightMargin := cellW - margin - gateBoxW
			name := padCenter(gateDisplayName(info.gate), gateNameW)

			top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
			mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
			bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
			if info.measureBelow {
				bot = dblVertRow
			}
		}

	} else if info.passThrough {
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
		if info.measureBelow {
			bot = dblVertRow
		}

	} else if info.measureBelow {
		// No gate here, but a classical connection passes through.
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow

	} else {
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel, windowed on both
// axes since QRAM circuits are wide and tall.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	c := m.bb.Circuit
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Bucket Brigade  n=%d  %s", m.bb.NumAddressQubits, m.bb.Scenario)))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	displaySteps := max(availWidth/cellW, 1)
	startStep := 0
	if m.cursorStep >= displaySteps {
		startStep = m.cursorStep - displaySteps + 1
	}

	availRows := max((height-8)/3, 1)
	displayQubits := min(availRows, c.NumQubits())
	startQubit := 0
	if m.cursorQubit >= displayQubits {
		startQubit = m.cursorQubit - displayQubits + 1
	}

	if startStep > 0 || startQubit > 0 {
		fmt.Fprintf(&sb, "  ◀ steps %d–%d, wires %d–%d of %d\n",
			startStep, startStep+displaySteps-1, startQubit, startQubit+displayQubits-1, c.NumQubits())
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each visible wire as 3 lines
	for qubit := startQubit; qubit < startQubit+displayQubits; qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-8s", c.Labels[qubit])) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			info := getCellInfo(c, step, qubit)
			cursor := step == m.cursorStep && qubit == m.cursorQubit && m.focus == focusCircuit

			top, mid, bot := renderCell(info, cursor)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// ── Classical bit wire (single line) ──
	if c.NumCbits > 0 && startQubit+displayQubits >= c.NumQubits() {
		label := fmt.Sprintf("c%d", c.NumCbits)
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-8s", label)) + cbitWireStyle.Render("══")

		for step := startStep; step < startStep+displaySteps; step++ {
			cbit := classicalBitAtStep(c, step)
			if cbit >= 0 {
				bitLabel := fmt.Sprintf("%d", cbit)
				dashL := (cellW - 1) / 2
				dashR := max(cellW-dashL-1-len(bitLabel), 0)
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
					cbitConnectorStyle.Render("╩"+bitLabel) +
					cbitWireStyle.Render(strings.Repeat("═", dashR))
			} else {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
			}
		}
		sb.WriteString(cbitLine + "\n")
	}

	fmt.Fprintf(&sb, "\n  %s at step %d", c.Labels[m.cursorQubit], m.cursorStep)
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderMetricsPanel renders the verify table next to the circuit.
func (m Model) renderMetricsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Metrics"))
	sb.WriteString("\n\n")

	rows := []struct {
		name string
		fn   func() (int, int)
	}{
		{"Qubits", m.bb.VerifyNumberQubits},
		{"Depth", m.bb.VerifyDepth},
		{"T count", m.bb.VerifyTCount},
		{"T depth", m.bb.VerifyTDepth},
		{"H count", m.bb.VerifyHadamardCount},
	}
	fmt.Fprintf(&sb, "%-10s %8s %8s\n", "", dimStyle.Render("counted"), dimStyle.Render("formula"))
	for _, row := range rows {
		got, want := row.fn()
		mark := "✓"
		if got != want {
			mark = "✗"
		}
		fmt.Fprintf(&sb, "%-10s %8d %8d %s\n", row.name, got, want, mark)
	}

	c := m.bb.Circuit
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-10s %8d\n", "Gates", CountGates(c))
	fmt.Fprintf(&sb, "%-10s %8d\n", "CNOTs", CNOTCountOfCircuit(c))
	fmt.Fprintf(&sb, "%-10s %8d\n", "Toffolis", ToffoliCountOfCircuit(c))
	fmt.Fprintf(&sb, "%-10s %8d\n", "Crit.depth", FromCircuit(c).CriticalDepth())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move wire  ←→/hl Move step")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("x"))
	sb.WriteString(" T-removal experiment\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Scenario  ^S Save QASM  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// It properly handles ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
