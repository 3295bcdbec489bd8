package main

import (
	"fmt"
	"strings"
)

// decompChoices lists the selectable Toffoli decompositions in picker
// order.
var decompChoices = []ToffoliDecompType{
	NoDecomp,
	ZeroAncillaTDepth4,
	ZeroAncillaTDepth4Compute,
	ZeroAncillaTDepth0Uncompute,
	FourAncillaTDepth1A,
	FourAncillaTDepth1B,
}

// Scenario picker fields, in display order.
const (
	cfgFieldN = iota
	cfgFieldFanIn
	cfgFieldMem
	cfgFieldFanOut
	cfgFieldParallel
	cfgFieldCount
)

var cfgFieldNames = [cfgFieldCount]string{
	"Address qubits",
	"Fan-in decomposition",
	"Memory decomposition",
	"Fan-out decomposition",
	"Toffoli scheduling",
}

// cfgValue renders the current value of a picker field.
func (m Model) cfgValue(field int) string {
	switch field {
	case cfgFieldN:
		return fmt.Sprintf("%d", m.cfgN)
	case cfgFieldFanIn:
		return decompChoices[m.cfgFanIn].String()
	case cfgFieldMem:
		return decompChoices[m.cfgMem].String()
	case cfgFieldFanOut:
		return decompChoices[m.cfgFanOut].String()
	case cfgFieldParallel:
		if m.cfgParallel {
			return "parallel"
		}
		return "serial"
	}
	return ""
}

// cycleChoice steps a decomposition index forward or backward.
func cycleChoice(idx, delta int) int {
	return (idx + delta + len(decompChoices)) % len(decompChoices)
}

// renderConfig renders the scenario picker screen.
func (m Model) renderConfig() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("QRAM Scenario"))
	sb.WriteString("\n\n")

	for field := 0; field < cfgFieldCount; field++ {
		if field == m.cfgField {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-22s", cfgFieldNames[field])))
			sb.WriteString(gateStyle.Render("◂ " + m.cfgValue(field) + " ▸"))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-22s", cfgFieldNames[field])))
			sb.WriteString(dimStyle.Render(m.cfgValue(field)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	scenario := DecompScenario{
		FanIn:            decompChoices[m.cfgFanIn],
		Mem:              decompChoices[m.cfgMem],
		FanOut:           decompChoices[m.cfgFanOut],
		ParallelToffolis: m.cfgParallel,
	}
	sb.WriteString(dimStyle.Render(scenario.String()))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(" ↑↓ Field  ←→ Value  ⏎ Build  q ✕"))

	if m.buildErr != "" {
		sb.WriteString("\n")
		sb.WriteString(activeGateStyle.Render(m.buildErr))
	}

	return menuBorderStyle.Render(sb.String())
}
