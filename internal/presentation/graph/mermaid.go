package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/keepaway/pkg/domain"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	// Inspections per agent id; the two busiest agents are highlighted.
	Inspections []int64
}

// GenerateMermaid produces a Mermaid flowchart of the throw topology.
// Each agent is a node labelled with its transform; the solid edge is taken when
// the value is divisible, the dotted edge otherwise.
func GenerateMermaid(defs []domain.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i, def := range defs {
		name := def.Name
		if name == "" {
			name = fmt.Sprintf("Agent %d", i)
		}
		label := fmt.Sprintf("%s <br/> %s", name, def.Transform)
		if overlay != nil && i < len(overlay.Inspections) {
			label = fmt.Sprintf("%s <br/> %d inspections", label, overlay.Inspections[i])
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeID(i), strings.ReplaceAll(label, "\"", "'")))
	}
	for i, def := range defs {
		sb.WriteString(fmt.Sprintf("    %s -- \"÷%d\" --> %s\n", nodeID(i), def.Divisor, nodeID(def.IfTrue)))
		sb.WriteString(fmt.Sprintf("    %s -. \"else\" .-> %s\n", nodeID(i), nodeID(def.IfFalse)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef busiest fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range topTwo(overlay.Inspections) {
			sb.WriteString(fmt.Sprintf("    class %s busiest;\n", nodeID(id)))
		}
	}

	return sb.String()
}

func nodeID(id int) string {
	return fmt.Sprintf("a%d", id)
}

// topTwo returns the ids of the two largest counters; ties go to the lower id.
func topTwo(counters []int64) []int {
	first, second := -1, -1
	for i, c := range counters {
		switch {
		case first < 0 || c > counters[first]:
			first, second = i, first
		case second < 0 || c > counters[second]:
			second = i
		}
	}
	var out []int
	for _, id := range []int{first, second} {
		if id >= 0 {
			out = append(out, id)
		}
	}
	return out
}
