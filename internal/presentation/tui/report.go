package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/keepaway/pkg/domain"
)

// Report renders a run result as Markdown: a summary followed by the
// per-agent inspection table, busiest agents first.
func Report(defs []domain.Definition, res domain.Result) string {
	var sb strings.Builder
	sb.WriteString("# Keep away\n\n")
	fmt.Fprintf(&sb, "**Answer:** `%d`\n\n", res.Answer)
	fmt.Fprintf(&sb, "- Rounds: %d\n", res.Rounds)
	fmt.Fprintf(&sb, "- Dampener: %d\n", res.Dampener)
	fmt.Fprintf(&sb, "- Modulus: %d\n", res.Modulus)
	if res.RunID != "" {
		fmt.Fprintf(&sb, "- Run: `%s`\n", res.RunID)
	}
	if res.Cached {
		sb.WriteString("- Served from cache\n")
	}

	order := make([]int, len(res.Inspections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return res.Inspections[order[a]] > res.Inspections[order[b]]
	})

	sb.WriteString("\n| Rank | Agent | Operation | Test | Inspections |\n")
	sb.WriteString("|---:|---|---|---:|---:|\n")
	for rank, id := range order {
		name, op, divisor := fmt.Sprintf("Agent %d", id), "", ""
		if id < len(defs) {
			if defs[id].Name != "" {
				name = defs[id].Name
			}
			op = "`" + defs[id].Transform.String() + "`"
			divisor = fmt.Sprintf("÷%d", defs[id].Divisor)
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %d |\n", rank+1, name, op, divisor, res.Inspections[id])
	}
	return sb.String()
}
