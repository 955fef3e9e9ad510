package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keepaway/pkg/domain"
)

func TestReport(t *testing.T) {
	defs := []domain.Definition{
		{Name: "Monkey 0", Transform: domain.Operation{Kind: domain.OpMultiply, Operand: domain.Literal(19)}, Divisor: 23},
		{Name: "Monkey 1", Transform: domain.Operation{Kind: domain.OpAdd, Operand: domain.Literal(6)}, Divisor: 19},
		{Transform: domain.Operation{Kind: domain.OpMultiply, Operand: domain.Self()}, Divisor: 13},
	}
	res := domain.Result{
		RunID:       "run-1",
		Answer:      10605,
		Rounds:      20,
		Dampener:    3,
		Modulus:     5681,
		Inspections: []int64{101, 95, 105},
		Cached:      true,
	}

	md := Report(defs, res)

	assert.Contains(t, md, "**Answer:** `10605`")
	assert.Contains(t, md, "- Served from cache")
	assert.Contains(t, md, "| 1 | Agent 2 | `new = old * old` | ÷13 | 105 |")
	assert.Contains(t, md, "| 2 | Monkey 0 | `new = old * 19` | ÷23 | 101 |")
	assert.Contains(t, md, "| 3 | Monkey 1 | `new = old + 6` | ÷19 | 95 |")
	assert.Less(t, strings.Index(md, "Agent 2"), strings.Index(md, "Monkey 1"))
}

func TestRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "body")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
}
