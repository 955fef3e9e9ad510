package compiler

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keepaway/pkg/domain"
)

func TestParser_Example(t *testing.T) {
	data, err := os.ReadFile("testdata/example.txt")
	require.NoError(t, err)

	defs, err := NewParser().Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, domain.Definition{
		Name:      "Monkey 0",
		Items:     []int64{79, 98},
		Transform: domain.Operation{Kind: domain.OpMultiply, Operand: domain.Literal(19)},
		Divisor:   23,
		IfTrue:    2,
		IfFalse:   3,
	}, defs[0])
	assert.Equal(t, domain.Operation{Kind: domain.OpMultiply, Operand: domain.Self()}, defs[2].Transform)
	assert.Equal(t, []int64{74}, defs[3].Items)
	assert.Equal(t, 0, defs[3].IfTrue)
}

func TestParser_CRLFAndTrailingBlankLines(t *testing.T) {
	data, err := os.ReadFile("testdata/example.txt")
	require.NoError(t, err)
	crlf := strings.ReplaceAll(string(data), "\n", "\r\n") + "\r\n\r\n"

	defs, err := NewParser().Parse([]byte(crlf))
	require.NoError(t, err)
	assert.Len(t, defs, 4)
}

func TestParser_EmptyItemsAndMultiDigitSuccessors(t *testing.T) {
	input := `Monkey 0:
  Starting items:
  Operation: new = old - 4
  Test: divisible by 7
    If true: throw to monkey 12
    If false: throw to monkey 10
`
	defs, err := NewParser().Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Empty(t, defs[0].Items)
	assert.Equal(t, domain.OpSubtract, defs[0].Transform.Kind)
	assert.Equal(t, 12, defs[0].IfTrue)
	assert.Equal(t, 10, defs[0].IfFalse)
}

func TestParser_LongItemLine(t *testing.T) {
	const count = 30000
	items := strings.TrimSuffix(strings.Repeat("17, ", count), ", ")
	input := "Monkey 0:\n  Starting items: " + items + "\n" +
		"  Operation: new = old + 1\n  Test: divisible by 2\n" +
		"    If true: throw to monkey 0\n    If false: throw to monkey 0\n"
	require.Greater(t, len(input), 64*1024)

	defs, err := NewParser().Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Len(t, defs[0].Items, count)
}

func TestParser_Errors(t *testing.T) {
	valid := []string{
		"Monkey 0:",
		"  Starting items: 1, 2",
		"  Operation: new = old + 2",
		"  Test: divisible by 5",
		"    If true: throw to monkey 0",
		"    If false: throw to monkey 0",
	}
	tests := []struct {
		name    string
		line    int
		replace string
		want    string
	}{
		{"missing colon", 0, "Monkey 0", "agent header"},
		{"bad item", 1, "  Starting items: 1, x", `invalid item "x"`},
		{"unknown operator", 2, "  Operation: new = old % 2", "unknown operation"},
		{"unresolvable operand", 2, "  Operation: new = old + new", "unresolvable operand"},
		{"missing operand", 2, "  Operation: new = old +", "expected '<op> <operand>'"},
		{"bad divisor", 3, "  Test: divisible by many", "invalid number"},
		{"wrong line", 4, "  Whatever: 3", "If true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := append([]string(nil), valid...)
			lines[tt.line] = tt.replace

			_, err := NewParser().Parse([]byte(strings.Join(lines, "\n")))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
			assert.Contains(t, err.Error(), tt.want)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line+1, perr.Line)
		})
	}

	t.Run("short block", func(t *testing.T) {
		_, err := NewParser().Parse([]byte(strings.Join(valid[:4], "\n")))
		assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
		assert.Contains(t, err.Error(), "expected 6 lines")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewParser().Parse([]byte("\n\n"))
		assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
	})
}
