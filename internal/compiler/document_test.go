package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/keepaway/pkg/domain"
)

func TestLoad_AllFormatsAgree(t *testing.T) {
	text, err := Load("testdata/example.txt")
	require.NoError(t, err)

	for _, name := range []string{"example.yaml", "example.json"} {
		t.Run(name, func(t *testing.T) {
			defs, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, text, defs)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.YAML"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.json"))
	assert.Equal(t, FormatText, FormatFromPath("input.txt"))
	assert.Equal(t, FormatText, FormatFromPath("input"))
}

func TestDecode_JSONSchemaRejections(t *testing.T) {
	tests := map[string]string{
		"no agents":         `{"agents": []}`,
		"zero divisor":      `{"agents": [{"items": [], "operation": {"kind": "+", "operand": 1}, "divisor": 0, "if_true": 0, "if_false": 0}]}`,
		"unknown field":     `{"agents": [{"items": [], "operation": {"kind": "+", "operand": 1}, "divisor": 2, "if_true": 0, "if_false": 0, "extra": 1}]}`,
		"bad operand":       `{"agents": [{"items": [], "operation": {"kind": "+", "operand": "new"}, "divisor": 2, "if_true": 0, "if_false": 0}]}`,
		"negative item":     `{"agents": [{"items": [-1], "operation": {"kind": "+", "operand": 1}, "divisor": 2, "if_true": 0, "if_false": 0}]}`,
		"missing successor": `{"agents": [{"items": [], "operation": {"kind": "+", "operand": 1}, "divisor": 2, "if_true": 0}]}`,
		"not json":          `agents: []`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc), FormatJSON)
			assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
		})
	}
}

func TestDecode_YAMLErrors(t *testing.T) {
	_, err := Decode([]byte("agents:\n  - items: [1]\n    operation: {kind: '%', operand: 1}\n    divisor: 2\n    if_true: 0\n    if_false: 0\n"), FormatYAML)
	var defErr *domain.DefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "operation", defErr.Field)

	_, err = Decode([]byte("agents:\n  - items: [1]\n    operation: {kind: '+', operand: nope}\n    divisor: 2\n    if_true: 0\n    if_false: 0\n"), FormatYAML)
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "operand", defErr.Field)

	_, err = Decode([]byte("agents:\n  - colour: red\n"), FormatYAML)
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)

	_, err = Decode([]byte("agents: []\n"), FormatYAML)
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
}

func TestToDocument_RoundTrip(t *testing.T) {
	defs, err := Load("testdata/example.txt")
	require.NoError(t, err)

	out, err := yaml.Marshal(ToDocument(defs))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "defs.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o644))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defs, back)
}
