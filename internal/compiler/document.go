package compiler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/keepaway/internal/dto"
	"github.com/aretw0/keepaway/pkg/domain"
)

// Format identifies an input encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed schema/agents.schema.json
var agentsSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("agents.schema.json", agentsSchema)
	})
	return compiledSchema, schemaErr
}

// FormatFromPath picks the format from a file extension; unknown extensions are puzzle text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Load reads a definitions file in any supported format.
func Load(path string) ([]domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	return Decode(data, FormatFromPath(path))
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) ([]domain.Definition, error) {
	switch format {
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid yaml: %v", domain.ErrMalformedDefinition, err)
		}
		return fromMap(raw)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrMalformedDefinition, err)
		}
		schema, err := documentSchema()
		if err != nil {
			return nil, fmt.Errorf("failed to compile definitions schema: %w", err)
		}
		if err := schema.Validate(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDefinition, err)
		}
		m, _ := raw.(map[string]any)
		return fromMap(m)
	default:
		return NewParser().Parse(data)
	}
}

func fromMap(raw map[string]any) ([]domain.Definition, error) {
	var doc dto.Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDefinition, err)
	}
	return FromDocument(doc)
}

// FromDocument converts a decoded document into definitions.
func FromDocument(doc dto.Document) ([]domain.Definition, error) {
	if len(doc.Agents) == 0 {
		return nil, fmt.Errorf("%w: no agents defined", domain.ErrMalformedDefinition)
	}
	defs := make([]domain.Definition, len(doc.Agents))
	for i, a := range doc.Agents {
		kind, err := domain.ParseOpKind(a.Operation.Kind)
		if err != nil {
			return nil, &domain.DefinitionError{Index: i, Field: "operation", Reason: fmt.Sprintf("unknown kind %q", a.Operation.Kind)}
		}
		operand, err := ParseOperand(a.Operation.Operand)
		if err != nil {
			return nil, &domain.DefinitionError{Index: i, Field: "operand", Reason: fmt.Sprintf("unresolvable operand %q", a.Operation.Operand)}
		}
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("Agent %d", i)
		}
		defs[i] = domain.Definition{
			Name:      name,
			Items:     a.Items,
			Transform: domain.Operation{Kind: kind, Operand: operand},
			Divisor:   a.Divisor,
			IfTrue:    a.IfTrue,
			IfFalse:   a.IfFalse,
		}
	}
	return defs, nil
}

// ToDocument is the inverse of FromDocument.
func ToDocument(defs []domain.Definition) dto.Document {
	doc := dto.Document{Agents: make([]dto.AgentDocument, len(defs))}
	for i, d := range defs {
		doc.Agents[i] = dto.AgentDocument{
			Name:  d.Name,
			Items: d.Items,
			Operation: dto.OperationDocument{
				Kind:    d.Transform.Kind.String(),
				Operand: d.Transform.Operand.String(),
			},
			Divisor: d.Divisor,
			IfTrue:  d.IfTrue,
			IfFalse: d.IfFalse,
		}
	}
	return doc
}
