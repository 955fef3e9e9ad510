package dsl

import (
	"fmt"

	"github.com/aretw0/keepaway/pkg/domain"
	"github.com/aretw0/keepaway/pkg/registry"
)

// Builder manages the definition construction.
type Builder struct {
	agents []*AgentBuilder
	byName map[string]int
}

// New creates a new definition builder.
func New() *Builder {
	return &Builder{
		byName: make(map[string]int),
	}
}

// Add creates a new agent with the next free id.
// If an agent with that name already exists, it returns the existing builder.
func (b *Builder) Add(name string) *AgentBuilder {
	if id, ok := b.byName[name]; ok {
		return b.agents[id]
	}
	ab := &AgentBuilder{
		def: domain.Definition{Name: name},
	}
	b.byName[name] = len(b.agents)
	b.agents = append(b.agents, ab)
	return ab
}

// Build resolves successor names and returns the definitions in id order.
// Structural checks beyond name resolution are left to registry.New.
func (b *Builder) Build() ([]domain.Definition, error) {
	defs := make([]domain.Definition, len(b.agents))
	for i, ab := range b.agents {
		def := ab.def
		def.Items = append([]int64(nil), ab.def.Items...)

		var err error
		if def.IfTrue, err = b.resolve(i, "if_true", ab.ifTrue); err != nil {
			return nil, err
		}
		if def.IfFalse, err = b.resolve(i, "if_false", ab.ifFalse); err != nil {
			return nil, err
		}
		defs[i] = def
	}
	return defs, nil
}

// Registry builds the definitions and validates them into a registry.
func (b *Builder) Registry() (*registry.Registry, error) {
	defs, err := b.Build()
	if err != nil {
		return nil, err
	}
	return registry.New(defs)
}

func (b *Builder) resolve(index int, field, name string) (int, error) {
	if name == "" {
		return 0, &domain.DefinitionError{Index: index, Field: field, Reason: "successor not set"}
	}
	id, ok := b.byName[name]
	if !ok {
		return 0, &domain.DefinitionError{Index: index, Field: field, Reason: fmt.Sprintf("unknown agent %q", name)}
	}
	return id, nil
}
