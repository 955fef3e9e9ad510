// Package registry holds the mutable state of a simulation: an index-addressed
// arena of agents whose successors are plain integer ids.
package registry

import (
	"fmt"

	"github.com/aretw0/keepaway/pkg/domain"
)

// Registry owns every agent of a run. It is not safe for concurrent use;
// the engine owns it exclusively for the duration of a run.
type Registry struct {
	agents []domain.Agent

	modulus       int64
	modulusCached bool
}

// New builds a registry from definitions, where definition i becomes agent i.
// It fails with an error wrapping domain.ErrMalformedDefinition before any agent
// is created if a definition cannot be simulated. Item slices are copied.
func New(defs []domain.Definition) (*Registry, error) {
	for i, def := range defs {
		if err := validate(i, def, len(defs)); err != nil {
			return nil, err
		}
	}
	if _, err := product(defs); err != nil {
		return nil, err
	}

	agents := make([]domain.Agent, len(defs))
	for i, def := range defs {
		items := make([]int64, len(def.Items))
		copy(items, def.Items)
		agents[i] = domain.Agent{
			ID:        i,
			Name:      def.Name,
			Items:     items,
			Transform: def.Transform,
			Divisor:   def.Divisor,
			IfTrue:    def.IfTrue,
			IfFalse:   def.IfFalse,
		}
	}
	return &Registry{agents: agents}, nil
}

func validate(i int, def domain.Definition, size int) error {
	if def.Divisor <= 0 {
		return &domain.DefinitionError{Index: i, Field: "divisor", Reason: fmt.Sprintf("must be positive, got %d", def.Divisor)}
	}
	if !def.Transform.Kind.Valid() {
		return &domain.DefinitionError{Index: i, Field: "operation", Reason: "unknown operation kind"}
	}
	op := def.Transform.Operand
	if !op.IsSelf() {
		if op.Value() < 0 {
			return &domain.DefinitionError{Index: i, Field: "operand", Reason: fmt.Sprintf("must be non-negative, got %d", op.Value())}
		}
		if def.Transform.Kind == domain.OpDivide && op.Value() == 0 {
			return &domain.DefinitionError{Index: i, Field: "operand", Reason: "division by zero"}
		}
	}
	if def.IfTrue < 0 || def.IfTrue >= size {
		return &domain.DefinitionError{Index: i, Field: "if_true", Reason: fmt.Sprintf("successor %d out of range [0,%d)", def.IfTrue, size)}
	}
	if def.IfFalse < 0 || def.IfFalse >= size {
		return &domain.DefinitionError{Index: i, Field: "if_false", Reason: fmt.Sprintf("successor %d out of range [0,%d)", def.IfFalse, size)}
	}
	for _, item := range def.Items {
		if item < 0 {
			return &domain.DefinitionError{Index: i, Field: "items", Reason: fmt.Sprintf("item %d is negative", item)}
		}
	}
	return nil
}

func product(defs []domain.Definition) (int64, error) {
	m := int64(1)
	for i, def := range defs {
		next, ok := domain.MulChecked(m, def.Divisor)
		if !ok {
			return 0, fmt.Errorf("%w: product of divisors exceeds int64 at agent %d", domain.ErrArithmeticOverflow, i)
		}
		m = next
	}
	return m, nil
}

// Len returns the number of agents.
func (r *Registry) Len() int {
	return len(r.agents)
}

// GlobalModulus returns the product of every agent's divisor.
// It is computed on first access and cached; New has already proven it fits in an int64.
func (r *Registry) GlobalModulus() int64 {
	if !r.modulusCached {
		m := int64(1)
		for i := range r.agents {
			m *= r.agents[i].Divisor
		}
		r.modulus = m
		r.modulusCached = true
	}
	return r.modulus
}

// Agent returns the agent with the given id. Callers must treat it as read-only
// and mutate it only through the registry.
func (r *Registry) Agent(id int) *domain.Agent {
	return &r.agents[id]
}

// IncrementInspections records one inspection by agent id.
func (r *Registry) IncrementInspections(id int) {
	r.agents[id].Inspections++
}

// AppendItem adds value to the end of agent id's queue.
func (r *Registry) AppendItem(id int, value int64) {
	r.agents[id].Items = append(r.agents[id].Items, value)
}

// DrainQueue empties agent id's queue and returns its items in arrival order.
func (r *Registry) DrainQueue(id int) []int64 {
	items := r.agents[id].Items
	r.agents[id].Items = nil
	return items
}

// Inspections returns a copy of every agent's inspection counter, indexed by id.
func (r *Registry) Inspections() []int64 {
	out := make([]int64, len(r.agents))
	for i := range r.agents {
		out[i] = r.agents[i].Inspections
	}
	return out
}

// TotalItems returns the number of items currently held across all queues.
func (r *Registry) TotalItems() int {
	n := 0
	for i := range r.agents {
		n += len(r.agents[i].Items)
	}
	return n
}
