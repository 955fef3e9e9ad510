package dsl

import "github.com/aretw0/keepaway/pkg/domain"

// AgentBuilder provides a fluent API for configuring an agent.
type AgentBuilder struct {
	def     domain.Definition
	ifTrue  string
	ifFalse string
}

// Items appends starting items to the agent's queue.
func (a *AgentBuilder) Items(items ...int64) *AgentBuilder {
	a.def.Items = append(a.def.Items, items...)
	return a
}

// Op sets the transform explicitly.
func (a *AgentBuilder) Op(kind domain.OpKind, operand domain.Operand) *AgentBuilder {
	a.def.Transform = domain.Operation{Kind: kind, Operand: operand}
	return a
}

// Plus sets the transform to new = old + n.
func (a *AgentBuilder) Plus(n int64) *AgentBuilder {
	return a.Op(domain.OpAdd, domain.Literal(n))
}

// Minus sets the transform to new = old - n.
func (a *AgentBuilder) Minus(n int64) *AgentBuilder {
	return a.Op(domain.OpSubtract, domain.Literal(n))
}

// Times sets the transform to new = old * n.
func (a *AgentBuilder) Times(n int64) *AgentBuilder {
	return a.Op(domain.OpMultiply, domain.Literal(n))
}

// Over sets the transform to new = old / n.
func (a *AgentBuilder) Over(n int64) *AgentBuilder {
	return a.Op(domain.OpDivide, domain.Literal(n))
}

// Squared sets the transform to new = old * old.
func (a *AgentBuilder) Squared() *AgentBuilder {
	return a.Op(domain.OpMultiply, domain.Self())
}

// Doubled sets the transform to new = old + old.
func (a *AgentBuilder) Doubled() *AgentBuilder {
	return a.Op(domain.OpAdd, domain.Self())
}

// DivisibleBy sets the divisibility test.
func (a *AgentBuilder) DivisibleBy(divisor int64) *AgentBuilder {
	a.def.Divisor = divisor
	return a
}

// Throw names the successors for divisible and non-divisible values.
func (a *AgentBuilder) Throw(ifTrue, ifFalse string) *AgentBuilder {
	a.ifTrue, a.ifFalse = ifTrue, ifFalse
	return a
}
