package domain

import (
	"fmt"
	"strings"
)

// OpKind is the arithmetic applied by an agent when it inspects an item.
type OpKind int

const (
	// OpUnknown is the zero value and never valid in a definition.
	OpUnknown OpKind = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the symbol used in the puzzle text format.
func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return "?"
	}
}

// Valid reports whether k is one of the four supported kinds.
func (k OpKind) Valid() bool {
	return k >= OpAdd && k <= OpDivide
}

// ParseOpKind accepts either the symbol ("+") or the name ("add", "ADD").
func ParseOpKind(s string) (OpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add":
		return OpAdd, nil
	case "-", "subtract", "sub":
		return OpSubtract, nil
	case "*", "multiply", "mul":
		return OpMultiply, nil
	case "/", "divide", "div":
		return OpDivide, nil
	}
	return OpUnknown, fmt.Errorf("%w: unknown operation %q", ErrMalformedDefinition, s)
}

// SelfToken is the operand spelling that refers to the item's own value.
const SelfToken = "old"

// Operand is either a literal integer or a reference to the item being transformed.
// The zero value is the literal 0.
type Operand struct {
	self  bool
	value int64
}

// Literal returns an operand holding n.
func Literal(n int64) Operand {
	return Operand{value: n}
}

// Self returns the operand meaning "use the item's current value".
func Self() Operand {
	return Operand{self: true}
}

// IsSelf reports whether the operand refers to the item itself.
func (o Operand) IsSelf() bool {
	return o.self
}

// Value returns the literal value. It is meaningless for self operands.
func (o Operand) Value() int64 {
	return o.value
}

// Resolve returns the operand value for the given item.
func (o Operand) Resolve(item int64) int64 {
	if o.self {
		return item
	}
	return o.value
}

func (o Operand) String() string {
	if o.self {
		return SelfToken
	}
	return fmt.Sprintf("%d", o.value)
}

// Operation is the transform rule of an agent.
type Operation struct {
	Kind    OpKind
	Operand Operand
}

func (op Operation) String() string {
	return fmt.Sprintf("new = old %s %s", op.Kind, op.Operand)
}
