package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedDefinition is returned when an agent definition cannot be simulated:
// a successor id is out of range, a divisor is non-positive or an operand is unresolvable.
var ErrMalformedDefinition = errors.New("malformed definition")

// ErrArithmeticOverflow is returned when an item value or a counter product does not fit in an int64.
var ErrArithmeticOverflow = errors.New("arithmetic overflow")

// ErrInvalidRunConfig is returned when rounds or the dampener are not positive.
var ErrInvalidRunConfig = errors.New("invalid run configuration")

// ErrUnknownMode is returned when a mode name cannot be parsed.
var ErrUnknownMode = errors.New("unknown mode")

// DefinitionError pinpoints the definition and field that failed validation.
type DefinitionError struct {
	Index  int    // Position of the definition (the agent id)
	Field  string // Offending field, e.g. "if_true"
	Reason string // Human-readable reason for failure
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("agent %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets callers match DefinitionError with errors.Is(err, ErrMalformedDefinition).
func (e *DefinitionError) Unwrap() error {
	return ErrMalformedDefinition
}

// ErrDivisionByZero is returned when a self-referencing divide meets an item of value 0.
var ErrDivisionByZero = errors.New("division by zero")

// ArithmeticError records where in a run a transform could not be computed.
// It unwraps to ErrArithmeticOverflow or ErrDivisionByZero.
type ArithmeticError struct {
	Err     error
	AgentID int
	Round   int
	Op      OpKind
	Value   int64
	Operand int64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("round %d, agent %d: %d %s %d: %v", e.Round, e.AgentID, e.Value, e.Op, e.Operand, e.Err)
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// ErrCacheMiss is returned when no answer is cached under a key.
var ErrCacheMiss = errors.New("cache miss")
