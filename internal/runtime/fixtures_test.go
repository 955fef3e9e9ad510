package runtime_test

import "github.com/aretw0/keepaway/pkg/domain"

// exampleDefinitions is the four-agent puzzle fixture (divisors 23, 19, 13, 17).
func exampleDefinitions() []domain.Definition {
	return []domain.Definition{
		{
			Name:      "Monkey 0",
			Items:     []int64{79, 98},
			Transform: domain.Operation{Kind: domain.OpMultiply, Operand: domain.Literal(19)},
			Divisor:   23, IfTrue: 2, IfFalse: 3,
		},
		{
			Name:      "Monkey 1",
			Items:     []int64{54, 65, 75, 74},
			Transform: domain.Operation{Kind: domain.OpAdd, Operand: domain.Literal(6)},
			Divisor:   19, IfTrue: 2, IfFalse: 0,
		},
		{
			Name:      "Monkey 2",
			Items:     []int64{79, 60, 97},
			Transform: domain.Operation{Kind: domain.OpMultiply, Operand: domain.Self()},
			Divisor:   13, IfTrue: 1, IfFalse: 3,
		},
		{
			Name:      "Monkey 3",
			Items:     []int64{74},
			Transform: domain.Operation{Kind: domain.OpAdd, Operand: domain.Literal(3)},
			Divisor:   17, IfTrue: 0, IfFalse: 1,
		},
	}
}
