package runtime

import (
	"fmt"

	"github.com/aretw0/keepaway/pkg/domain"
)

// Apply computes the transform of item. Results that leave the non-negative
// int64 range are reported instead of wrapped.
func Apply(op domain.Operation, item int64) (int64, *domain.ArithmeticError) {
	operand := op.Operand.Resolve(item)
	fail := func(err error) *domain.ArithmeticError {
		return &domain.ArithmeticError{Err: err, Op: op.Kind, Value: item, Operand: operand}
	}

	var (
		v  int64
		ok bool
	)
	switch op.Kind {
	case domain.OpAdd:
		v, ok = domain.AddChecked(item, operand)
	case domain.OpSubtract:
		v, ok = domain.SubChecked(item, operand)
		ok = ok && v >= 0
	case domain.OpMultiply:
		v, ok = domain.MulChecked(item, operand)
	case domain.OpDivide:
		if operand == 0 {
			return 0, fail(domain.ErrDivisionByZero)
		}
		v, ok = item/operand, true
	default:
		return 0, fail(fmt.Errorf("%w: operation kind %d", domain.ErrMalformedDefinition, op.Kind))
	}
	if !ok {
		return 0, fail(domain.ErrArithmeticOverflow)
	}
	return v, nil
}

// TopTwoProduct multiplies the two largest counters. A missing rank counts as 0,
// so fewer than two counters yield 0. Ties are irrelevant to the product.
func TopTwoProduct(counters []int64) (int64, error) {
	var first, second int64
	for _, c := range counters {
		switch {
		case c > first:
			first, second = c, first
		case c > second:
			second = c
		}
	}
	if len(counters) < 2 {
		return 0, nil
	}
	p, ok := domain.MulChecked(first, second)
	if !ok {
		return 0, fmt.Errorf("%w: %d * %d", domain.ErrArithmeticOverflow, first, second)
	}
	return p, nil
}
