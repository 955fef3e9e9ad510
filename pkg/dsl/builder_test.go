package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keepaway/pkg/domain"
)

func example() *Builder {
	b := New()
	b.Add("Monkey 0").Items(79, 98).Times(19).DivisibleBy(23).Throw("Monkey 2", "Monkey 3")
	b.Add("Monkey 1").Items(54, 65, 75, 74).Plus(6).DivisibleBy(19).Throw("Monkey 2", "Monkey 0")
	b.Add("Monkey 2").Items(79, 60, 97).Squared().DivisibleBy(13).Throw("Monkey 1", "Monkey 3")
	b.Add("Monkey 3").Items(74).Plus(3).DivisibleBy(17).Throw("Monkey 0", "Monkey 1")
	return b
}

func TestBuilder_Build(t *testing.T) {
	defs, err := example().Build()
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, domain.Definition{
		Name:      "Monkey 2",
		Items:     []int64{79, 60, 97},
		Transform: domain.Operation{Kind: domain.OpMultiply, Operand: domain.Self()},
		Divisor:   13,
		IfTrue:    1,
		IfFalse:   3,
	}, defs[2])
	assert.Equal(t, 0, defs[3].IfTrue)
}

func TestBuilder_Registry(t *testing.T) {
	reg, err := example().Registry()
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, int64(96577), reg.GlobalModulus())
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	b.Add("a").Items(1)
	b.Add("a").Items(2).Minus(1).DivisibleBy(2).Throw("a", "a")

	defs, err := b.Build()
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, []int64{1, 2}, defs[0].Items)
	assert.Equal(t, domain.OpSubtract, defs[0].Transform.Kind)
}

func TestBuilder_Errors(t *testing.T) {
	b := New()
	b.Add("a").Plus(1).DivisibleBy(2).Throw("a", "nobody")

	_, err := b.Build()
	var defErr *domain.DefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "if_false", defErr.Field)
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)

	b = New()
	b.Add("a").Plus(1).DivisibleBy(2)
	_, err = b.Build()
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "if_true", defErr.Field)

	b = New()
	b.Add("a").Over(0).DivisibleBy(2).Throw("a", "a")
	_, err = b.Registry()
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
}

func TestBuilder_BuildCopiesItems(t *testing.T) {
	b := New()
	b.Add("a").Items(5).Doubled().DivisibleBy(2).Throw("a", "a")

	defs, err := b.Build()
	require.NoError(t, err)
	defs[0].Items[0] = 99

	again, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, again[0].Items)
}
