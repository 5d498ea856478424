package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := ParseMoney(s)
	require.NoError(t, err)
	return m
}

func TestMoney_Rounding(t *testing.T) {
	assert.Equal(t, "0.00", ZeroMoney().String())
	assert.Equal(t, "10.01", mustMoney(t, "10.005").String())
	assert.Equal(t, "2300.00", MoneyFromInt(2300).String())
	assert.Equal(t, "60.00", MoneyFromInt(4000).MultiplyRatio(decimal.RequireFromString("0.015")).String())
	assert.Equal(t, "9.14", mustMoney(t, "609").MultiplyRatio(decimal.RequireFromString("0.015")).String())

	_, err := ParseMoney("twelve")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MoneyFromInt(1500)
	b := mustMoney(t, "250.50")

	assert.Equal(t, "1750.50", a.Add(b).String())
	assert.Equal(t, "1249.50", a.Subtract(b).String())
	assert.Equal(t, "4500.00", a.MultiplyInt(3).String())
	assert.Equal(t, "1750.50", SumMoney(a, b).String())
	assert.True(t, a.Max(b).Equals(a))
	assert.True(t, b.Subtract(a).IsNegative())
	assert.True(t, ZeroMoney().IsZero())
	assert.False(t, ZeroMoney().IsPositive())
}

func TestMoney_Tolerance(t *testing.T) {
	due := MoneyFromInt(100)

	assert.False(t, due.ExceedsBy(due, Epsilon))
	assert.True(t, mustMoney(t, "100.01").ExceedsBy(due, Epsilon))
	assert.True(t, due.CoversWithin(due, Epsilon))
	assert.False(t, mustMoney(t, "99.99").CoversWithin(due, Epsilon))
}

type positive struct{}

func (positive) IsSatisfiedBy(_ context.Context, n int) bool { return n > 0 }

type even struct{}

func (even) IsSatisfiedBy(_ context.Context, n int) bool { return n%2 == 0 }

func TestSpecificationComposition(t *testing.T) {
	ctx := context.Background()

	and := And[int](positive{}, even{})
	or := Or[int](positive{}, even{})
	not := Not[int](positive{})

	assert.True(t, and.IsSatisfiedBy(ctx, 4))
	assert.False(t, and.IsSatisfiedBy(ctx, 3))
	assert.True(t, or.IsSatisfiedBy(ctx, -2))
	assert.False(t, or.IsSatisfiedBy(ctx, -3))
	assert.True(t, not.IsSatisfiedBy(ctx, -1))
}

func TestDomainErrors(t *testing.T) {
	err := NewValidationError("order", "quantity", "quantity must be positive")
	assert.ErrorIs(t, err, ErrInvalidInput)

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "quantity", de.Field)
	assert.Equal(t, "order", de.Entity)
	assert.NotEmpty(t, de.Stack())

	assert.ErrorIs(t, NewNotFoundError("sale"), ErrNotFound)
	assert.ErrorIs(t, NewInvalidStateError("order", "cancelled"), ErrInvalidState)
	assert.ErrorIs(t, NewConflictError("order", "stale version"), ErrConflict)
}
