package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDecimal(t *testing.T) {
	m := NewFromDecimal(decimal.RequireFromString("1234.56"), USD)

	assert.EqualValues(t, 123456, m.Amount())
	assert.Equal(t, "USD", m.Currency())
	assert.Equal(t, "$1,234.56", m.Display())
}

func TestNewFromDecimalUnknownCurrencyFallsBackToUSD(t *testing.T) {
	m := NewFromDecimal(decimal.RequireFromString("10"), "XXX-NOT-REAL")

	assert.Equal(t, "USD", m.Currency())
}

func TestAddAndSubtract(t *testing.T) {
	a := New(1050, GBP)
	b := New(550, GBP)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.EqualValues(t, 1600, sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.EqualValues(t, 500, diff.Amount())
}

func TestAddCurrencyMismatch(t *testing.T) {
	_, err := New(100, USD).Add(New(100, EUR))
	assert.Error(t, err)
}

func TestToDecimalRoundTrip(t *testing.T) {
	m := New(304825, EUR)

	assert.Equal(t, "3048.25", m.ToDecimal().String())
	assert.Equal(t, "3048.25", m.String())
}

func TestNilSafety(t *testing.T) {
	var m *Money

	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.Equal(t, "$0.00", m.Display())
	assert.True(t, m.ToDecimal().IsZero())
}
