package transactions

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestSummarize(t *testing.T) {
	rows := []Transaction{
		{Description: "SALARY", Credit: amount("2500.00")},
		{Description: "RENT", Debit: amount("1200.00")},
		{Description: "GROCERIES", Debit: amount("52.30")},
		{Description: "NO AMOUNTS AT ALL"},
	}

	s := Summarize(rows)

	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, "1252.3", s.TotalDebits.String())
	assert.Equal(t, "2500", s.TotalCredits.String())
	assert.Equal(t, "1247.7", s.Net.String())
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Rows)
	assert.True(t, s.TotalDebits.IsZero())
	assert.True(t, s.Net.IsZero())
}

func TestSummarizeGeneratedRowsBalance(t *testing.T) {
	rows := NewTestDataGenerator(42).Rows(200)
	require.Len(t, rows, 200)

	s := Summarize(rows)

	// Every generated row carries exactly one amount, so the totals must
	// account for all rows.
	var debits, credits int
	for _, tx := range rows {
		if tx.Debit.Valid {
			debits++
		}
		if tx.Credit.Valid {
			credits++
		}
		assert.False(t, tx.Debit.Valid && tx.Credit.Valid)
	}
	assert.Equal(t, 200, debits+credits)
	assert.True(t, s.TotalDebits.IsPositive())
	assert.True(t, s.TotalCredits.IsPositive())
	assert.Equal(t, s.Net.String(), s.TotalCredits.Sub(s.TotalDebits).String())
}
