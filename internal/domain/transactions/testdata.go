package transactions

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator produces realistic statement rows for tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a seeded generator for reproducible tests.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// Row generates a single random statement row. Roughly one in three rows is
// a credit; balances are left null, as many statements omit them.
func (g *TestDataGenerator) Row() Transaction {
	date := g.faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
	amount := decimal.NewFromFloat(g.faker.Price(1, 5000)).Round(2)

	tx := Transaction{
		Date:        date.Format("2006-01-02"),
		Description: g.faker.Company(),
		Reference:   fmt.Sprintf("REF-%06d", g.faker.Number(0, 999999)),
	}
	if g.faker.Number(1, 3) == 1 {
		tx.Credit = decimal.NewNullDecimal(amount)
	} else {
		tx.Debit = decimal.NewNullDecimal(amount)
	}
	return tx
}

// Rows generates count random statement rows.
func (g *TestDataGenerator) Rows(count int) []Transaction {
	rows := make([]Transaction, count)
	for i := range rows {
		rows[i] = g.Row()
	}
	return rows
}
