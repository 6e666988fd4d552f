// Package transactions defines the statement row model shared by the
// extractor, the intake controller, export and persistence.
package transactions

import (
	"github.com/shopspring/decimal"
)

// Transaction is a single statement row as produced by the extractor.
// Debit, credit and balance are nullable: statements frequently omit one
// side of the ledger or the running balance, and the extractor must not
// invent values. A Transaction is immutable once published.
type Transaction struct {
	Date        string              `json:"date" csv:"Date"`
	Description string              `json:"description" csv:"Description"`
	Reference   string              `json:"reference" csv:"Reference"`
	Debit       decimal.NullDecimal `json:"debit" csv:"Debit"`
	Credit      decimal.NullDecimal `json:"credit" csv:"Credit"`
	Balance     decimal.NullDecimal `json:"balance" csv:"Balance"`
	Category    string              `json:"category,omitempty" csv:"Category"`
}

// ExtractedData is the result of one successful extraction: the source
// file name plus the ordered rows. Created once per extraction and
// discarded on reset.
type ExtractedData struct {
	FileName     string        `json:"file_name"`
	Transactions []Transaction `json:"transactions"`
}

// Summary aggregates the monetary columns of a result set.
type Summary struct {
	Rows         int             `json:"rows"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	Net          decimal.Decimal `json:"net"`
}

// Summarize computes totals over rows. Null amounts contribute nothing.
func Summarize(rows []Transaction) Summary {
	s := Summary{Rows: len(rows)}
	for _, tx := range rows {
		if tx.Debit.Valid {
			s.TotalDebits = s.TotalDebits.Add(tx.Debit.Decimal)
		}
		if tx.Credit.Valid {
			s.TotalCredits = s.TotalCredits.Add(tx.Credit.Decimal)
		}
	}
	s.Net = s.TotalCredits.Sub(s.TotalDebits)
	return s
}
