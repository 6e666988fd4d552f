// Package export renders extracted statements as downloadable CSV and Excel
// files.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

// WriteCSV streams the statement's rows as CSV with a header row. Amounts
// are written as plain decimal strings; null amounts become empty cells.
func WriteCSV(w io.Writer, data *transactions.ExtractedData) error {
	if err := gocsv.Marshal(data.Transactions, w); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return nil
}
