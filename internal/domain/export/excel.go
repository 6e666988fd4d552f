package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

const sheetName = "Transactions"

var excelHeaders = []string{"Date", "Description", "Reference", "Debit", "Credit", "Balance", "Category"}

// WriteExcel renders the statement as a single-sheet workbook with a styled
// header, numeric amount cells and a totals row.
func WriteExcel(w io.Writer, data *transactions.ExtractedData) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr("#,##0.00"),
	})
	if err != nil {
		return fmt.Errorf("export: amount style: %w", err)
	}

	for i, h := range excelHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("export: write header: %w", err)
		}
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("export: style header: %w", err)
	}

	for i, tx := range data.Transactions {
		row := i + 2
		setCell(f, 1, row, tx.Date)
		setCell(f, 2, row, tx.Description)
		setCell(f, 3, row, tx.Reference)
		setAmount(f, 4, row, tx.Debit)
		setAmount(f, 5, row, tx.Credit)
		setAmount(f, 6, row, tx.Balance)
		setCell(f, 7, row, tx.Category)
	}

	lastRow := len(data.Transactions) + 1
	if lastRow > 1 {
		start, _ := excelize.CoordinatesToCellName(4, 2)
		end, _ := excelize.CoordinatesToCellName(6, lastRow)
		if err := f.SetCellStyle(sheetName, start, end, amountStyle); err != nil {
			return fmt.Errorf("export: style amounts: %w", err)
		}

		summary := transactions.Summarize(data.Transactions)
		totalRow := lastRow + 2
		setCell(f, 2, totalRow, "Totals")
		setCell(f, 4, totalRow, summary.TotalDebits.InexactFloat64())
		setCell(f, 5, totalRow, summary.TotalCredits.InexactFloat64())
		if err := f.SetRowStyle(sheetName, totalRow, totalRow, headerStyle); err != nil {
			return fmt.Errorf("export: style totals: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 12); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 42); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "G", 14); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheetName, cell, value)
}

// setAmount writes a numeric cell for a present amount and leaves the cell
// blank for a null one.
func setAmount(f *excelize.File, col, row int, d decimal.NullDecimal) {
	if !d.Valid {
		return
	}
	setCell(f, col, row, d.Decimal.InexactFloat64())
}

func strPtr(s string) *string { return &s }
