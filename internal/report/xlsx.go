package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/view"
)

const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

var xlsxHeader = []string{"ID", "Date", "Description", "Category", "Type", "Amount"}

// WriteXLSX writes v as a workbook with a Transactions sheet (one row per
// entry, amounts as numbers) and a Summary sheet with totals and filters.
func WriteXLSX(w io.Writer, v view.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := make([]any, len(xlsxHeader))
	for i, h := range xlsxHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(TransactionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(TransactionsSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range v.Entries {
		amount, err := core.ParseAmount(e.Amount)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", e.ID, err)
		}
		row := []any{e.ID, e.Date, e.Description, e.Category, e.Type.String(), amount.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(TransactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if n := len(v.Entries); n > 0 {
		if err := f.SetCellStyle(TransactionsSheet, "F2", fmt.Sprintf("F%d", n+1), money); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}
	_ = f.SetColWidth(TransactionsSheet, "C", "C", 40)

	summary := [][]any{
		{"Income", v.Summary.IncomeValue.InexactFloat64()},
		{"Expenses", v.Summary.ExpensesValue.InexactFloat64()},
		{"Balance", v.Summary.BalanceValue.InexactFloat64()},
		{},
		{"Category", v.Selected.Category},
		{"Type", v.Selected.Type},
		{"Year", v.Selected.Year},
		{"Month", v.Selected.Month},
	}
	for i, row := range summary {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "A3", bold)
	_ = f.SetCellStyle(SummarySheet, "B1", "B3", money)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadXLSX reads transactions from the first sheet of a workbook whose first
// row names the columns (id, date, description, category, type, amount; any
// case, any order). Rows without a date are skipped. Cells are read raw, so
// amounts come back without number formatting.
func ReadXLSX(r io.Reader) ([]core.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	pos := map[string]int{}
	for i, cell := range rows[0] {
		pos[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	if _, ok := pos["date"]; !ok {
		return nil, fmt.Errorf("header row has no date column")
	}

	var out []core.Transaction
	for _, row := range rows[1:] {
		fields := make([]string, len(core.Header))
		for i, name := range core.Header {
			if p, ok := pos[name]; ok && p < len(row) {
				fields[i] = strings.TrimSpace(row[p])
			}
		}
		tx := core.FromFields(fields)
		if tx.Date == "" {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}
