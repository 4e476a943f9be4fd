// Package report renders a ledger view for terminals and spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ledger/internal/view"
)

// WriteTable prints the entries of v followed by the income, expense and
// balance totals.
func WriteTable(w io.Writer, v view.View) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)

	t.AppendHeader(table.Row{"ID", "Date", "Description", "Category", "Type", "Amount"})
	for _, e := range v.Entries {
		t.AppendRow(table.Row{e.ID, e.FormattedDate, e.Description, e.Category, e.Type.String(), e.FormattedAmount})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Income", v.Summary.Income})
	t.AppendFooter(table.Row{"", "", "", "", "Expenses", v.Summary.Expenses})
	t.AppendFooter(table.Row{"", "", "", "", "Balance", v.Summary.Balance})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(w, "%d transactions (category: %s, type: %s, year: %s, month: %s)\n",
		len(v.Entries), v.Selected.Category, v.Selected.Type, v.Selected.Year, v.Selected.Month)
}
