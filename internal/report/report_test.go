package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/view"
)

func sampleView(t *testing.T) view.View {
	t.Helper()
	txs := []core.Transaction{
		{ID: "1", Date: "2024-03-01", Description: "Salary", Category: "Work", Type: core.Income, Amount: "1000.00"},
		{ID: "2", Date: "2024-03-07", Description: "Groceries", Category: "Food", Type: core.Expense, Amount: "50.00"},
	}
	v, err := view.NewBuilder(view.DefaultCurrency()).Build(txs, view.DefaultFilters())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return v
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleView(t))
	out := buf.String()

	for _, want := range []string{"Salary", "07 Mar, 2024", "+ ₹1,000.00", "- ₹50.00", "+ ₹950.00", "Balance", "2 transactions"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTable_Empty(t *testing.T) {
	v, err := view.NewBuilder(view.DefaultCurrency()).Build(nil, view.DefaultFilters())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	WriteTable(&buf, v)
	if !strings.Contains(buf.String(), "₹0.00") || !strings.Contains(buf.String(), "0 transactions") {
		t.Errorf("unexpected empty table:\n%s", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleView(t)); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != TransactionsSheet || got[1] != SummarySheet {
		t.Errorf("sheets = %v", got)
	}
	desc, _ := f.GetCellValue(TransactionsSheet, "C3")
	if desc != "Groceries" {
		t.Errorf("C3 = %q, want Groceries", desc)
	}
	balance, _ := f.GetCellValue(SummarySheet, "B3", excelize.Options{RawCellValue: true})
	if balance != "950" {
		t.Errorf("balance = %q, want 950", balance)
	}
}

func TestReadXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleView(t)); err != nil {
		t.Fatal(err)
	}
	txs, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if txs[0].ID != "1" || txs[0].Date != "2024-03-01" || txs[0].Type != core.Income || txs[0].Category != "Work" {
		t.Errorf("first = %+v", txs[0])
	}
	amount, err := decimal.NewFromString(txs[1].Amount)
	if err != nil || !amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("amount = %q (%v)", txs[1].Amount, err)
	}
}

func TestReadXLSX_CustomLayout(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Amount")
	f.SetCellValue(sheet, "B1", "TYPE")
	f.SetCellValue(sheet, "C1", "Date")
	f.SetCellValue(sheet, "A2", "12.5")
	f.SetCellValue(sheet, "B2", "expense")
	f.SetCellValue(sheet, "C2", "2024-05-01")
	f.SetCellValue(sheet, "A3", "99")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	txs, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	want := core.Transaction{Date: "2024-05-01", Type: core.Expense, Amount: "12.5"}
	if len(txs) != 1 || txs[0] != want {
		t.Errorf("ReadXLSX = %+v, want [%+v]", txs, want)
	}
}
