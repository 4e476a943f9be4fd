package google

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ledger/internal/core"
)

func TestFromValues_WithHeader(t *testing.T) {
	values := [][]any{
		{"id", "date", "description", "category", "type", "amount"},
		{"1", "2024-03-01", "Salary", "Work", "income", "1000.00"},
		{},
		{"2", "2024-03-02", "Lunch, with tip", "Food", "expense", "50.00"},
	}
	got := fromValues(values)
	want := []core.Transaction{
		{ID: "1", Date: "2024-03-01", Description: "Salary", Category: "Work", Type: core.Income, Amount: "1000.00"},
		{ID: "2", Date: "2024-03-02", Description: "Lunch, with tip", Category: "Food", Type: core.Expense, Amount: "50.00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fromValues = %+v, want %+v", got, want)
	}
}

func TestFromValues_ReorderedHeaderAndShortRows(t *testing.T) {
	values := [][]any{
		{"ID", "Amount", "Type", "Date", "Description", "Category"},
		{"4", "12.5", "expense", "2024-01-09", "Bus"},
	}
	got := fromValues(values)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	want := core.Transaction{ID: "4", Date: "2024-01-09", Description: "Bus", Category: "", Type: core.Expense, Amount: "12.5"}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestFromValues_NoHeader(t *testing.T) {
	got := fromValues([][]any{{"3", "2024-02-02", "x", "y", "income", "7"}})
	if len(got) != 1 || got[0].ID != "3" || got[0].Amount != "7" {
		t.Errorf("fromValues = %+v", got)
	}
	if fromValues(nil) != nil {
		t.Error("expected nil for empty sheet")
	}
}

func TestToValues_RoundTrip(t *testing.T) {
	txs := []core.Transaction{
		{ID: "1", Date: "2024-03-01", Description: "a", Category: "b", Type: core.Income, Amount: "0.10"},
	}
	values := toValues(txs)
	if len(values) != 2 {
		t.Fatalf("len = %d, want 2", len(values))
	}
	if values[0][0] != "id" || values[0][5] != "amount" {
		t.Errorf("header row = %v", values[0])
	}
	if back := fromValues(values); !reflect.DeepEqual(back, txs) {
		t.Errorf("round trip = %+v, want %+v", back, txs)
	}
	if header := toValues(nil); len(header) != 1 {
		t.Errorf("empty ledger should render header only, got %v", header)
	}
}

func TestA1(t *testing.T) {
	tests := map[string]string{
		"Transactions": "'Transactions'!A:F",
		"My Sheet":     "'My Sheet'!A:F",
		"Bob's ledger": "'Bob''s ledger'!A:F",
	}
	for sheet, want := range tests {
		if got := a1(sheet, "A:F"); got != want {
			t.Errorf("a1(%q) = %q, want %q", sheet, got, want)
		}
	}
}

func TestLoadCredentials(t *testing.T) {
	if got, err := LoadCredentials("ignored", ` {"a":1} `); err != nil || string(got) != `{"a":1}` {
		t.Errorf("inline credentials = %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if got, err := LoadCredentials(path, ""); err != nil || string(got) != `{"type":"service_account"}` {
		t.Errorf("file credentials = %q, %v", got, err)
	}

	if _, err := LoadCredentials("", ""); err == nil {
		t.Error("expected error without credentials")
	}
	if _, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.json"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}
