package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledger/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func sample(desc string, typ core.Type, amount string) core.Transaction {
	return core.Transaction{Date: "2024-03-07", Description: desc, Category: "Misc", Type: typ, Amount: amount}
}

func TestSQLiteStore_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i, want := range []string{"1", "2", "3"} {
		id, err := s.Append(ctx, sample("row, with \"comma\"", core.Expense, "50.00"))
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		if id != want {
			t.Errorf("Append %d id = %q, want %q", i, id, want)
		}
	}

	txs, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("ReadAll len = %d, want 3", len(txs))
	}
	got := txs[0]
	want := sample("row, with \"comma\"", core.Expense, "50.00")
	want.ID = "1"
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestSQLiteStore_UpdateRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, d := range []string{"a", "b", "c"} {
		if _, err := s.Append(ctx, sample(d, core.Income, "10")); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Update(ctx, "2", sample("salary", core.Income, "1000")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Remove(ctx, "1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	txs, _ := s.ReadAll(ctx)
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if txs[0].ID != "2" || txs[0].Description != "salary" || txs[0].Amount != "1000" {
		t.Errorf("updated record = %+v", txs[0])
	}
	if txs[1].ID != "3" || txs[1].Description != "c" {
		t.Errorf("untouched record = %+v", txs[1])
	}

	id, err := s.Append(ctx, sample("d", core.Expense, "1"))
	if err != nil {
		t.Fatal(err)
	}
	if id != "4" {
		t.Errorf("id after delete = %q, want 4", id)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if _, err := s.Append(ctx, sample("a", core.Income, "1")); err != nil {
		t.Fatal(err)
	}

	if err := s.Update(ctx, "01", sample("x", core.Income, "2")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update missing id error = %v, want ErrNotFound", err)
	}
	if err := s.Remove(ctx, "9"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Remove missing id error = %v, want ErrNotFound", err)
	}
	txs, _ := s.ReadAll(ctx)
	if len(txs) != 1 || txs[0].Description != "a" {
		t.Errorf("store changed after failed mutations: %+v", txs)
	}
}

func TestSQLiteStore_ReplaceAllAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}

	records := []core.Transaction{
		{ID: "5", Date: "2024-01-01", Description: "x", Category: "A", Type: core.Income, Amount: "1.50"},
		{ID: "7", Date: "2024-01-02", Description: "y", Category: "B", Type: core.Expense, Amount: "2"},
	}
	if err := s.ReplaceAll(ctx, records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	txs, err := reopened.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[0] != records[0] || txs[1] != records[1] {
		t.Errorf("ReadAll after reopen = %+v", txs)
	}
	id, _ := reopened.Append(ctx, sample("z", core.Expense, "3"))
	if id != "8" {
		t.Errorf("next id = %q, want 8", id)
	}
}
