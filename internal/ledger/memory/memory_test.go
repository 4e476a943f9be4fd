package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ledger/internal/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Append(ctx, core.Transaction{Date: "2024-01-10", Description: "t", Category: "Food", Type: core.Expense, Amount: "50.00"})
	if err != nil || id != "1" {
		t.Fatalf("unexpected append: id=%q err=%v", id, err)
	}
	id, _ = s.Append(ctx, core.Transaction{Date: "2024-01-15", Category: "Salary", Type: core.Income, Amount: "1000.00"})
	if id != "2" {
		t.Fatalf("expected id 2, got %s", id)
	}

	if err := s.Update(ctx, "1", core.Transaction{Date: "2024-01-11", Category: "Food", Type: core.Expense, Amount: "55.00"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	txs, _ := s.ReadAll(ctx)
	if txs[0].ID != "1" || txs[0].Amount != "55.00" || txs[1].Amount != "1000.00" {
		t.Fatalf("unexpected records: %+v", txs)
	}

	// ReadAll hands out a copy.
	txs[0].Amount = "0"
	again, _ := s.ReadAll(ctx)
	if again[0].Amount != "55.00" {
		t.Fatal("ReadAll must not expose internal state")
	}

	if err := s.Remove(ctx, "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove(ctx, "1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	txs, _ = s.ReadAll(ctx)
	if len(txs) != 1 || txs[0].ID != "2" {
		t.Fatalf("unexpected records after remove: %+v", txs)
	}
}

func TestNewFromFileSeeds(t *testing.T) {
	dir := t.TempDir()
	// Missing file -> empty store
	s := NewFromFile(filepath.Join(dir, "missing.csv"))
	if txs, _ := s.ReadAll(context.Background()); len(txs) != 0 {
		t.Fatalf("expected empty store, got %v", txs)
	}

	path := filepath.Join(dir, "seed.csv")
	content := "id,date,description,category,type,amount\n1,2024-01-10,lunch,Food,expense,50.00\n2,2024-01-15,pay,Salary,income,1000.00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFile(path)
	txs, _ := s.ReadAll(context.Background())
	if len(txs) != 2 || txs[1].Category != "Salary" {
		t.Fatalf("unexpected seeded records: %+v", txs)
	}
	id, _ := s.Append(context.Background(), core.Transaction{Date: "2024-02-01", Type: core.Expense, Amount: "1"})
	if id != "3" {
		t.Fatalf("expected id 3 after seed, got %s", id)
	}
}
