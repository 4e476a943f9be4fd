package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *fakePublisher) PublishLedgerEvent(_ context.Context, operation, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, operation+":"+id)
	return p.err
}

func TestLedgerService_Create(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	id, err := svc.Create(ctx, core.Transaction{
		Date:        "2024-03-07",
		Description: "  Salary ",
		Category:    "Work",
		Type:        "Income",
		Amount:      " 1000,00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "1" {
		t.Errorf("id = %q, want 1", id)
	}

	txs, _ := store.ReadAll(ctx)
	want := core.Transaction{ID: "1", Date: "2024-03-07", Description: "Salary", Category: "Work", Type: core.Income, Amount: "1000.00"}
	if len(txs) != 1 || txs[0] != want {
		t.Errorf("stored = %+v, want %+v", txs, want)
	}
	if len(pub.events) != 1 || pub.events[0] != "created:1" {
		t.Errorf("events = %v", pub.events)
	}
}

func TestLedgerService_CreateDefaultsDate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewLedgerService(store, nil)

	if _, err := svc.Create(ctx, core.Transaction{Description: "x", Type: core.Expense, Amount: "5"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	txs, _ := store.ReadAll(ctx)
	if txs[0].Date != core.Today() {
		t.Errorf("date = %q, want today %q", txs[0].Date, core.Today())
	}
}

func TestLedgerService_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	tests := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{"bad type", core.Transaction{Date: "2024-01-01", Type: "transfer", Amount: "1"}, core.ErrInvalidType},
		{"bad amount", core.Transaction{Date: "2024-01-01", Type: core.Income, Amount: "abc"}, core.ErrInvalidAmount},
		{"negative amount", core.Transaction{Date: "2024-01-01", Type: core.Income, Amount: "-4"}, core.ErrInvalidAmount},
		{"bad date", core.Transaction{Date: "07/03/2024", Type: core.Income, Amount: "1"}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.tx)
			if !IsValidation(err) || !errors.Is(err, tt.want) {
				t.Errorf("Create error = %v, want validation error wrapping %v", err, tt.want)
			}
		})
	}

	if txs, _ := store.ReadAll(ctx); len(txs) != 0 {
		t.Errorf("invalid records were stored: %+v", txs)
	}
	if len(pub.events) != 0 {
		t.Errorf("events published for rejected input: %v", pub.events)
	}
}

func TestLedgerService_EditDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.New(
		core.Transaction{ID: "1", Date: "2024-01-01", Description: "a", Category: "c", Type: core.Income, Amount: "1"},
		core.Transaction{ID: "2", Date: "2024-01-02", Description: "b", Category: "c", Type: core.Expense, Amount: "2"},
	)
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	edited := core.Transaction{Date: "2024-02-01", Description: "b2", Category: "d", Type: core.Expense, Amount: "3.50"}
	if err := svc.Edit(ctx, "2", edited); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	txs, _ := svc.List(ctx)
	edited.ID = "2"
	if len(txs) != 1 || txs[0] != edited {
		t.Errorf("ledger = %+v, want [%+v]", txs, edited)
	}
	if len(pub.events) != 2 || pub.events[0] != "updated:2" || pub.events[1] != "deleted:1" {
		t.Errorf("events = %v", pub.events)
	}

	if err := svc.Delete(ctx, "9"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete missing id error = %v, want ErrNotFound", err)
	}
	if err := svc.Edit(ctx, "9", edited); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Edit missing id error = %v, want ErrNotFound", err)
	}
	if len(pub.events) != 2 {
		t.Errorf("events published for failed mutations: %v", pub.events)
	}
}

func TestLedgerService_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), &fakePublisher{err: errors.New("broker down")})

	id, err := svc.Create(ctx, core.Transaction{Date: "2024-01-01", Type: core.Income, Amount: "1"})
	if err != nil || id != "1" {
		t.Fatalf("Create = %q, %v; want 1, nil", id, err)
	}
	if err := svc.Ready(ctx); err != nil {
		t.Errorf("Ready: %v", err)
	}
}
