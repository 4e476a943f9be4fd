package memory

import (
	"context"
	"os"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Store keeps the ledger in process memory. Records are lost on exit.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var (
	_ ledger.Store    = (*Store)(nil)
	_ ledger.Replacer = (*Store)(nil)
)

func New(seed ...core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), seed...)}
}

// NewFromFile seeds the store from a ledger CSV file. A missing or unreadable
// file yields an empty store.
func NewFromFile(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		return New()
	}
	defer f.Close()
	txs, err := ledger.ReadRecords(f)
	if err != nil {
		return New()
	}
	return New(txs...)
}

func (s *Store) Initialize(_ context.Context) error {
	return nil
}

// ReadAll returns a copy of the stored records.
func (s *Store) ReadAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}

// Append stores tx and returns its id.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = ledger.NextID(s.items)
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) Update(_ context.Context, id string, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := ledger.Replace(s.items, id, tx)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := ledger.Without(s.items, id)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *Store) ReplaceAll(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction(nil), txs...)
	return nil
}
