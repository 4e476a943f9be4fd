package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"ledger/internal/core"
)

// CSVStore persists the ledger as a CSV table with a header row.
//
// Every operation reloads the record set from the backing; mutations other
// than Append rewrite it in full. The mutex only serialises callers sharing
// this value: two processes writing the same file can still lose updates.
type CSVStore struct {
	mu      sync.Mutex
	backing Backing
}

var (
	_ Store    = (*CSVStore)(nil)
	_ Replacer = (*CSVStore)(nil)
)

// NewCSVStore returns a store over backing. Call Initialize before first use.
func NewCSVStore(backing Backing) *CSVStore {
	return &CSVStore{backing: backing}
}

// NewCSVFileStore returns an initialized store for the CSV file at path.
func NewCSVFileStore(ctx context.Context, path string) (*CSVStore, error) {
	s := NewCSVStore(NewFileBacking(path))
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialize(ctx)
}

func (s *CSVStore) initialize(ctx context.Context) error {
	ok, err := s.backing.Exists()
	if err != nil {
		return err
	}
	if ok {
		blank, err := s.blank()
		if err != nil || !blank {
			return err
		}
	}
	if err := s.backing.Replace(func(w io.Writer) error { return WriteRecords(w, nil) }); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	slog.InfoContext(ctx, "Ledger initialized", "component", "storage")
	return nil
}

// blank reports whether the existing backing holds nothing but whitespace,
// as left by touch or a crash before the header was written.
func (s *CSVStore) blank() (bool, error) {
	rc, err := s.backing.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	return len(bytes.TrimSpace(data)) == 0, nil
}

func (s *CSVStore) ReadAll(ctx context.Context) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *CSVStore) readAll() ([]core.Transaction, error) {
	ok, err := s.backing.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	rc, err := s.backing.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	txs, err := ReadRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return txs, nil
}

func (s *CSVStore) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialize(ctx); err != nil {
		return "", err
	}
	txs, err := s.readAll()
	if err != nil {
		return "", err
	}
	tx.ID = NextID(txs)
	if err := s.backing.Append(func(w io.Writer) error { return appendRecord(w, tx) }); err != nil {
		return "", fmt.Errorf("append transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction appended",
		"component", "storage",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount,
		"category", tx.Category)
	return tx.ID, nil
}

func (s *CSVStore) Update(ctx context.Context, id string, tx core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.readAll()
	if err != nil {
		return err
	}
	updated, err := Replace(txs, id, tx)
	if err != nil {
		return err
	}
	if err := s.rewrite(updated); err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction updated", "component", "storage", "id", id)
	return nil
}

func (s *CSVStore) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.readAll()
	if err != nil {
		return err
	}
	remaining, err := Without(txs, id)
	if err != nil {
		return err
	}
	if err := s.rewrite(remaining); err != nil {
		return fmt.Errorf("remove transaction %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction removed", "component", "storage", "id", id, "remaining", len(remaining))
	return nil
}

// ReplaceAll implements Replacer.
func (s *CSVStore) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rewrite(txs); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (s *CSVStore) rewrite(txs []core.Transaction) error {
	return s.backing.Replace(func(w io.Writer) error { return WriteRecords(w, txs) })
}
