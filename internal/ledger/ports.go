// Package ledger defines the transaction store port and its CSV implementation.
package ledger

import (
	"context"
	"strconv"

	"ledger/internal/core"
)

// Ports for ledger backends.
type (
	// Store owns the durable, ordered record set.
	//
	// Update and Remove match records by textual id equality and return
	// core.ErrNotFound, leaving the record set untouched, when nothing matches.
	Store interface {
		// Initialize creates an empty record set (header only) when none exists.
		Initialize(ctx context.Context) error
		// ReadAll returns every record in insertion order.
		ReadAll(ctx context.Context) ([]core.Transaction, error)
		// Append assigns the next id to tx, stores it last and returns the id.
		Append(ctx context.Context, tx core.Transaction) (id string, err error)
		Update(ctx context.Context, id string, tx core.Transaction) error
		Remove(ctx context.Context, id string) error
	}

	// Replacer is implemented by stores that can swap their whole record set
	// in one operation. It is used to mirror one ledger into another.
	Replacer interface {
		ReplaceAll(ctx context.Context, txs []core.Transaction) error
	}
)

// NextID returns the id for a record appended after txs: one more than the
// largest numeric id present, or "1" for an empty ledger. Without deletions
// this equals len(txs)+1; after deletions it never reuses a surviving id.
func NextID(txs []core.Transaction) string {
	var max int64
	for _, tx := range txs {
		if n, err := strconv.ParseInt(tx.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

// indexOf returns the position of the record whose id equals id, or -1.
func indexOf(txs []core.Transaction, id string) int {
	for i, tx := range txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// Replace returns a copy of txs with the record matching id swapped for tx.
func Replace(txs []core.Transaction, id string, tx core.Transaction) ([]core.Transaction, error) {
	i := indexOf(txs, id)
	if i < 0 {
		return nil, core.ErrNotFound
	}
	out := append([]core.Transaction(nil), txs...)
	tx.ID = id
	out[i] = tx
	return out, nil
}

// Without returns a copy of txs omitting every record whose id equals id.
func Without(txs []core.Transaction, id string) ([]core.Transaction, error) {
	if indexOf(txs, id) < 0 {
		return nil, core.ErrNotFound
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID != id {
			out = append(out, tx)
		}
	}
	return out, nil
}
