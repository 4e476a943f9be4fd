// Package worker keeps a secondary copy of the ledger in step with the
// primary store.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Reader is the part of the primary store the worker needs.
type Reader interface {
	ReadAll(ctx context.Context) ([]core.Transaction, error)
}

// MirrorWorker copies the whole primary ledger into a target store. Each
// run replaces the target's record set; a run is skipped when the primary
// has not changed since the last successful copy.
type MirrorWorker struct {
	source Reader
	target ledger.Replacer

	mu       sync.Mutex
	last     []core.Transaction
	mirrored bool
}

func NewMirrorWorker(source Reader, target ledger.Replacer) *MirrorWorker {
	return &MirrorWorker{
		source: source,
		target: target,
	}
}

// Mirror copies the primary ledger to the target. It reports whether the
// target was written.
func (w *MirrorWorker) Mirror(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	txs, err := w.source.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("read primary ledger: %w", err)
	}
	if w.mirrored && slices.Equal(txs, w.last) {
		return false, nil
	}
	if err := w.target.ReplaceAll(ctx, txs); err != nil {
		return false, fmt.Errorf("replace mirror: %w", err)
	}
	w.last = txs
	w.mirrored = true

	slog.InfoContext(ctx, "Ledger mirrored", "component", "worker", "count", len(txs))
	return true, nil
}

// HandleEvent mirrors the ledger in response to a change event.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"component", "worker",
		"operation", msg.Operation,
		"id", msg.ID)
	_, err := w.Mirror(ctx)
	return err
}

// RunPeriodic mirrors once immediately and then every interval until ctx is
// cancelled. Failures are logged and retried on the next tick.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.Mirror(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "Periodic mirror failed", "component", "worker", "error", err)
		}
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Periodic mirror stopped", "component", "worker")
			return nil
		case <-ticker.C:
		}
	}
}
