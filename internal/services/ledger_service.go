// Package services holds the ledger's write path: validation, store
// mutation and change notification.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
)

// EventPublisher announces ledger changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, operation, id string) error
}

var _ EventPublisher = (*amqp.Client)(nil)

// ValidationError reports a transaction rejected before reaching the store.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid transaction: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LedgerService orchestrates ledger operations across the store and the
// event publisher. A nil publisher disables events.
type LedgerService struct {
	store     ledger.Store
	publisher EventPublisher
}

func NewLedgerService(store ledger.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// List returns every record in insertion order.
func (s *LedgerService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return txs, nil
}

// Create fills an empty date with today, validates tx and appends it.
func (s *LedgerService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if strings.TrimSpace(tx.Date) == "" {
		tx.Date = core.Today()
	}
	tx, err := prepare(tx)
	if err != nil {
		return "", err
	}

	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.OpCreated, id)
	return id, nil
}

// Edit replaces every field of the record with the given id.
func (s *LedgerService) Edit(ctx context.Context, id string, tx core.Transaction) error {
	tx, err := prepare(tx)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, tx); err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	s.publish(ctx, amqp.OpUpdated, id)
	return nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	s.publish(ctx, amqp.OpDeleted, id)
	return nil
}

// Ready reports whether the store can be read.
func (s *LedgerService) Ready(ctx context.Context) error {
	_, err := s.store.ReadAll(ctx)
	return err
}

func prepare(tx core.Transaction) (core.Transaction, error) {
	tx.Date = strings.TrimSpace(tx.Date)
	tx.Type = core.Type(strings.ToLower(strings.TrimSpace(string(tx.Type))))
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Category = strings.TrimSpace(tx.Category)
	if err := tx.Validate(); err != nil {
		return tx, &ValidationError{Err: err}
	}
	amount, err := core.NormalizeAmount(tx.Amount)
	if err != nil {
		return tx, &ValidationError{Err: err}
	}
	tx.Amount = amount
	return tx, nil
}

// publish is best effort: the ledger is already written.
func (s *LedgerService) publish(ctx context.Context, op, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"component", "ledger", "operation", op, "id", id, "error", err)
	}
}

// IsValidation reports whether err came from request validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
