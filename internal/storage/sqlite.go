// Package storage implements the ledger store on SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the ledger in a single table ordered by insertion
// sequence. Record ids are the same text ids the CSV ledger uses.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ ledger.Store    = (*SQLiteStore)(nil)
	_ ledger.Replacer = (*SQLiteStore)(nil)
)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; sqlite serialises anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Initialize is a connectivity check; the schema is created by migrations.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]core.Transaction, error) {
	return readAll(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readAll(ctx context.Context, q querier) ([]core.Transaction, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, date, description, category, type, amount FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var typ string
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Description, &tx.Category, &typ, &tx.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.Type(typ)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (s *SQLiteStore) Append(ctx context.Context, tx core.Transaction) (string, error) {
	err := s.inTx(ctx, func(dbtx *sql.Tx) error {
		existing, err := readAll(ctx, dbtx)
		if err != nil {
			return err
		}
		tx.ID = ledger.NextID(existing)
		_, err = dbtx.ExecContext(ctx,
			`INSERT INTO transactions (id, date, description, category, type, amount) VALUES (?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.Date, tx.Description, tx.Category, string(tx.Type), tx.Amount)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"component", "storage",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount,
		"category", tx.Category)
	return tx.ID, nil
}

// Update rewrites the first record whose id equals id.
func (s *SQLiteStore) Update(ctx context.Context, id string, tx core.Transaction) error {
	err := s.inTx(ctx, func(dbtx *sql.Tx) error {
		res, err := dbtx.ExecContext(ctx,
			`UPDATE transactions
			    SET date = ?, description = ?, category = ?, type = ?, amount = ?, updated_at = CURRENT_TIMESTAMP
			  WHERE seq = (SELECT MIN(seq) FROM transactions WHERE id = ?)`,
			tx.Date, tx.Description, tx.Category, string(tx.Type), tx.Amount, id)
		if err != nil {
			return fmt.Errorf("update transaction %s: %w", id, err)
		}
		return requireRows(res)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction updated in SQLite", "component", "storage", "id", id)
	return nil
}

// Remove deletes every record whose id equals id.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(dbtx *sql.Tx) error {
		res, err := dbtx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		return requireRows(res)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction removed from SQLite", "component", "storage", "id", id)
	return nil
}

// ReplaceAll implements ledger.Replacer.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	return s.inTx(ctx, func(dbtx *sql.Tx) error {
		if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
		stmt, err := dbtx.PrepareContext(ctx,
			`INSERT INTO transactions (id, date, description, category, type, amount) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, tx := range txs {
			if _, err := stmt.ExecContext(ctx, tx.ID, tx.Date, tx.Description, tx.Category, string(tx.Type), tx.Amount); err != nil {
				return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(dbtx); err != nil {
		_ = dbtx.Rollback()
		return err
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
