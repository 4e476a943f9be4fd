// Package google stores the ledger in one sheet of a Google spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Store keeps the ledger in columns A:F of a single sheet with the CSV
// header in row 1. Values are written RAW so text round-trips unchanged.
type Store struct {
	mu            sync.Mutex
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var (
	_ ledger.Store    = (*Store)(nil)
	_ ledger.Replacer = (*Store)(nil)
)

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountFile string
	ServiceAccountJSON string
}

// New creates a Sheets store authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := LoadCredentials(cfg.ServiceAccountFile, cfg.ServiceAccountJSON)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"component", "sheets",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	return newStore(ctx, cfg.SpreadsheetID, cfg.SheetName,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

func newStore(ctx context.Context, spreadsheetID, sheetName string, opts ...goption.ClientOption) (*Store, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// LoadCredentials returns the inline JSON when set, otherwise the file contents.
func LoadCredentials(file, inline string) ([]byte, error) {
	if inline = strings.TrimSpace(inline); inline != "" {
		return []byte(inline), nil
	}
	if file = strings.TrimSpace(file); file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// Initialize writes the header row when the sheet is empty.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.values(ctx)
	if err != nil {
		return err
	}
	if len(values) > 0 {
		return nil
	}
	if err := s.write(ctx, nil); err != nil {
		return fmt.Errorf("initialize sheet %s: %w", s.sheetName, err)
	}
	slog.InfoContext(ctx, "Sheet initialized", "component", "sheets", "sheet", s.sheetName)
	return nil
}

func (s *Store) ReadAll(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(ctx)
}

func (s *Store) readAll(ctx context.Context) ([]core.Transaction, error) {
	values, err := s.values(ctx)
	if err != nil {
		return nil, err
	}
	return fromValues(values), nil
}

func (s *Store) Append(ctx context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.values(ctx)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		if err := s.write(ctx, nil); err != nil {
			return "", fmt.Errorf("initialize sheet %s: %w", s.sheetName, err)
		}
	}
	tx.ID = ledger.NextID(fromValues(values))

	vr := &gsheet.ValueRange{Values: [][]any{toRow(tx)}}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, a1(s.sheetName, "A:F"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", s.sheetName, err)
	}

	slog.InfoContext(ctx, "Transaction appended to sheet",
		"component", "sheets",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount)
	return tx.ID, nil
}

func (s *Store) Update(ctx context.Context, id string, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	updated, err := ledger.Replace(txs, id, tx)
	if err != nil {
		return err
	}
	if err := s.rewrite(ctx, updated); err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	remaining, err := ledger.Without(txs, id)
	if err != nil {
		return err
	}
	if err := s.rewrite(ctx, remaining); err != nil {
		return fmt.Errorf("remove transaction %s: %w", id, err)
	}
	return nil
}

// ReplaceAll implements ledger.Replacer.
func (s *Store) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rewrite(ctx, txs); err != nil {
		return fmt.Errorf("replace sheet %s: %w", s.sheetName, err)
	}
	slog.InfoContext(ctx, "Sheet replaced", "component", "sheets", "sheet", s.sheetName, "count", len(txs))
	return nil
}

func (s *Store) values(ctx context.Context) ([][]any, error) {
	if s.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := a1(s.sheetName, "A:F")
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// rewrite overwrites the sheet from A1 with the header and txs, then clears
// the rows below them. A failed overwrite leaves the previous rows in place.
func (s *Store) rewrite(ctx context.Context, txs []core.Transaction) error {
	if err := s.write(ctx, txs); err != nil {
		return err
	}
	tail := a1(s.sheetName, fmt.Sprintf("A%d:F", len(txs)+2))
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, tail, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", tail, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, txs []core.Transaction) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}
	vr := &gsheet.ValueRange{Values: toValues(txs)}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, a1(s.sheetName, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}
