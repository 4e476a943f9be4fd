package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/ledger/memory"
	"ledger/internal/storage"
)

func TestBackendType_IsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("postgres").IsValid() {
		t.Error("postgres should not be valid")
	}
}

func TestFromAppConfig(t *testing.T) {
	app := config.Defaults()
	app.DataBackend = "sqlite"
	app.SQLiteDBPath = "/tmp/x.db"

	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.LedgerFile != "transactions.csv" {
		t.Errorf("FromAppConfig = %+v", cfg)
	}

	app.DataBackend = "bogus"
	if _, err := FromAppConfig(app); err == nil {
		t.Error("expected error for invalid backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"csv ok", Config{Type: CSVBackend, LedgerFile: "t.csv"}, ""},
		{"csv missing file", Config{Type: CSVBackend}, "ledger file"},
		{"memory ok", Config{Type: MemoryBackend}, ""},
		{"sqlite missing path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"sheets missing credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "x", GoogleSheetName: "y"}, "credentials"},
		{"invalid", Config{Type: "nope"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_CreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "transactions.csv")
		res, err := f.CreateBackend(ctx, Config{Type: CSVBackend, LedgerFile: path})
		if err != nil {
			t.Fatal(err)
		}
		defer res.Close()
		if _, ok := res.Store.(*ledger.CSVStore); !ok {
			t.Errorf("store type = %T", res.Store)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ledger file not initialized: %v", err)
		}
		if string(data) != "id,date,description,category,type,amount\n" {
			t.Errorf("initialized file = %q", data)
		}
	})

	t.Run("memory seeded", func(t *testing.T) {
		seed := filepath.Join(dir, "seed.csv")
		content := "id,date,description,category,type,amount\n1,2024-01-01,a,b,income,5\n"
		if err := os.WriteFile(seed, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, LedgerFile: seed})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := res.Store.(*memory.Store); !ok {
			t.Errorf("store type = %T", res.Store)
		}
		txs, _ := res.Store.ReadAll(ctx)
		if len(txs) != 1 || txs[0].Type != core.Income {
			t.Errorf("seeded records = %+v", txs)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "l.db")})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := res.Store.(*storage.SQLiteStore); !ok {
			t.Errorf("store type = %T", res.Store)
		}
		if res.Cleanup == nil {
			t.Error("sqlite backend should provide cleanup")
		}
		if err := res.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: SheetsBackend}); err == nil {
			t.Error("expected validation error")
		}
	})
}
