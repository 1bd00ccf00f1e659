package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"spendchart/internal/storage"
	"spendchart/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "db", "expenses.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.ExpenseStore { return newTestStore(t) })
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SaveAll(context.Background(), storagetest.Sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	// Migrations must be idempotent on an existing database.
	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	got, err := s.Load(context.Background())
	if err != nil || len(got) != 3 || got[2].Description != "Odd" {
		t.Fatalf("unexpected reload: %+v err=%v", got, err)
	}
}

func TestMigrationConvertsCentsToExactAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")

	m, closeDB, err := newMigrator(path)
	if err != nil {
		t.Fatalf("migrator: %v", err)
	}
	if err := m.Migrate(1); err != nil {
		t.Fatalf("migrate to v1: %v", err)
	}
	m.Close()
	closeDB()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO expenses (position, id, description, amount_cents, date, category) VALUES (0, 'a', 'Rent', 80050, '2024-01-01', 'Utilities')`); err != nil {
		t.Fatalf("seed v1 row: %v", err)
	}
	db.Close()

	s, err := New(path)
	if err != nil {
		t.Fatalf("open upgraded store: %v", err)
	}
	defer s.Close()
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Amount.Exact() != "800.5" {
		t.Fatalf("upgraded rows = %+v", got)
	}
}
