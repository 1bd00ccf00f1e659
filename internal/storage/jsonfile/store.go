// Package jsonfile keeps the expense collection in a single JSON array file
// that is rewritten in full on every save.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"spendchart/internal/core"
	"spendchart/internal/storage"
)

var _ storage.ExpenseStore = (*Store)(nil)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the file. A missing or blank file is an empty collection.
func (s *Store) Load(ctx context.Context) ([]core.Expense, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read expenses file %s: %w", s.path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []core.Expense{}, nil
	}

	var expenses []core.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses file %s: %w", s.path, err)
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return expenses, nil
}

// SaveAll overwrites the file in place. A failure half way through the write
// can leave a truncated file behind; there is no temp-file rename.
func (s *Store) SaveAll(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	data, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write expenses file %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Expenses file written", "path", s.path, "count", len(expenses), "bytes", len(data))
	return nil
}

// Ping checks the data directory is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("stat expenses file %s: %w", s.path, err)
}
