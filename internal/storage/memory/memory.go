// Package memory is an in-process expense store used by tests and the memory
// backend. It copies on the way in and out so callers never share slices.
package memory

import (
	"context"
	"sync"

	"spendchart/internal/core"
	"spendchart/internal/storage"
)

var _ storage.ExpenseStore = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	items []core.Expense
	saves int
}

func New(seed ...core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

func (s *Store) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) SaveAll(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items[:0:0], expenses...)
	s.saves++
	return nil
}

// Saves reports how many times SaveAll has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
