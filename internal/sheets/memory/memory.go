// Package memory is an in-process mirror used by tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"spendchart/internal/core"
	"spendchart/internal/sheets"
)

var _ sheets.Mirror = (*Mirror)(nil)

type Mirror struct {
	mu       sync.Mutex
	rows     []core.Expense
	replaces int
	err      error
}

func New() *Mirror {
	return &Mirror{}
}

// ReplaceAll stores a copy of expenses.
func (m *Mirror) ReplaceAll(_ context.Context, expenses []core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append([]core.Expense(nil), expenses...)
	m.replaces++
	return nil
}

func (m *Mirror) ReadAll(_ context.Context) ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]core.Expense{}, m.rows...), nil
}

// Replaces reports how many times the mirror was rewritten.
func (m *Mirror) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaces
}

// FailWith makes every following call return err; nil restores normal
// operation.
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
