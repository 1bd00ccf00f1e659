// Package storage defines the Expense Store port: whole-collection load and
// overwrite. Implementations live in the sub-packages.
package storage

import (
	"context"

	"spendchart/internal/core"
)

// ExpenseStore persists the ordered expense collection as a unit.
//
// Load returns the current collection in append order, or an empty slice when
// nothing has been stored yet. SaveAll replaces the persisted collection with
// exactly the given one. There is no coordination between a Load and a later
// SaveAll: two callers interleaving load-modify-save race and the last
// SaveAll wins.
type ExpenseStore interface {
	Load(ctx context.Context) ([]core.Expense, error)
	SaveAll(ctx context.Context, expenses []core.Expense) error
}

// Pinger is implemented by stores that can report readiness without loading
// the collection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by stores holding connections.
type Closer interface {
	Close() error
}
