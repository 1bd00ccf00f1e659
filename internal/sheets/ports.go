package sheets

import (
	"context"

	"spendchart/internal/core"
)

// Ports for outbound adapters.
type (
	// CollectionWriter overwrites the mirrored copy with the full collection,
	// in chronological order.
	CollectionWriter interface {
		ReplaceAll(ctx context.Context, expenses []core.Expense) error
	}

	// CollectionReader reads the mirrored copy back.
	CollectionReader interface {
		ReadAll(ctx context.Context) ([]core.Expense, error)
	}

	Mirror interface {
		CollectionWriter
		CollectionReader
	}
)
