package worker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"spendchart/internal/amqp"
	"spendchart/internal/core"
	"spendchart/internal/sheets"
	"spendchart/internal/storage"
)

// SyncWorker keeps the spreadsheet mirror equal to the stored collection.
// Every event triggers a full comparison and, on drift, a full rewrite:
// expense identity is positional, so replaying a single index from an event
// would go wrong as soon as two events arrive out of order.
type SyncWorker struct {
	store  storage.ExpenseStore
	mirror sheets.Mirror
}

func NewSyncWorker(store storage.ExpenseStore, mirror sheets.Mirror) *SyncWorker {
	return &SyncWorker{
		store:  store,
		mirror: mirror,
	}
}

// HandleExpenseEvent processes a single expense event from AMQP
func (w *SyncWorker) HandleExpenseEvent(ctx context.Context, msg *amqp.ExpenseEvent) error {
	slog.InfoContext(ctx, "Processing expense event",
		"type", msg.Type,
		"index", msg.Index,
		"count", msg.Count,
		"id", msg.Expense.ID)

	if _, err := w.Sync(ctx); err != nil {
		return fmt.Errorf("sync after %s: %w", msg.Type, err)
	}
	return nil
}

// Sync rewrites the mirror when it differs from the store and reports
// whether a rewrite happened.
func (w *SyncWorker) Sync(ctx context.Context) (bool, error) {
	expenses, err := w.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load expenses: %w", err)
	}

	mirrored, err := w.mirror.ReadAll(ctx)
	if err != nil {
		// An unreadable mirror gets overwritten.
		slog.WarnContext(ctx, "Failed to read mirror, rewriting", "error", err)
	} else if sameCollection(expenses, mirrored) {
		slog.DebugContext(ctx, "Mirror up to date", "count", len(expenses))
		return false, nil
	}

	if err := w.mirror.ReplaceAll(ctx, expenses); err != nil {
		return false, fmt.Errorf("replace mirror: %w", err)
	}

	slog.InfoContext(ctx, "Mirror rewritten",
		"count", len(expenses),
		"previous_count", len(mirrored),
		"total", core.Sum(expenses).Exact())
	return true, nil
}

// StartupSyncCheck brings the mirror up to date before consuming events,
// covering anything missed while the worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	changed, err := w.Sync(ctx)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "rewritten", changed)
	return nil
}

func sameCollection(a, b []core.Expense) bool {
	return slices.EqualFunc(a, b, core.Expense.Equal)
}
