package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"spendchart/internal/amqp"
	"spendchart/internal/cache"
	"spendchart/internal/core"
	"spendchart/internal/log"
	"spendchart/internal/storage"
)

// EventPublisher receives an event after every persisted mutation.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error
}

// ExpenseServiceConfig carries the optional collaborators of ExpenseService.
// Zero values select the defaults.
type ExpenseServiceConfig struct {
	Categories  core.CategorySet
	TrendDays   int
	RecentLimit int

	// Publisher is nil when no broker is configured.
	Publisher EventPublisher

	// ChartCache is nil when chart caching is disabled.
	ChartCache cache.Cache[core.ChartData]

	Now func() time.Time
}

// ExpenseService runs every operation as load, compute or mutate, persist.
// There is no locking between Load and SaveAll: concurrent mutations race and
// the last writer wins.
type ExpenseService struct {
	store       storage.ExpenseStore
	categories  core.CategorySet
	trendDays   int
	recentLimit int
	publisher   EventPublisher
	chartCache  cache.Cache[core.ChartData]
	now         func() time.Time

	// generation counts persisted mutations. chartMu orders a cache fill
	// against the bump and flush that follow a mutation.
	generation atomic.Uint64
	chartMu    sync.Mutex
}

func NewExpenseService(store storage.ExpenseStore, cfg ExpenseServiceConfig) *ExpenseService {
	s := &ExpenseService{
		store:       store,
		categories:  cfg.Categories,
		trendDays:   cfg.TrendDays,
		recentLimit: cfg.RecentLimit,
		publisher:   cfg.Publisher,
		chartCache:  cfg.ChartCache,
		now:         cfg.Now,
	}
	if len(s.categories) == 0 {
		s.categories = core.DefaultCategories()
	}
	if s.trendDays <= 0 {
		s.trendDays = core.DefaultTrendDays
	}
	if s.recentLimit <= 0 {
		s.recentLimit = core.DefaultRecentLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *ExpenseService) Categories() core.CategorySet {
	return s.categories
}

// Expenses returns the whole collection in chronological order.
func (s *ExpenseService) Expenses(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return expenses, nil
}

// Create appends a new expense built from raw form values. The amount is
// coerced and never rejected.
func (s *ExpenseService) Create(ctx context.Context, description, amount, date, category string) (core.Expense, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.NewExpense(description, amount, date, category)
	e.ID = uuid.NewString()
	expenses = append(expenses, e)

	if err := s.store.SaveAll(ctx, expenses); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	s.invalidateCharts()

	slog.InfoContext(ctx, "Expense created",
		log.NewFields().WithExpense(e.ID, len(expenses)-1, e.Amount.Exact(), e.Category).ToSlice()...)

	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventExpenseCreated, len(expenses)-1, len(expenses), e))
	return e, nil
}

// Delete removes the expense at the given chronological index.
func (s *ExpenseService) Delete(ctx context.Context, index int) (core.Expense, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	return s.removeAt(ctx, expenses, index)
}

// DeleteByID removes the expense carrying the given stable ID. Positions may
// shift between reading the recent list and deleting; the ID does not.
func (s *ExpenseService) DeleteByID(ctx context.Context, id string) (core.Expense, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	index := core.IndexOfID(expenses, id)
	if index < 0 {
		return core.Expense{}, fmt.Errorf("delete %q: %w", id, core.ErrExpenseNotFound)
	}
	return s.removeAt(ctx, expenses, index)
}

func (s *ExpenseService) removeAt(ctx context.Context, expenses []core.Expense, index int) (core.Expense, error) {
	remaining, removed, err := core.RemoveAt(expenses, index)
	if err != nil {
		return core.Expense{}, fmt.Errorf("delete index %d of %d: %w", index, len(expenses), err)
	}

	if err := s.store.SaveAll(ctx, remaining); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	s.invalidateCharts()

	slog.InfoContext(ctx, "Expense deleted",
		"id", removed.ID,
		"index", index,
		"remaining", len(remaining))

	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventExpenseDeleted, index, len(remaining), removed))
	return removed, nil
}

func (s *ExpenseService) CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.CategoryTotals(expenses, s.categories), nil
}

func (s *ExpenseService) DailyTrend(ctx context.Context) (core.DailyTrend, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.DailyTrend{}, err
	}
	return core.BuildDailyTrend(expenses, s.now(), s.trendDays), nil
}

// RecentExpenses returns the newest expenses first. A limit <= 0 selects the
// configured default.
func (s *ExpenseService) RecentExpenses(ctx context.Context, limit int) ([]core.IndexedExpense, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.RecentExpenses(expenses, limit), nil
}

// ChartData computes totals and trend from one snapshot. When a chart cache
// is configured the result is reused until the next mutation or the end of
// the calendar day.
func (s *ExpenseService) ChartData(ctx context.Context) (core.ChartData, error) {
	now := s.now()
	key := now.Format(core.DateLayout)
	if s.chartCache != nil {
		if data, ok := s.chartCache.Get(key); ok {
			return data, nil
		}
	}

	gen := s.generation.Load()
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.ChartData{}, err
	}
	data := core.ChartData{
		Totals: core.CategoryTotals(expenses, s.categories),
		Trend:  core.BuildDailyTrend(expenses, now, s.trendDays),
	}

	if s.chartCache != nil {
		s.chartMu.Lock()
		// A mutation since Load makes this snapshot stale.
		if s.generation.Load() == gen {
			s.chartCache.Set(key, data)
		}
		s.chartMu.Unlock()
	}
	return data, nil
}

// Summary returns the overall total, the total spread over the trend window
// and the number of configured categories.
func (s *ExpenseService) Summary(ctx context.Context) (core.Summary, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.BuildSummary(expenses, s.categories, s.trendDays), nil
}

// Ping reports whether the store is reachable. Stores without a health check
// are always ready.
func (s *ExpenseService) Ping(ctx context.Context) error {
	if p, ok := s.store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *ExpenseService) invalidateCharts() {
	s.chartMu.Lock()
	defer s.chartMu.Unlock()
	s.generation.Add(1)
	if s.chartCache != nil {
		s.chartCache.Flush()
	}
}

func (s *ExpenseService) publish(ctx context.Context, event *amqp.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, event); err != nil {
		// Don't fail the request - the collection is already saved
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"type", event.Type,
			"index", event.Index,
			"error", err)
	}
}

// Close closes the store and the publisher when they hold resources.
func (s *ExpenseService) Close() error {
	var errs []error

	if c, ok := s.store.(storage.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	return errors.Join(errs...)
}
