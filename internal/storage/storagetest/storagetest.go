// Package storagetest holds the behaviour every storage.ExpenseStore must
// share, run from each implementation's own tests.
package storagetest

import (
	"context"
	"slices"
	"testing"

	"spendchart/internal/core"
	"spendchart/internal/storage"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) storage.ExpenseStore

func Sample() []core.Expense {
	return []core.Expense{
		{ID: "a1", Description: "Coffee", Amount: core.Cents(450), Date: "2024-01-01", Category: "Food"},
		{Description: "Bus", Amount: core.Cents(275), Date: "2024-01-02", Category: "Transport"},
		{ID: "c3", Description: "Odd", Amount: core.Cents(-100), Date: "not-a-date", Category: "Travel"},
	}
}

// Run exercises the store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("empty load", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Load(context.Background())
		if err != nil {
			t.Fatalf("load empty: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil collection, got %#v", got)
		}
	})

	t.Run("save then load keeps order and fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := Sample()
		if err := s.SaveAll(ctx, want); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !equal(got, want) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("save overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if err := s.SaveAll(ctx, Sample()); err != nil {
			t.Fatalf("save: %v", err)
		}
		shorter := Sample()[1:2]
		if err := s.SaveAll(ctx, shorter); err != nil {
			t.Fatalf("save shorter: %v", err)
		}
		got, _ := s.Load(ctx)
		if !equal(got, shorter) {
			t.Fatalf("expected overwrite, got %+v", got)
		}
		if err := s.SaveAll(ctx, nil); err != nil {
			t.Fatalf("save empty: %v", err)
		}
		got, _ = s.Load(ctx)
		if len(got) != 0 {
			t.Fatalf("expected empty after saving nil, got %+v", got)
		}
	})

	t.Run("save of load is a no-op", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if err := s.SaveAll(ctx, Sample()); err != nil {
			t.Fatalf("save: %v", err)
		}
		first, _ := s.Load(ctx)
		if err := s.SaveAll(ctx, first); err != nil {
			t.Fatalf("resave: %v", err)
		}
		second, _ := s.Load(ctx)
		if !equal(first, second) {
			t.Fatalf("SaveAll(Load()) changed state:\n%+v\n%+v", first, second)
		}
	})
	t.Run("sub-cent amounts are kept exactly", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := []core.Expense{
			{ID: "f1", Description: "Fuel", Amount: core.CoerceAmount("4.999"), Date: "2024-01-01", Category: "Transport"},
			{Description: "Fee", Amount: core.CoerceAmount("0.005"), Date: "2024-01-02", Category: "Other"},
		}
		if err := s.SaveAll(ctx, want); err != nil {
			t.Fatalf("save: %v", err)
		}
		first, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !equal(first, want) {
			t.Fatalf("sub-cent round trip:\n got %+v\nwant %+v", first, want)
		}
		for i, e := range first {
			if e.Amount.Exact() != want[i].Amount.Exact() {
				t.Fatalf("row %d amount = %s, want %s", i, e.Amount.Exact(), want[i].Amount.Exact())
			}
		}

		if err := s.SaveAll(ctx, first); err != nil {
			t.Fatalf("resave: %v", err)
		}
		second, _ := s.Load(ctx)
		if !equal(first, second) {
			t.Fatalf("SaveAll(Load()) rounded amounts:\n%+v\n%+v", first, second)
		}
	})
}

func equal(a, b []core.Expense) bool {
	return slices.EqualFunc(a, b, core.Expense.Equal)
}
