package memory

import (
	"context"
	"testing"

	"spendchart/internal/core"
	"spendchart/internal/storage"
	"spendchart/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.ExpenseStore { return New() })
}

func TestStoreCopies(t *testing.T) {
	s := New(core.Expense{Description: "seed"})
	got, _ := s.Load(context.Background())
	got[0].Description = "mutated"
	again, _ := s.Load(context.Background())
	if again[0].Description != "seed" {
		t.Fatalf("Load leaked internal slice")
	}

	in := []core.Expense{{Description: "x"}}
	_ = s.SaveAll(context.Background(), in)
	in[0].Description = "y"
	again, _ = s.Load(context.Background())
	if again[0].Description != "x" || s.Saves() != 1 {
		t.Fatalf("SaveAll kept caller slice or miscounted saves: %+v saves=%d", again, s.Saves())
	}
}
