package memory

import (
	"context"
	"errors"
	"testing"

	"spendchart/internal/core"
)

func TestMirrorReplaceAndRead(t *testing.T) {
	m := New()
	ctx := context.Background()

	rows, err := m.ReadAll(ctx)
	if err != nil || len(rows) != 0 {
		t.Fatalf("unexpected initial read: rows=%v err=%v", rows, err)
	}

	in := []core.Expense{
		{Description: "a", Amount: core.Cents(123), Date: "2024-01-01", Category: "Food"},
		{Description: "b", Amount: core.Cents(5), Date: "2024-01-02", Category: "Other"},
	}
	if err := m.ReplaceAll(ctx, in); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	in[0].Description = "mutated"

	rows, _ = m.ReadAll(ctx)
	if len(rows) != 2 || rows[0].Description != "a" {
		t.Fatalf("mirror should hold its own copy, got %+v", rows)
	}
	if m.Replaces() != 1 {
		t.Fatalf("Replaces() = %d, want 1", m.Replaces())
	}
}

func TestMirrorFailWith(t *testing.T) {
	m := New()
	boom := errors.New("quota exceeded")
	m.FailWith(boom)

	if err := m.ReplaceAll(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("ReplaceAll err = %v, want %v", err, boom)
	}
	if m.Replaces() != 0 {
		t.Fatal("failed replace should not count")
	}

	m.FailWith(nil)
	if err := m.ReplaceAll(context.Background(), nil); err != nil {
		t.Fatalf("ReplaceAll after recovery: %v", err)
	}
}
