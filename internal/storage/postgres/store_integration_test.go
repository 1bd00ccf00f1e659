//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"spendchart/internal/storage"
	"spendchart/internal/storage/storagetest"
)

// Run with: DATABASE_URL=postgres://... go test -tags=integration ./internal/storage/postgres

func TestStoreContract(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	storagetest.Run(t, func(t *testing.T) storage.ExpenseStore {
		s, err := New(context.Background(), url)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		if err := s.SaveAll(context.Background(), nil); err != nil {
			t.Fatalf("reset table: %v", err)
		}
		return s
	})
}
