//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"spendchart/internal/core"
)

// Integration tests require real Google Sheets credentials and a scratch
// sheet: the sheet named by GOOGLE_SHEET_NAME is overwritten.
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_MirrorRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	cfg := Config{
		SpreadsheetID:      spreadsheetID,
		SheetName:          os.Getenv("GOOGLE_SHEET_NAME"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	}
	if cfg.ServiceAccountJSON == "" && cfg.ServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	want := []core.Expense{
		{ID: "it-1", Description: "Integration lunch", Amount: core.Cents(1250), Date: "2024-03-01", Category: "Food"},
		{ID: "it-2", Description: "Integration bus", Amount: core.Cents(210), Date: "2024-03-02", Category: "Transport"},
	}

	if err := client.ReplaceAll(ctx, want); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, err := client.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if err := client.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("ReplaceAll(nil): %v", err)
	}
	got, err = client.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll after clear: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty mirror, got %d rows", len(got))
	}
}
