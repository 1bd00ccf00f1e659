package cli

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"spendchart/internal/config"
	"spendchart/internal/log"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, log.ComponentWorker)

	if logger.Component() != log.ComponentWorker {
		t.Errorf("Component() = %q", logger.Component())
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}

	fallback := SetupLogger(nil, log.ComponentApp)
	if fallback.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("nil config should default to info")
	}
}

func TestGracefulShutdownOnParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cleaned := make(chan struct{})

	ctx, done := GracefulShutdown(parent, SetupLogger(nil, log.ComponentApp), time.Second, func(context.Context) {
		close(cleaned)
	})
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	select {
	case <-cleaned:
	default:
		t.Error("cleanup did not run")
	}
	if ctx.Err() == nil {
		t.Error("returned context not cancelled")
	}
}
