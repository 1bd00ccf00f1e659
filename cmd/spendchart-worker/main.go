package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendchart/internal/amqp"
	"spendchart/internal/backend"
	"spendchart/internal/cli"
	"spendchart/internal/config"
	"spendchart/internal/log"
	"spendchart/internal/services"
	"spendchart/internal/sheets"
	gsheet "spendchart/internal/sheets/google"
	memmirror "spendchart/internal/sheets/memory"
	"spendchart/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil, log.ComponentWorker))
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	logger.Info("Starting spendchart-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	// The worker only reads the collection; it never publishes.
	backendCfg.AMQPURL = ""
	if backendCfg.Type == backend.MemoryBackend {
		logger.Warn("Memory backend is private to this process, the mirror will stay empty")
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	}()

	mirror, err := newMirror(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(result.Store, mirror)
	processor := services.NewSyncProcessor(syncWorker, services.SyncProcessorConfig{
		PollInterval: cfg.SyncInterval,
	})

	root, stop := context.WithCancel(context.Background())
	defer stop()
	ctx, done := cli.GracefulShutdown(root, logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := processor.Stop(shutdownCtx); err != nil {
			logger.Error("Sync processor stop error", log.FieldError, err)
		}
	})

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		// Don't exit - the periodic resync retries
		logger.Error("Failed startup sync check", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := processor.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})

	if cfg.HasAMQP() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			logger.Info("Consuming expense events", "queue", cfg.AMQPQueue)
			return amqpClient.ConsumeWithRetry(gctx, syncWorker.HandleExpenseEvent)
		})
	} else {
		logger.Info("AMQP disabled, relying on periodic resync", "interval", cfg.SyncInterval)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
	}
	stop()

	cli.WaitForShutdown(ctx, done)
	runs, failures := processor.Stats()
	logger.Info("Worker shutdown complete", "resyncs", runs, "resync_failures", failures)
}

func newMirror(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.Mirror, error) {
	if !cfg.HasSheets() {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, mirroring in memory")
		return memmirror.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	return client, nil
}
