package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Syncer brings an external copy of the collection up to date and reports
// whether anything was rewritten.
type Syncer interface {
	Sync(ctx context.Context) (bool, error)
}

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often a full resync runs (default: 5m)
	PollInterval time.Duration
}

// DefaultSyncProcessorConfig returns sensible defaults
func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: 5 * time.Minute,
	}
}

// SyncProcessor runs a periodic full resync as a backstop for lost events.
type SyncProcessor struct {
	syncer Syncer
	config SyncProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	runs     int
	failures int
}

func NewSyncProcessor(syncer Syncer, config SyncProcessorConfig) *SyncProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSyncProcessorConfig().PollInterval
	}
	return &SyncProcessor{
		syncer: syncer,
		config: config,
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Sync processor started", "poll_interval", p.config.PollInterval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the processor is currently running
func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Stats returns how many resyncs ran and how many of them failed.
func (p *SyncProcessor) Stats() (runs, failures int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs, p.failures
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *SyncProcessor) runOnce(ctx context.Context) {
	changed, err := p.syncer.Sync(ctx)

	p.mu.Lock()
	p.runs++
	if err != nil {
		p.failures++
	}
	p.mu.Unlock()

	if err != nil {
		slog.ErrorContext(ctx, "Periodic resync failed", "error", err)
		return
	}
	if changed {
		slog.InfoContext(ctx, "Periodic resync repaired mirror drift")
	}
}
