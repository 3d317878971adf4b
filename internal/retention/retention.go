package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/venegas/diagcheck/internal/store"
)

// Pruner deletes validation-history records older than the retention
// window whenever its cron schedule fires.
type Pruner struct {
	store    store.Store
	schedule cron.Schedule
	keep     time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPruner creates a Pruner. spec is a standard 5-field cron expression
// (minute hour dom month dow); retentionDays is how long records are kept.
func NewPruner(s store.Store, spec string, retentionDays int, logger *slog.Logger) (*Pruner, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse prune schedule %q: %w", spec, err)
	}
	if retentionDays <= 0 {
		return nil, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Pruner{
		store:    s,
		schedule: schedule,
		keep:     time.Duration(retentionDays) * 24 * time.Hour,
		logger:   logger,
	}, nil
}

// Start launches the background pruning loop with a 60s ticker.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.done != nil {
		p.mu.Unlock()
		return fmt.Errorf("pruner already started")
	}

	pruneCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.loop(pruneCtx)
	p.logger.Info("retention pruner started")
	return nil
}

// Stop cancels the loop and waits for it to exit.
func (p *Pruner) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Pruner) loop(ctx context.Context) {
	defer close(p.done)

	next := p.schedule.Next(time.Now().UTC())

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			if now.Before(next) {
				continue
			}
			next = p.schedule.Next(now)
			p.prune(ctx, now)
		}
	}
}

// prune deletes records older than the retention window.
func (p *Pruner) prune(ctx context.Context, now time.Time) {
	cutoff := now.Add(-p.keep)
	n, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		p.logger.Error("history prune failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		p.logger.Info("history pruned",
			slog.Int64("deleted", n),
			slog.Time("cutoff", cutoff))
	}
}

// Cutoff returns the retention cutoff relative to now. Exposed for the
// stats endpoint and tests.
func (p *Pruner) Cutoff(now time.Time) time.Time {
	return now.Add(-p.keep)
}
