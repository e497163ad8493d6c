package wal

import (
	"context"
	"sync"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Relay periodically drains the WAL into the event broker.
// Entries that fail to publish stay in the WAL for the next run.
type Relay struct {
	wal      *WAL
	broker   broker.EventBroker
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex // serializes Flush between cron ticks and shutdown
}

func NewRelay(w *WAL, b broker.EventBroker, schedule string) *Relay {
	if schedule == "" {
		schedule = "@every 2s"
	}
	return &Relay{
		wal:      w,
		broker:   b,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start schedules the relay. Stop must be called on shutdown.
func (r *Relay) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.Flush(ctx); err != nil {
			logger.Log.Warn("Event relay run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	logger.Log.Info("Event relay started", zap.String("schedule", r.schedule))
	return nil
}

// Stop waits for a running flush, then performs a final one.
func (r *Relay) Stop(ctx context.Context) {
	<-r.cron.Stop().Done()
	if _, err := r.Flush(ctx); err != nil {
		logger.Log.Warn("Final event relay run failed", zap.Error(err))
	}
}

// Flush publishes every pending entry in order and removes the published ones.
// Publishing stops at the first failure so ordering is preserved.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.wal.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	start := time.Now()
	published := make([]string, 0, len(entries))
	var publishErr error
	for _, entry := range entries {
		if err := r.broker.Publish(ctx, entry.Event); err != nil {
			publishErr = err
			break
		}
		published = append(published, entry.EventID)
	}

	if err := r.wal.Cleanup(published); err != nil {
		return len(published), err
	}

	logger.Log.Debug("Event relay flushed",
		zap.Int("published", len(published)),
		zap.Int("pending", len(entries)-len(published)),
		zap.Duration("duration", time.Since(start)),
	)
	return len(published), publishErr
}
