package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auction-service/internal/config"
	"github.com/spec-kit/auction-service/internal/service"
)

// SweepWorker periodically runs the lifecycle sweep that closes auctions
// past their deadline. Sweep failures are logged and retried on the next
// tick; they never stop the worker or the process.
type SweepWorker struct {
	lifecycle *service.LifecycleService
	interval  time.Duration
	logger    *zap.Logger
}

// NewSweepWorker constructs the worker.
func NewSweepWorker(lifecycle *service.LifecycleService, cfg config.SweepConfig, logger *zap.Logger) *SweepWorker {
	return &SweepWorker{
		lifecycle: lifecycle,
		interval:  cfg.Interval(),
		logger:    logger,
	}
}

// Run blocks sweeping on the configured interval until ctx is cancelled.
// An immediate sweep runs at startup so a restart does not leave expired
// auctions open for a full interval.
func (w *SweepWorker) Run(ctx context.Context) {
	if w.lifecycle == nil {
		return
	}
	w.sweepOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopping")
			return
		case <-ticker.C:
			w.sweepOnce(ctx)
		}
	}
}

func (w *SweepWorker) sweepOnce(ctx context.Context) {
	if _, err := w.lifecycle.Sweep(ctx, time.Now()); err != nil {
		w.logger.Error("auction sweep failed", zap.Error(err))
	}
}
