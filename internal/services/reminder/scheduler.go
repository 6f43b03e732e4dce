package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives the evaluator on a fixed interval.
type Scheduler struct {
	evaluator *Evaluator
	cron      *cron.Cron
	interval  time.Duration
	logger    *zap.Logger
}

func NewScheduler(evaluator *Evaluator, interval time.Duration, logger *zap.Logger) *Scheduler {
	// The schedule is rendered at second resolution; anything below one
	// second would produce "@every 0s" and never tick.
	if interval < time.Second {
		interval = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		evaluator: evaluator,
		cron:      cron.New(cron.WithSeconds()),
		interval:  interval,
		logger:    logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		s.evaluator.Evaluate(ctx)
	}); err != nil {
		logger.Error("failed to register reminder tick",
			zap.String("schedule", schedule),
			zap.Error(err))
	}

	return s
}

// Start launches the cron scheduler.
func (s *Scheduler) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started", zap.Duration("interval", s.interval))
}

// Stop gracefully stops the scheduler, waiting for a running tick.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("reminder scheduler stopped")
}
