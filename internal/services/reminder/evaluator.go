package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/internal/notify"
)

// EventSource provides the latest activity snapshots. Implemented by the
// watch hub; stubbed in tests.
type EventSource interface {
	Activities() []domain.Activity
	FixedActivities() []domain.FixedActivity
}

// Evaluator decides, once per tick, which upcoming occurrences deserve a
// reminder. Each run is a full re-evaluation of the merged snapshots; the
// only state carried between ticks is the notified-key ledger.
type Evaluator struct {
	source  EventSource
	ledger  *Ledger
	sink    notify.Notifier
	horizon time.Duration
	title   string
	clock   func() time.Time
	logger  *zap.Logger
}

type EvaluatorConfig struct {
	Source  EventSource
	Ledger  *Ledger
	Sink    notify.Notifier
	Horizon time.Duration
	Title   string
	Clock   func() time.Time
	Logger  *zap.Logger
}

func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	if cfg.Ledger == nil {
		cfg.Ledger = NewLedger()
	}
	if cfg.Sink == nil {
		cfg.Sink = notify.Disabled{}
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = time.Hour
	}
	if cfg.Title == "" {
		cfg.Title = "Påminnelse"
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Evaluator{
		source:  cfg.Source,
		ledger:  cfg.Ledger,
		sink:    cfg.Sink,
		horizon: cfg.Horizon,
		title:   cfg.Title,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}
}

// Ledger exposes the evaluator's notified-key set.
func (e *Evaluator) Ledger() *Ledger {
	return e.ledger
}

// Evaluate runs one tick and returns the number of reminders fired. An
// event fires iff its occurrence lies strictly after now, at most horizon
// away, and its key has not fired before. Occurrences already in the past
// are silently missed; there is no catch-up.
func (e *Evaluator) Evaluate(ctx context.Context) int {
	now := e.clock()
	deadline := now.Add(e.horizon)
	events := domain.MergeEvents(e.source.Activities(), e.source.FixedActivities())

	fired := 0
	for _, ev := range events {
		occurrence := ev.OccurrenceOn(now)
		if !occurrence.After(now) || occurrence.After(deadline) {
			continue
		}
		key := ev.NotifyKey(now)
		if e.ledger.Seen(key) {
			continue
		}

		// The body shows wall time in the calendar location, not the stored
		// timestamp's own offset.
		body := fmt.Sprintf("%s: %s kl %s", ev.Member, ev.Text, occurrence.In(now.Location()).Format("15:04"))
		if err := e.sink.Notify(ctx, e.title, body); err != nil {
			e.logger.Warn("reminder delivery failed",
				zap.String("key", key),
				zap.Error(err))
		}
		// Marked even when delivery fails: reminders are best effort and a
		// failed occurrence is not retried.
		e.ledger.Mark(key)
		fired++
	}

	if fired > 0 {
		e.logger.Info("reminders fired", zap.Int("count", fired))
	}
	return fired
}
