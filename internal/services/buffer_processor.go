package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/internal/infrastructure/buffer"
	"github.com/famcal/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// BufferProcessor replays buffered calendar writes against primary storage
// once connectivity returns, then signals the change feed so snapshots catch
// up with the late writes.
type BufferProcessor struct {
	store       *buffer.Store
	monitor     ConnectionHealth
	activities  repository.ActivityRepository
	fixed       repository.FixedActivityRepository
	completions repository.CompletionRepository
	messages    repository.MessageRepository
	feed        repository.ChangeFeed
	logger      *zap.Logger
	cron        *cron.Cron
	cfg         ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	activities repository.ActivityRepository,
	fixed repository.FixedActivityRepository,
	completions repository.CompletionRepository,
	messages repository.MessageRepository,
	feed repository.ChangeFeed,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	// Rendered at second resolution below; sub-second would produce
	// "@every 0s" and never drain.
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:       store,
		monitor:     monitor,
		activities:  activities,
		fixed:       fixed,
		completions: completions,
		messages:    messages,
		feed:        feed,
		logger:      logger,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	}); err != nil {
		logger.Error("failed to register buffer drain",
			zap.String("schedule", schedule),
			zap.Error(err))
	}

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays buffered writes synchronously and publishes one change-feed
// signal per touched collection.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	touched := make(map[string]struct{})
	for _, item := range items {
		if err := bp.processItem(ctx, item); err != nil {
			bp.logger.Error("failed to replay buffered write",
				zap.String("item_id", item.ID),
				zap.String("entity", item.Entity),
				zap.Error(err))

			item.Retries++
			if item.Retries >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffered write (max retries reached)", zap.String("item_id", item.ID))
				_ = bp.store.Remove(item)
				continue
			}

			if err := bp.store.Remove(item); err != nil {
				bp.logger.Warn("failed to remove buffered write", zap.Error(err))
			}
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue buffered write", zap.Error(err))
			}
			continue
		}

		touched[collectionFor(item.Entity)] = struct{}{}
		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge replayed write", zap.Error(err))
		}
	}

	for collection := range touched {
		if err := bp.feed.Publish(ctx, collection); err != nil {
			bp.logger.Warn("change feed publish failed",
				zap.String("collection", collection),
				zap.Error(err))
		}
	}
	return nil
}

// BufferOperation attempts to run the operation immediately and falls back to persisting it.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.monitor == nil || bp.monitor.IsOnline() {
		if err := bp.processItem(ctx, item); err == nil {
			_ = bp.feed.Publish(ctx, collectionFor(item.Entity))
			return nil
		} else {
			bp.logger.Warn("immediate replay failed, buffering", zap.Error(err))
		}
	}
	return bp.store.Enqueue(item)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch item.Entity {
	case buffer.EntityActivity:
		var activity domain.Activity
		if err := json.Unmarshal(item.Data, &activity); err != nil {
			return err
		}
		switch item.Operation {
		case buffer.OperationCreate:
			_, err := bp.activities.Create(ctx, &activity)
			return err
		case buffer.OperationDelete:
			return ignoreNotFound(bp.activities.Delete(ctx, activity.ID))
		default:
			return fmt.Errorf("unsupported operation %s", item.Operation)
		}

	case buffer.EntityFixedActivity:
		var activity domain.FixedActivity
		if err := json.Unmarshal(item.Data, &activity); err != nil {
			return err
		}
		switch item.Operation {
		case buffer.OperationCreate:
			_, err := bp.fixed.Create(ctx, &activity)
			return err
		case buffer.OperationDelete:
			return ignoreNotFound(bp.fixed.Delete(ctx, activity.ID))
		default:
			return fmt.Errorf("unsupported operation %s", item.Operation)
		}

	case buffer.EntityCompletion:
		var record domain.CompletionRecord
		if err := json.Unmarshal(item.Data, &record); err != nil {
			return err
		}
		switch item.Operation {
		case buffer.OperationCreate:
			_, err := bp.completions.Create(ctx, &record)
			return err
		case buffer.OperationClear:
			_, err := bp.completions.DeleteMatching(ctx, record.TaskID, record.Date)
			return err
		default:
			return fmt.Errorf("unsupported operation %s", item.Operation)
		}

	case buffer.EntityMessage:
		var message domain.ChatMessage
		if err := json.Unmarshal(item.Data, &message); err != nil {
			return err
		}
		_, err := bp.messages.Create(ctx, &message)
		return err

	default:
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
}

func collectionFor(entity string) string {
	switch entity {
	case buffer.EntityActivity:
		return repository.CollectionActivities
	case buffer.EntityFixedActivity:
		return repository.CollectionFixedActivities
	case buffer.EntityCompletion:
		return repository.CollectionCheckedTasks
	case buffer.EntityMessage:
		return repository.CollectionMessages
	default:
		return entity
	}
}

func ignoreNotFound(err error) error {
	if err == domain.ErrActivityNotFound {
		return nil
	}
	return err
}
