package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

// Hub owns the live snapshots of the four calendar collections. It
// subscribes to the change feed, re-queries the full snapshot whenever a
// collection is signalled stale, and fans the fresh snapshot out to
// registered callbacks. Readers always see the latest complete snapshot;
// there is no incremental diffing and no ordering across collections.
type Hub struct {
	feed        repository.ChangeFeed
	activities  repository.ActivityRepository
	fixed       repository.FixedActivityRepository
	completions repository.CompletionRepository
	messages    repository.MessageRepository
	clock       func() time.Time
	timeout     time.Duration
	logger      *zap.Logger

	mu       sync.RWMutex
	snapshot snapshot
	onChange []func(collection string)

	stop func() error
}

type snapshot struct {
	activities []domain.Activity
	fixed      []domain.FixedActivity
	checked    []domain.CompletionRecord
	messages   []domain.ChatMessage
}

type Config struct {
	Feed        repository.ChangeFeed
	Activities  repository.ActivityRepository
	Fixed       repository.FixedActivityRepository
	Completions repository.CompletionRepository
	Messages    repository.MessageRepository
	Clock       func() time.Time
	Timeout     time.Duration
	Logger      *zap.Logger
}

func New(cfg Config) *Hub {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Hub{
		feed:        cfg.Feed,
		activities:  cfg.Activities,
		fixed:       cfg.Fixed,
		completions: cfg.Completions,
		messages:    cfg.Messages,
		clock:       cfg.Clock,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// OnSnapshot registers a callback invoked after a collection's snapshot has
// been replaced. Must be called before Start.
func (h *Hub) OnSnapshot(fn func(collection string)) {
	if fn == nil {
		return
	}
	h.onChange = append(h.onChange, fn)
}

// Start loads all four snapshots and begins listening on the change feed.
func (h *Hub) Start(ctx context.Context) error {
	collections := []string{
		repository.CollectionActivities,
		repository.CollectionFixedActivities,
		repository.CollectionCheckedTasks,
		repository.CollectionMessages,
	}

	for _, c := range collections {
		if err := h.Refresh(ctx, c); err != nil {
			return err
		}
	}

	stop, err := h.feed.Subscribe(ctx, collections, func(collection string) {
		refreshCtx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		if err := h.Refresh(refreshCtx, collection); err != nil {
			h.logger.Warn("snapshot refresh failed",
				zap.String("collection", collection),
				zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	h.stop = stop

	h.logger.Info("snapshot hub started")
	return nil
}

// Stop releases the change-feed subscription.
func (h *Hub) Stop() error {
	if h.stop == nil {
		return nil
	}
	return h.stop()
}

// Refresh re-queries one collection and replaces its snapshot. The checked
// snapshot is always scoped to the current date, so a refresh after midnight
// naturally drops yesterday's records.
func (h *Hub) Refresh(ctx context.Context, collection string) error {
	switch collection {
	case repository.CollectionActivities:
		activities, err := h.activities.List(ctx, repository.ActivityFilter{})
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.snapshot.activities = activities
		h.mu.Unlock()

	case repository.CollectionFixedActivities:
		fixed, err := h.fixed.List(ctx, repository.ActivityFilter{})
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.snapshot.fixed = fixed
		h.mu.Unlock()

	case repository.CollectionCheckedTasks:
		checked, err := h.completions.ListForDate(ctx, domain.DateKey(h.clock()))
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.snapshot.checked = checked
		h.mu.Unlock()

	case repository.CollectionMessages:
		messages, err := h.messages.List(ctx, 0)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.snapshot.messages = messages
		h.mu.Unlock()

	default:
		h.logger.Debug("ignoring unknown collection signal", zap.String("collection", collection))
		return nil
	}

	for _, fn := range h.onChange {
		fn(collection)
	}
	return nil
}

// Activities returns the latest one-off activity snapshot.
func (h *Hub) Activities() []domain.Activity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot.activities
}

// FixedActivities returns the latest recurring activity snapshot.
func (h *Hub) FixedActivities() []domain.FixedActivity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot.fixed
}

// CheckedTasks returns today's completion records as last refreshed.
func (h *Hub) CheckedTasks() []domain.CompletionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot.checked
}

// Messages returns the latest chat snapshot, ascending by timestamp.
func (h *Hub) Messages() []domain.ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot.messages
}
