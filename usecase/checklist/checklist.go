package checklist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/internal/infrastructure/buffer"
	"github.com/famcal/backend/repository"
	"github.com/famcal/backend/usecase"
)

// Snapshots provides the latest checked-task snapshot held by the watch hub.
type Snapshots interface {
	CheckedTasks() []domain.CompletionRecord
}

// UseCase maintains the per-day completion ledger for recurring tasks.
// Checking inserts one record without a duplicate pre-query; unchecking
// deletes every record matching (task, today), which also repairs the
// transient duplicates two racing members can produce. Yesterday's records
// become inert on their own since every read is scoped to today's date.
type UseCase struct {
	completions repository.CompletionRepository
	feed        repository.ChangeFeed
	buffer      usecase.OperationBuffer
	snapshots   Snapshots
	clock       func() time.Time
	logger      *zap.Logger
}

func New(
	completions repository.CompletionRepository,
	feed repository.ChangeFeed,
	opBuffer usecase.OperationBuffer,
	snapshots Snapshots,
	clock func() time.Time,
	logger *zap.Logger,
) *UseCase {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		completions: completions,
		feed:        feed,
		buffer:      opBuffer,
		snapshots:   snapshots,
		clock:       clock,
		logger:      logger,
	}
}

// CheckedToday returns the ids of tasks marked done today. Duplicate
// records collapse into one entry.
func (uc *UseCase) CheckedToday(ctx context.Context) ([]string, error) {
	records, err := uc.todayRecords(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	var ids []string
	for _, rec := range records {
		if _, ok := seen[rec.TaskID]; ok {
			continue
		}
		seen[rec.TaskID] = struct{}{}
		ids = append(ids, rec.TaskID)
	}
	return ids, nil
}

// IsChecked reports whether a completion record exists for (taskID, today).
func (uc *UseCase) IsChecked(ctx context.Context, taskID string) (bool, error) {
	records, err := uc.todayRecords(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.TaskID == taskID {
			return true, nil
		}
	}
	return false, nil
}

// todayRecords serves reads from the hub's live snapshot when one is wired,
// so a write becomes visible only through the echoed feed refresh. The
// snapshot is filtered by today's date again here, which keeps reads correct
// between midnight and the next feed signal.
func (uc *UseCase) todayRecords(ctx context.Context) ([]domain.CompletionRecord, error) {
	today := domain.DateKey(uc.clock())
	if uc.snapshots != nil {
		var records []domain.CompletionRecord
		for _, rec := range uc.snapshots.CheckedTasks() {
			if rec.Date == today {
				records = append(records, rec)
			}
		}
		return records, nil
	}
	return uc.completions.ListForDate(ctx, today)
}

// Toggle flips a task's done state for today. The caller passes the state
// it currently observes: unchecked inserts one record, checked deletes all
// matching records. Unchecking with zero matches is a no-op, not an error.
func (uc *UseCase) Toggle(ctx context.Context, taskID string, currentlyChecked bool, member string) error {
	if taskID == "" {
		return domain.ErrInvalidPayload
	}
	if !domain.IsMember(member) {
		return domain.ErrUnknownMember
	}

	today := domain.DateKey(uc.clock())

	if !currentlyChecked {
		record := &domain.CompletionRecord{
			TaskID: taskID,
			Date:   today,
			Member: member,
		}
		if _, err := uc.completions.Create(ctx, record); err != nil {
			if uc.shouldBuffer(ctx, buffer.OperationCreate, record) {
				return nil
			}
			return err
		}
	} else {
		deleted, err := uc.completions.DeleteMatching(ctx, taskID, today)
		if err != nil {
			record := &domain.CompletionRecord{TaskID: taskID, Date: today, Member: member}
			if uc.shouldBuffer(ctx, buffer.OperationClear, record) {
				return nil
			}
			return err
		}
		if deleted > 1 {
			uc.logger.Info("repaired duplicate completion records",
				zap.String("task_id", taskID),
				zap.Int("deleted", deleted))
		}
	}

	uc.publish(ctx)
	return nil
}

func (uc *UseCase) publish(ctx context.Context) {
	if uc.feed == nil {
		return
	}
	if err := uc.feed.Publish(ctx, repository.CollectionCheckedTasks); err != nil {
		uc.logger.Warn("change feed publish failed",
			zap.String("collection", repository.CollectionCheckedTasks),
			zap.Error(err))
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, record *domain.CompletionRecord) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferCompletion(ctx, operation, record); err != nil {
		uc.logger.Error("failed to buffer completion operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("completion operation buffered", zap.String("operation", operation))
	return true
}
