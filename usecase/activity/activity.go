package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/internal/infrastructure/buffer"
	"github.com/famcal/backend/repository"
	"github.com/famcal/backend/usecase"
)

// UseCase manages one-off and fixed activities. Every successful write
// publishes the collection on the change feed; readers observe the effect
// only through the echoed snapshot refresh, never through the write call.
type UseCase struct {
	activities repository.ActivityRepository
	fixed      repository.FixedActivityRepository
	feed       repository.ChangeFeed
	buffer     usecase.OperationBuffer
	logger     *zap.Logger
}

func New(
	activities repository.ActivityRepository,
	fixed repository.FixedActivityRepository,
	feed repository.ChangeFeed,
	opBuffer usecase.OperationBuffer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		activities: activities,
		fixed:      fixed,
		feed:       feed,
		buffer:     opBuffer,
		logger:     logger,
	}
}

func (uc *UseCase) ListActivities(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	return uc.activities.List(ctx, filter)
}

func (uc *UseCase) CreateActivity(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if activity == nil || !domain.IsMember(activity.Member) {
		return nil, domain.ErrUnknownMember
	}
	if activity.Text == "" || activity.Date.IsZero() {
		return nil, domain.ErrInvalidPayload
	}

	created, err := uc.activities.Create(ctx, activity)
	if err != nil {
		if uc.shouldBufferActivity(ctx, buffer.OperationCreate, activity) {
			return activity, nil
		}
		return nil, err
	}
	uc.publish(ctx, repository.CollectionActivities)
	return created, nil
}

func (uc *UseCase) DeleteActivity(ctx context.Context, id string) error {
	if err := uc.activities.Delete(ctx, id); err != nil {
		if err == domain.ErrActivityNotFound {
			return err
		}
		if uc.shouldBufferActivity(ctx, buffer.OperationDelete, &domain.Activity{ID: id}) {
			return nil
		}
		return err
	}
	uc.publish(ctx, repository.CollectionActivities)
	return nil
}

func (uc *UseCase) ListFixedActivities(ctx context.Context, filter repository.ActivityFilter) ([]domain.FixedActivity, error) {
	return uc.fixed.List(ctx, filter)
}

func (uc *UseCase) CreateFixedActivity(ctx context.Context, activity *domain.FixedActivity) (*domain.FixedActivity, error) {
	if activity == nil || !domain.IsMember(activity.Member) {
		return nil, domain.ErrUnknownMember
	}
	if activity.Text == "" {
		return nil, domain.ErrInvalidPayload
	}

	created, err := uc.fixed.Create(ctx, activity)
	if err != nil {
		if uc.shouldBufferFixed(ctx, buffer.OperationCreate, activity) {
			return activity, nil
		}
		return nil, err
	}
	uc.publish(ctx, repository.CollectionFixedActivities)
	return created, nil
}

func (uc *UseCase) DeleteFixedActivity(ctx context.Context, id string) error {
	if err := uc.fixed.Delete(ctx, id); err != nil {
		if err == domain.ErrActivityNotFound {
			return err
		}
		if uc.shouldBufferFixed(ctx, buffer.OperationDelete, &domain.FixedActivity{ID: id}) {
			return nil
		}
		return err
	}
	uc.publish(ctx, repository.CollectionFixedActivities)
	return nil
}

func (uc *UseCase) publish(ctx context.Context, collection string) {
	if uc.feed == nil {
		return
	}
	if err := uc.feed.Publish(ctx, collection); err != nil {
		uc.logger.Warn("change feed publish failed",
			zap.String("collection", collection),
			zap.Error(err))
	}
}

func (uc *UseCase) shouldBufferActivity(ctx context.Context, operation string, activity *domain.Activity) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferActivity(ctx, operation, activity); err != nil {
		uc.logger.Error("failed to buffer activity operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("activity operation buffered", zap.String("operation", operation))
	return true
}

func (uc *UseCase) shouldBufferFixed(ctx context.Context, operation string, activity *domain.FixedActivity) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferFixedActivity(ctx, operation, activity); err != nil {
		uc.logger.Error("failed to buffer fixed activity operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("fixed activity operation buffered", zap.String("operation", operation))
	return true
}
