package repository

import (
	"context"

	"github.com/famcal/backend/domain"
)

type ActivityFilter struct {
	Member string
	Limit  int
	Offset int
}

// ActivityRepository stores one-off calendar activities.
type ActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
}

// FixedActivityRepository stores daily recurring activities.
type FixedActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]domain.FixedActivity, error)
	Create(ctx context.Context, activity *domain.FixedActivity) (*domain.FixedActivity, error)
	Delete(ctx context.Context, id string) error
}
