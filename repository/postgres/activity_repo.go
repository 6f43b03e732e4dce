package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	const query = `
	SELECT id, member, text, date, created_at
	FROM activities
	WHERE ($1 = '' OR member = $1)
	ORDER BY date ASC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.Member, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Member, &a.Text, &a.Date, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if activity == nil {
		return nil, domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activities (id, member, text, date)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.Member,
		activity.Text,
		activity.Date,
	).Scan(&activity.CreatedAt); err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM activities WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}
