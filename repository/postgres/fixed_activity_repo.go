package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

type fixedActivityRepository struct {
	pool *pgxpool.Pool
}

// NewFixedActivityRepository returns a Postgres-backed implementation of FixedActivityRepository.
func NewFixedActivityRepository(pool *pgxpool.Pool) repository.FixedActivityRepository {
	return &fixedActivityRepository{pool: pool}
}

func (r *fixedActivityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.FixedActivity, error) {
	const query = `
	SELECT id, member, text, time_of_day, created_at
	FROM fixed_activities
	WHERE ($1 = '' OR member = $1)
	ORDER BY created_at ASC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.Member, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.FixedActivity
	for rows.Next() {
		var a domain.FixedActivity
		var timeOfDay *string
		if err := rows.Scan(&a.ID, &a.Member, &a.Text, &timeOfDay, &a.CreatedAt); err != nil {
			return nil, err
		}
		if timeOfDay != nil {
			a.Time = *timeOfDay
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *fixedActivityRepository) Create(ctx context.Context, activity *domain.FixedActivity) (*domain.FixedActivity, error) {
	if activity == nil {
		return nil, domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO fixed_activities (id, member, text, time_of_day)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.Member,
		activity.Text,
		nullString(activity.Time),
	).Scan(&activity.CreatedAt); err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *fixedActivityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM fixed_activities WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}
