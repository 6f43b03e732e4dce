package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

type completionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository returns a Postgres-backed implementation of CompletionRepository.
func NewCompletionRepository(pool *pgxpool.Pool) repository.CompletionRepository {
	return &completionRepository{pool: pool}
}

func (r *completionRepository) ListForDate(ctx context.Context, date string) ([]domain.CompletionRecord, error) {
	const query = `
	SELECT id, task_id, date, member, created_at
	FROM checked_tasks
	WHERE date = $1
	`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CompletionRecord
	for rows.Next() {
		var rec domain.CompletionRecord
		if err := rows.Scan(&rec.ID, &rec.TaskID, &rec.Date, &rec.Member, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *completionRepository) Create(ctx context.Context, record *domain.CompletionRecord) (*domain.CompletionRecord, error) {
	if record == nil || record.TaskID == "" || record.Date == "" {
		return nil, domain.ErrInvalidPayload
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO checked_tasks (id, task_id, date, member)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.TaskID,
		record.Date,
		record.Member,
	).Scan(&record.CreatedAt); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *completionRepository) DeleteMatching(ctx context.Context, taskID, date string) (int, error) {
	const query = `DELETE FROM checked_tasks WHERE task_id = $1 AND date = $2`
	tag, err := r.pool.Exec(ctx, query, taskID, date)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
