package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed implementation of MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) List(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	const query = `
	SELECT id, member, text, timestamp
	FROM messages
	ORDER BY timestamp ASC
	LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.Member, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if message == nil || message.Text == "" {
		return nil, domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO messages (id, member, text, timestamp)
	VALUES ($1, $2, $3, $4)
	RETURNING timestamp
	`
	if err := r.pool.QueryRow(ctx, query,
		message.ID,
		message.Member,
		message.Text,
		message.Timestamp,
	).Scan(&message.Timestamp); err != nil {
		return nil, err
	}
	return message, nil
}
