package repository

import (
	"context"

	"github.com/famcal/backend/domain"
)

// MessageRepository stores family chat messages.
type MessageRepository interface {
	// List returns messages ordered by timestamp ascending.
	List(ctx context.Context, limit int) ([]domain.ChatMessage, error)
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
}
