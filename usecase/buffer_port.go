package usecase

import (
	"context"

	"github.com/famcal/backend/domain"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. A nil buffer means failed writes are logged and dropped.
type OperationBuffer interface {
	BufferActivity(ctx context.Context, operation string, activity *domain.Activity) error
	BufferFixedActivity(ctx context.Context, operation string, activity *domain.FixedActivity) error
	BufferCompletion(ctx context.Context, operation string, record *domain.CompletionRecord) error
	BufferMessage(ctx context.Context, operation string, message *domain.ChatMessage) error
}
