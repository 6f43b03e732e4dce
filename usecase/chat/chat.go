package chat

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/internal/infrastructure/buffer"
	"github.com/famcal/backend/repository"
	"github.com/famcal/backend/usecase"
)

// Snapshots provides the latest chat snapshot held by the watch hub.
type Snapshots interface {
	Messages() []domain.ChatMessage
}

// UseCase handles the family chat.
type UseCase struct {
	messages  repository.MessageRepository
	feed      repository.ChangeFeed
	buffer    usecase.OperationBuffer
	snapshots Snapshots
	clock     func() time.Time
	logger    *zap.Logger
}

func New(
	messages repository.MessageRepository,
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
		messages:  messages,
		feed:      feed,
		buffer:    opBuffer,
		snapshots: snapshots,
		clock:     clock,
		logger:    logger,
	}
}

// ListMessages serves from the hub's live snapshot when one is wired; a sent
// message becomes visible only through the echoed feed refresh.
func (uc *UseCase) ListMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if uc.snapshots != nil {
		messages := uc.snapshots.Messages()
		if limit > 0 && limit < len(messages) {
			messages = messages[:limit]
		}
		return messages, nil
	}
	return uc.messages.List(ctx, limit)
}

func (uc *UseCase) SendMessage(ctx context.Context, member, text string) (*domain.ChatMessage, error) {
	if !domain.IsMember(member) {
		return nil, domain.ErrUnknownMember
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidPayload
	}

	message := &domain.ChatMessage{
		Member:    member,
		Text:      text,
		Timestamp: uc.clock(),
	}

	created, err := uc.messages.Create(ctx, message)
	if err != nil {
		if uc.shouldBuffer(ctx, message) {
			return message, nil
		}
		return nil, err
	}

	if uc.feed != nil {
		if err := uc.feed.Publish(ctx, repository.CollectionMessages); err != nil {
			uc.logger.Warn("change feed publish failed",
				zap.String("collection", repository.CollectionMessages),
				zap.Error(err))
		}
	}
	return created, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, message *domain.ChatMessage) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferMessage(ctx, buffer.OperationCreate, message); err != nil {
		uc.logger.Error("failed to buffer message", zap.Error(err))
		return false
	}
	uc.logger.Warn("message buffered", zap.String("member", message.Member))
	return true
}
