package services

import (
	"context"
	"encoding/json"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/internal/infrastructure/buffer"
	"github.com/famcal/backend/usecase"
)

// BufferBridge adapts the buffer processor to the usecase-facing port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferActivity(ctx context.Context, operation string, activity *domain.Activity) error {
	if b.processor == nil || activity == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        activity.ID,
		Member:    activity.Member,
		Entity:    buffer.EntityActivity,
		Operation: operation,
		Data:      payload,
	})
}

func (b *BufferBridge) BufferFixedActivity(ctx context.Context, operation string, activity *domain.FixedActivity) error {
	if b.processor == nil || activity == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        activity.ID,
		Member:    activity.Member,
		Entity:    buffer.EntityFixedActivity,
		Operation: operation,
		Data:      payload,
	})
}

func (b *BufferBridge) BufferCompletion(ctx context.Context, operation string, record *domain.CompletionRecord) error {
	if b.processor == nil || record == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		Member:    record.Member,
		Entity:    buffer.EntityCompletion,
		Operation: operation,
		Data:      payload,
	})
}

func (b *BufferBridge) BufferMessage(ctx context.Context, operation string, message *domain.ChatMessage) error {
	if b.processor == nil || message == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        message.ID,
		Member:    message.Member,
		Entity:    buffer.EntityMessage,
		Operation: operation,
		Data:      payload,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
