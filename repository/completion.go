package repository

import (
	"context"

	"github.com/famcal/backend/domain"
)

// CompletionRepository stores per-day completion records for recurring
// tasks. Reads are always scoped to a single date string, which is what
// makes yesterday's records inert without an explicit reset.
type CompletionRepository interface {
	ListForDate(ctx context.Context, date string) ([]domain.CompletionRecord, error)
	Create(ctx context.Context, record *domain.CompletionRecord) (*domain.CompletionRecord, error)
	// DeleteMatching removes every record for (taskID, date) and returns the
	// number deleted. Zero matches is not an error.
	DeleteMatching(ctx context.Context, taskID, date string) (int, error)
}
