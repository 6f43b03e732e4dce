package repository

import "context"

// Collection names published on the change feed. They mirror the table
// names so a feed signal identifies exactly one snapshot to refresh.
const (
	CollectionActivities      = "activities"
	CollectionFixedActivities = "fixed_activities"
	CollectionCheckedTasks    = "checked_tasks"
	CollectionMessages        = "messages"
)

// ChangeFeed is the push boundary between writers and snapshot consumers.
// A published collection name means "your snapshot of this collection is
// stale"; it carries no payload and no ordering guarantee across
// collections. Consumers re-query the full snapshot on every signal.
type ChangeFeed interface {
	Publish(ctx context.Context, collection string) error
	// Subscribe delivers collection names until ctx is cancelled. The
	// returned stop function releases the subscription.
	Subscribe(ctx context.Context, collections []string, fn func(collection string)) (stop func() error, err error)
}
