package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

type stubActivityRepo struct {
	activities []domain.Activity
	calls      int
}

func (r *stubActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	r.calls++
	return r.activities, nil
}

func (r *stubActivityRepo) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	return a, nil
}

func (r *stubActivityRepo) Delete(ctx context.Context, id string) error { return nil }

type stubFixedRepo struct {
	fixed []domain.FixedActivity
}

func (r *stubFixedRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.FixedActivity, error) {
	return r.fixed, nil
}

func (r *stubFixedRepo) Create(ctx context.Context, a *domain.FixedActivity) (*domain.FixedActivity, error) {
	return a, nil
}

func (r *stubFixedRepo) Delete(ctx context.Context, id string) error { return nil }

type stubCompletionRepo struct {
	records []domain.CompletionRecord
	dates   []string
}

func (r *stubCompletionRepo) ListForDate(ctx context.Context, date string) ([]domain.CompletionRecord, error) {
	r.dates = append(r.dates, date)
	var matches []domain.CompletionRecord
	for _, rec := range r.records {
		if rec.Date == date {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

func (r *stubCompletionRepo) Create(ctx context.Context, record *domain.CompletionRecord) (*domain.CompletionRecord, error) {
	return record, nil
}

func (r *stubCompletionRepo) DeleteMatching(ctx context.Context, taskID, date string) (int, error) {
	return 0, nil
}

type stubMessageRepo struct {
	messages []domain.ChatMessage
}

func (r *stubMessageRepo) List(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	return r.messages, nil
}

func (r *stubMessageRepo) Create(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	return m, nil
}

// capturingFeed hands the subscription callback back to the test so it can
// simulate change signals synchronously.
type capturingFeed struct {
	collections []string
	signal      func(string)
	stopped     bool
}

func (f *capturingFeed) Publish(ctx context.Context, collection string) error { return nil }

func (f *capturingFeed) Subscribe(ctx context.Context, collections []string, fn func(string)) (func() error, error) {
	f.collections = collections
	f.signal = fn
	return func() error {
		f.stopped = true
		return nil
	}, nil
}

func newTestHub(t *testing.T, feed *capturingFeed, activities *stubActivityRepo, completions *stubCompletionRepo, clock func() time.Time) *Hub {
	t.Helper()
	return New(Config{
		Feed:        feed,
		Activities:  activities,
		Fixed:       &stubFixedRepo{},
		Completions: completions,
		Messages:    &stubMessageRepo{},
		Clock:       clock,
	})
}

func TestStartLoadsInitialSnapshots(t *testing.T) {
	feed := &capturingFeed{}
	activities := &stubActivityRepo{
		activities: []domain.Activity{{ID: "a1", Member: "Leo", Text: "Fotboll"}},
	}
	completions := &stubCompletionRepo{
		records: []domain.CompletionRecord{{ID: "r1", TaskID: "t1", Date: "2024-01-01"}},
	}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	hub := newTestHub(t, feed, activities, completions, func() time.Time { return now })

	require.NoError(t, hub.Start(context.Background()))
	defer hub.Stop()

	require.Len(t, hub.Activities(), 1)
	require.Len(t, hub.CheckedTasks(), 1)
	require.Empty(t, hub.FixedActivities())
	require.Empty(t, hub.Messages())

	require.Equal(t, []string{
		repository.CollectionActivities,
		repository.CollectionFixedActivities,
		repository.CollectionCheckedTasks,
		repository.CollectionMessages,
	}, feed.collections)
}

func TestSignalTriggersRefresh(t *testing.T) {
	feed := &capturingFeed{}
	activities := &stubActivityRepo{}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	hub := newTestHub(t, feed, activities, &stubCompletionRepo{}, func() time.Time { return now })

	require.NoError(t, hub.Start(context.Background()))
	defer hub.Stop()
	require.Empty(t, hub.Activities())

	activities.activities = []domain.Activity{{ID: "a1", Member: "Leo", Text: "Fotboll"}}
	feed.signal(repository.CollectionActivities)

	require.Len(t, hub.Activities(), 1)
	require.Equal(t, 2, activities.calls)
}

func TestRefreshScopesCheckedToCurrentDate(t *testing.T) {
	feed := &capturingFeed{}
	completions := &stubCompletionRepo{
		records: []domain.CompletionRecord{{ID: "r1", TaskID: "t1", Date: "2024-01-01"}},
	}
	now := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	hub := newTestHub(t, feed, &stubActivityRepo{}, completions, func() time.Time { return now })

	require.NoError(t, hub.Start(context.Background()))
	defer hub.Stop()
	require.Len(t, hub.CheckedTasks(), 1)

	// After midnight the same signal re-queries with the new date and the
	// stale record drops out.
	now = time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	feed.signal(repository.CollectionCheckedTasks)

	require.Empty(t, hub.CheckedTasks())
	require.Equal(t, []string{"2024-01-01", "2024-01-02"}, completions.dates)
}

func TestOnSnapshotFansOut(t *testing.T) {
	feed := &capturingFeed{}
	hub := newTestHub(t, feed, &stubActivityRepo{}, &stubCompletionRepo{}, nil)

	var seen []string
	hub.OnSnapshot(func(collection string) {
		seen = append(seen, collection)
	})

	require.NoError(t, hub.Start(context.Background()))
	defer hub.Stop()

	// One callback per collection during the initial load.
	require.Len(t, seen, 4)

	feed.signal(repository.CollectionMessages)
	require.Equal(t, repository.CollectionMessages, seen[len(seen)-1])
}

func TestUnknownCollectionSignalIsIgnored(t *testing.T) {
	feed := &capturingFeed{}
	hub := newTestHub(t, feed, &stubActivityRepo{}, &stubCompletionRepo{}, nil)

	var fanned int
	hub.OnSnapshot(func(string) { fanned++ })

	require.NoError(t, hub.Start(context.Background()))
	defer hub.Stop()
	require.Equal(t, 4, fanned)

	feed.signal("unrelated")
	require.Equal(t, 4, fanned)
}

func TestStopReleasesSubscription(t *testing.T) {
	feed := &capturingFeed{}
	hub := newTestHub(t, feed, &stubActivityRepo{}, &stubCompletionRepo{}, nil)

	require.NoError(t, hub.Start(context.Background()))
	require.NoError(t, hub.Stop())
	require.True(t, feed.stopped)
}
