package checklist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/repository"
)

type stubCompletionRepo struct {
	records   []domain.CompletionRecord
	createErr error
	deleteErr error
}

func (r *stubCompletionRepo) ListForDate(ctx context.Context, date string) ([]domain.CompletionRecord, error) {
	var matches []domain.CompletionRecord
	for _, rec := range r.records {
		if rec.Date == date {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

func (r *stubCompletionRepo) Create(ctx context.Context, record *domain.CompletionRecord) (*domain.CompletionRecord, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	r.records = append(r.records, *record)
	return record, nil
}

func (r *stubCompletionRepo) DeleteMatching(ctx context.Context, taskID, date string) (int, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var kept []domain.CompletionRecord
	deleted := 0
	for _, rec := range r.records {
		if rec.TaskID == taskID && rec.Date == date {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return deleted, nil
}

type stubFeed struct {
	published []string
}

func (f *stubFeed) Publish(ctx context.Context, collection string) error {
	f.published = append(f.published, collection)
	return nil
}

func (f *stubFeed) Subscribe(ctx context.Context, collections []string, fn func(string)) (func() error, error) {
	return func() error { return nil }, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestToggleRoundTrip(t *testing.T) {
	repo := &stubCompletionRepo{}
	feed := &stubFeed{}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	uc := New(repo, feed, nil, nil, fixedClock(now), nil)

	checked, err := uc.IsChecked(context.Background(), "task-1")
	require.NoError(t, err)
	require.False(t, checked)

	require.NoError(t, uc.Toggle(context.Background(), "task-1", false, "Leo"))

	checked, err = uc.IsChecked(context.Background(), "task-1")
	require.NoError(t, err)
	require.True(t, checked)

	require.NoError(t, uc.Toggle(context.Background(), "task-1", true, "Leo"))

	checked, err = uc.IsChecked(context.Background(), "task-1")
	require.NoError(t, err)
	require.False(t, checked)

	require.Equal(t, []string{repository.CollectionCheckedTasks, repository.CollectionCheckedTasks}, feed.published)
}

func TestUncheckIsIdempotent(t *testing.T) {
	repo := &stubCompletionRepo{}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	uc := New(repo, &stubFeed{}, nil, nil, fixedClock(now), nil)

	// Zero matching records: no error, state unchanged.
	require.NoError(t, uc.Toggle(context.Background(), "task-1", true, "Leo"))
	require.NoError(t, uc.Toggle(context.Background(), "task-1", true, "Leo"))
	require.Empty(t, repo.records)
}

func TestUncheckRepairsDuplicates(t *testing.T) {
	// Two records for the same (task, date), as left by racing members.
	repo := &stubCompletionRepo{
		records: []domain.CompletionRecord{
			{ID: "r1", TaskID: "brush-teeth", Date: "2024-01-01", Member: "Leo"},
			{ID: "r2", TaskID: "brush-teeth", Date: "2024-01-01", Member: "Molly"},
		},
	}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	uc := New(repo, &stubFeed{}, nil, nil, fixedClock(now), nil)

	require.NoError(t, uc.Toggle(context.Background(), "brush-teeth", true, "Leo"))
	require.Empty(t, repo.records)
}

func TestCheckedTodayCollapsesDuplicatesAndIgnoresOtherDates(t *testing.T) {
	repo := &stubCompletionRepo{
		records: []domain.CompletionRecord{
			{ID: "r1", TaskID: "brush-teeth", Date: "2024-01-01", Member: "Leo"},
			{ID: "r2", TaskID: "brush-teeth", Date: "2024-01-01", Member: "Molly"},
			{ID: "r3", TaskID: "homework", Date: "2023-12-31", Member: "Aron"},
		},
	}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	uc := New(repo, &stubFeed{}, nil, nil, fixedClock(now), nil)

	ids, err := uc.CheckedToday(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"brush-teeth"}, ids)
}

func TestDateRolloverResetsChecklist(t *testing.T) {
	repo := &stubCompletionRepo{}
	now := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	uc := New(repo, &stubFeed{}, nil, nil, clock, nil)

	require.NoError(t, uc.Toggle(context.Background(), "task-1", false, "Leo"))
	checked, err := uc.IsChecked(context.Background(), "task-1")
	require.NoError(t, err)
	require.True(t, checked)

	// Yesterday's record stops matching once the date changes; no reset job.
	now = time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)
	checked, err = uc.IsChecked(context.Background(), "task-1")
	require.NoError(t, err)
	require.False(t, checked)
	require.Len(t, repo.records, 1)
}

type stubSnapshots struct {
	records []domain.CompletionRecord
}

func (s *stubSnapshots) CheckedTasks() []domain.CompletionRecord { return s.records }

func TestReadsServeFromSnapshotWhenWired(t *testing.T) {
	// The repository holds data the snapshot has not caught up with yet;
	// reads must reflect the snapshot, not the store.
	repo := &stubCompletionRepo{
		records: []domain.CompletionRecord{
			{ID: "r1", TaskID: "not-yet-echoed", Date: "2024-01-01", Member: "Leo"},
		},
	}
	snapshots := &stubSnapshots{
		records: []domain.CompletionRecord{
			{ID: "r2", TaskID: "brush-teeth", Date: "2024-01-01", Member: "Molly"},
			{ID: "r3", TaskID: "homework", Date: "2023-12-31", Member: "Aron"},
		},
	}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	uc := New(repo, &stubFeed{}, nil, snapshots, fixedClock(now), nil)

	// Yesterday's leftover in the snapshot is filtered out by date.
	ids, err := uc.CheckedToday(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"brush-teeth"}, ids)

	checked, err := uc.IsChecked(context.Background(), "brush-teeth")
	require.NoError(t, err)
	require.True(t, checked)

	checked, err = uc.IsChecked(context.Background(), "not-yet-echoed")
	require.NoError(t, err)
	require.False(t, checked)
}

func TestToggleRejectsUnknownMember(t *testing.T) {
	uc := New(&stubCompletionRepo{}, &stubFeed{}, nil, nil, nil, nil)

	err := uc.Toggle(context.Background(), "task-1", false, "Stranger")
	require.ErrorIs(t, err, domain.ErrUnknownMember)
}

func TestToggleSurfacesStoreErrorWithoutBuffer(t *testing.T) {
	repo := &stubCompletionRepo{createErr: errors.New("connection refused")}
	feed := &stubFeed{}
	uc := New(repo, feed, nil, nil, nil, nil)

	err := uc.Toggle(context.Background(), "task-1", false, "Leo")
	require.Error(t, err)
	require.Empty(t, feed.published)
}
