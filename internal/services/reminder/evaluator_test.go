package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/famcal/backend/domain"
)

type stubSource struct {
	activities []domain.Activity
	fixed      []domain.FixedActivity
}

func (s *stubSource) Activities() []domain.Activity           { return s.activities }
func (s *stubSource) FixedActivities() []domain.FixedActivity { return s.fixed }

type recordingSink struct {
	titles []string
	bodies []string
	err    error
}

func (s *recordingSink) Notify(ctx context.Context, title, body string) error {
	s.titles = append(s.titles, title)
	s.bodies = append(s.bodies, body)
	return s.err
}

func newTestEvaluator(source EventSource, sink *recordingSink, now *time.Time) *Evaluator {
	return NewEvaluator(EvaluatorConfig{
		Source:  source,
		Sink:    sink,
		Horizon: time.Hour,
		Clock:   func() time.Time { return *now },
	})
}

func TestOneOffFiresInsideWindow(t *testing.T) {
	source := &stubSource{
		activities: []domain.Activity{
			{ID: "a1", Member: "Leo", Text: "Fotboll", Date: time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)},
		},
	}
	sink := &recordingSink{}
	now := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	evaluator := newTestEvaluator(source, sink, &now)

	require.Equal(t, 1, evaluator.Evaluate(context.Background()))
	require.Equal(t, []string{"Påminnelse"}, sink.titles)
	require.Equal(t, []string{"Leo: Fotboll kl 14:30"}, sink.bodies)
}

func TestOneOffOutsideWindowDoesNotFire(t *testing.T) {
	source := &stubSource{
		activities: []domain.Activity{
			{ID: "a1", Member: "Leo", Text: "Fotboll", Date: time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)},
		},
	}

	// More than an hour away.
	sink := &recordingSink{}
	now := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
	require.Equal(t, 0, newTestEvaluator(source, sink, &now).Evaluate(context.Background()))
	require.Empty(t, sink.bodies)

	// Occurrence already passed; silently missed, no catch-up.
	now = time.Date(2024, 1, 1, 14, 31, 0, 0, time.UTC)
	require.Equal(t, 0, newTestEvaluator(source, sink, &now).Evaluate(context.Background()))
	require.Empty(t, sink.bodies)

	// Exactly now is not "upcoming".
	now = time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)
	require.Equal(t, 0, newTestEvaluator(source, sink, &now).Evaluate(context.Background()))
	require.Empty(t, sink.bodies)
}

func TestOneOffFiresAtMostOnce(t *testing.T) {
	source := &stubSource{
		activities: []domain.Activity{
			{ID: "a1", Member: "Leo", Text: "Fotboll", Date: time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)},
		},
	}
	sink := &recordingSink{}
	now := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	evaluator := newTestEvaluator(source, sink, &now)

	require.Equal(t, 1, evaluator.Evaluate(context.Background()))

	// Later ticks within the window find the key in the ledger.
	now = now.Add(time.Minute)
	require.Equal(t, 0, evaluator.Evaluate(context.Background()))
	now = now.Add(10 * time.Minute)
	require.Equal(t, 0, evaluator.Evaluate(context.Background()))
	require.Len(t, sink.bodies, 1)
}

func TestOneOffBodyShowsCalendarLocalTime(t *testing.T) {
	// Stored timestamptz values come back in UTC; the body must show the
	// wall time of the clock's location.
	stockholm := time.FixedZone("CET", 3600)
	source := &stubSource{
		activities: []domain.Activity{
			{ID: "a1", Member: "Leo", Text: "Fotboll", Date: time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC)},
		},
	}
	sink := &recordingSink{}
	now := time.Date(2024, 1, 1, 14, 0, 0, 0, stockholm)
	evaluator := newTestEvaluator(source, sink, &now)

	require.Equal(t, 1, evaluator.Evaluate(context.Background()))
	require.Equal(t, []string{"Leo: Fotboll kl 14:30"}, sink.bodies)
}

func TestFixedFiresOncePerDay(t *testing.T) {
	source := &stubSource{
		fixed: []domain.FixedActivity{
			{ID: "f1", Member: "Molly", Text: "Borsta tänderna", Time: "08:00"},
		},
	}
	sink := &recordingSink{}
	now := time.Date(2024, 1, 1, 7, 10, 0, 0, time.UTC)
	evaluator := newTestEvaluator(source, sink, &now)

	require.Equal(t, 1, evaluator.Evaluate(context.Background()))
	require.True(t, evaluator.Ledger().Seen("f1-2024-01-01"))

	// Same day: suppressed.
	now = now.Add(time.Minute)
	require.Equal(t, 0, evaluator.Evaluate(context.Background()))

	// Next day: fresh key, fires again without any manual reset.
	now = time.Date(2024, 1, 2, 7, 10, 0, 0, time.UTC)
	require.Equal(t, 1, evaluator.Evaluate(context.Background()))
	require.True(t, evaluator.Ledger().Seen("f1-2024-01-02"))
	require.Equal(t, []string{"Molly: Borsta tänderna kl 08:00", "Molly: Borsta tänderna kl 08:00"}, sink.bodies)
}

func TestFixedWithoutTimeNeverFires(t *testing.T) {
	source := &stubSource{
		fixed: []domain.FixedActivity{
			{ID: "f1", Member: "Aron", Text: "Läsa läxor"},
		},
	}
	sink := &recordingSink{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 0, newTestEvaluator(source, sink, &now).Evaluate(context.Background()))
}

func TestDeliveryFailureStillMarksLedger(t *testing.T) {
	source := &stubSource{
		activities: []domain.Activity{
			{ID: "a1", Member: "Leo", Text: "Fotboll", Date: time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)},
		},
	}
	sink := &recordingSink{err: context.DeadlineExceeded}
	now := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	evaluator := newTestEvaluator(source, sink, &now)

	require.Equal(t, 1, evaluator.Evaluate(context.Background()))
	require.True(t, evaluator.Ledger().Seen("a1"))

	// Best effort: a failed occurrence is not retried.
	require.Equal(t, 0, evaluator.Evaluate(context.Background()))
}
