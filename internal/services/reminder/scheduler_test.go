package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerClampsSubSecondInterval(t *testing.T) {
	evaluator := NewEvaluator(EvaluatorConfig{Source: &stubSource{}})

	// A sub-second interval would render "@every 0s" and never register a
	// tick; it falls back to the default instead.
	s := NewScheduler(evaluator, 500*time.Millisecond, nil)
	require.Equal(t, 60*time.Second, s.interval)
	require.Len(t, s.cron.Entries(), 1)
}

func TestSchedulerRegistersTick(t *testing.T) {
	evaluator := NewEvaluator(EvaluatorConfig{Source: &stubSource{}})

	s := NewScheduler(evaluator, 60*time.Second, nil)
	require.Len(t, s.cron.Entries(), 1)
}
