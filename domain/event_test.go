package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMergeEventsNormalizesBothFeeds(t *testing.T) {
	occurrence := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)

	activities := []Activity{
		{ID: "a1", Member: "Leo", Text: "Fotboll", Date: occurrence},
	}
	fixed := []FixedActivity{
		{ID: "f1", Member: "Molly", Text: "Borsta tänderna", Time: "08:00"},
		{ID: "f2", Member: "Aron", Text: "Läsa läxor"},       // no time, never notifies
		{ID: "f3", Member: "Mamma", Text: "Trasig", Time: "8"}, // unparsable
	}

	events := MergeEvents(activities, fixed)
	require.Len(t, events, 2)

	require.Equal(t, "a1", events[0].ID)
	require.False(t, events[0].Fixed)
	require.Equal(t, occurrence, events[0].OccursAt)

	require.Equal(t, "f1", events[1].ID)
	require.True(t, events[1].Fixed)
	require.Equal(t, 8, events[1].Hour)
	require.Equal(t, 0, events[1].Minute)
}

func TestMergeEventsEmptyInputs(t *testing.T) {
	require.Empty(t, MergeEvents(nil, nil))
}

func TestOccurrenceOnResolvesFixedAgainstDay(t *testing.T) {
	event := Event{ID: "f1", Fixed: true, Hour: 8, Minute: 15}

	day1 := time.Date(2024, 1, 1, 7, 10, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)

	require.Equal(t, time.Date(2024, 1, 1, 8, 15, 0, 0, time.UTC), event.OccurrenceOn(day1))
	require.Equal(t, time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC), event.OccurrenceOn(day2))
}

func TestOccurrenceOnKeepsOneOffTimestamp(t *testing.T) {
	occurrence := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)
	event := Event{ID: "a1", OccursAt: occurrence}

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, occurrence, event.OccurrenceOn(day))
}

func TestNotifyKeyPerDayForFixedEvents(t *testing.T) {
	oneOff := Event{ID: "a1"}
	fixed := Event{ID: "f1", Fixed: true, Hour: 8}

	day1 := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC)

	require.Equal(t, "a1", oneOff.NotifyKey(day1))
	require.Equal(t, "a1", oneOff.NotifyKey(day2))

	require.Equal(t, "f1-2024-01-01", fixed.NotifyKey(day1))
	require.Equal(t, "f1-2024-01-02", fixed.NotifyKey(day2))
	require.NotEqual(t, fixed.NotifyKey(day1), fixed.NotifyKey(day2))
}
