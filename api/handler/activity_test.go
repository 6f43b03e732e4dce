package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDateInterpretsFormVariantInCalendarLocation(t *testing.T) {
	stockholm := time.FixedZone("CET", 3600)

	// The minute-resolution form payload carries no offset; it means wall
	// time in the calendar location, not the server's.
	parsed, ok := parseDate("2024-01-01T14:30", stockholm)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 1, 1, 14, 30, 0, 0, stockholm), parsed)
	require.Equal(t, time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC), parsed.UTC())
}

func TestParseDateKeepsRFC3339Offset(t *testing.T) {
	parsed, ok := parseDate("2024-01-01T14:30:00+01:00", time.UTC)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC), parsed.UTC())

	_, ok = parseDate("not-a-date", time.UTC)
	require.False(t, ok)
}
