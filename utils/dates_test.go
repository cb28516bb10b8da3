package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withZone(t *testing.T, name string) {
	t.Helper()
	previous := refZone
	require.NoError(t, SetTimezone(name))
	t.Cleanup(func() { refZone = previous })
}

func TestDayWindowBoundaries(t *testing.T) {
	withZone(t, "UTC")

	afternoon := time.Date(2030, 6, 15, 13, 45, 12, 0, time.UTC)
	start, end := DayWindow(afternoon)

	assert.True(t, start.Equal(time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, end.Equal(time.Date(2030, 6, 16, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 24*time.Hour, end.Sub(start))

	// Half-open: the start instant belongs to the day, the end instant does not
	atStart, _ := DayWindow(start)
	assert.True(t, atStart.Equal(start))
	nextStart, _ := DayWindow(end)
	assert.True(t, nextStart.Equal(end))
}

func TestDayWindowUsesReferenceZone(t *testing.T) {
	withZone(t, "America/New_York")

	// 02:00 UTC on June 16 is still June 15 in New York
	instant := time.Date(2030, 6, 16, 2, 0, 0, 0, time.UTC)
	start, _ := DayWindow(instant)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2030, 6, 15, 0, 0, 0, 0, ny)))
}

func TestParseDate(t *testing.T) {
	withZone(t, "UTC")

	day, err := ParseDate("2030-06-15")
	require.NoError(t, err)
	assert.True(t, day.Equal(time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)))

	_, err = ParseDate("15.06.2030")
	assert.ErrorIs(t, err, ErrBadDate)

	_, err = ParseDate("2030-06-15T08:00:00Z")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestParseDateOrTime(t *testing.T) {
	withZone(t, "UTC")

	// Date-only input normalizes to start of day in the reference zone
	got, err := ParseDateOrTime("2030-06-15")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)))

	// Timestamps keep their instant
	got, err = ParseDateOrTime("2030-06-15T08:30:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2030, 6, 15, 6, 30, 0, 0, time.UTC)))

	_, err = ParseDateOrTime("next tuesday")
	assert.ErrorIs(t, err, ErrBadDate)
}
