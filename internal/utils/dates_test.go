package utils

import (
	"testing"
	"time"

	"farmrent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), date)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Invalid day", func(t *testing.T) {
		_, err := ParseDate("2024-02-30")
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Days())

	r, err = ParseRange("2025-06-01", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())

	_, err = ParseRange("2025-06-05", "2025-06-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := Day(time.Date(2025, 6, 2, 3, 0, 0, 0, loc))
	assert.Equal(t, "2025-06-01", FormatDate(got))
}

func TestDateRangeOverlaps(t *testing.T) {
	a := domain.DateRange{Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)}
	b := domain.DateRange{Start: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)}
	c := domain.DateRange{Start: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}
