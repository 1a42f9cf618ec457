package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange_Days(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"Single day", date(2025, 6, 1), date(2025, 6, 1), 1},
		{"Across month end", date(2025, 6, 28), date(2025, 7, 3), 6},
		{"Leap day", date(2024, 2, 28), date(2024, 3, 1), 3},
		{"End before start", date(2025, 6, 5), date(2025, 6, 1), -3},
		{"Before the epoch", date(1969, 12, 30), date(1970, 1, 2), 4},
		{"Beyond duration range", date(2025, 1, 1), date(2400, 1, 1), 136966},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateRange{Start: tt.start, End: tt.end}.Days())
		})
	}
}

func TestDateRange_Overlaps(t *testing.T) {
	r := DateRange{Start: date(2025, 6, 1), End: date(2025, 6, 5)}
	assert.True(t, r.Overlaps(DateRange{Start: date(2025, 6, 5), End: date(2025, 6, 9)}))
	assert.False(t, r.Overlaps(DateRange{Start: date(2025, 6, 6), End: date(2025, 6, 9)}))
}
