package utils

import (
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected yyyy-mm-dd, got %q", domain.ErrInvalidDateRange, dateStr)
	}
	return t, nil
}

// FormatDate renders a calendar date in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseRange parses both ends of an inclusive range and checks start <= end.
func ParseRange(startStr, endStr string) (domain.DateRange, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return domain.DateRange{}, err
	}
	if end.Before(start) {
		return domain.DateRange{}, fmt.Errorf("%w: end date %s is before start date %s", domain.ErrInvalidDateRange, endStr, startStr)
	}
	return domain.DateRange{Start: start, End: end}, nil
}
