package domain

import "time"

// DateRange is an inclusive range of whole UTC calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

const secondsPerDay = 24 * 60 * 60

// Days returns the inclusive length of the range; zero or less for malformed ranges.
// Day numbers come from Unix seconds since time.Duration overflows past ~292 years.
func (r DateRange) Days() int {
	return int((dayNumber(r.End) - dayNumber(r.Start)) + 1)
}

func dayNumber(t time.Time) int64 {
	secs := t.Unix()
	if secs < 0 && secs%secondsPerDay != 0 {
		return secs/secondsPerDay - 1
	}
	return secs / secondsPerDay
}

func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Reservation is an Availability Index entry. Released entries stay on
// record but no longer block the equipment.
type Reservation struct {
	EquipmentID int64      `json:"equipment_id"`
	RequestID   int64      `json:"request_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	ReservedAt  time.Time  `json:"reserved_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

func (r *Reservation) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

func (r *Reservation) Active() bool {
	return r.ReleasedAt == nil
}
