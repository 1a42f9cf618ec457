package domain

import (
	"fmt"
	"time"
)

type HandoverDirection string

const (
	HandoverPickup HandoverDirection = "pickup"
	HandoverReturn HandoverDirection = "return"
)

func ParseHandoverDirection(s string) (HandoverDirection, error) {
	switch d := HandoverDirection(s); d {
	case HandoverPickup, HandoverReturn:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown handover direction %q", ErrInvalidArgument, s)
	}
}

// Phase is the request status during which a token of this direction may be consumed.
func (d HandoverDirection) Phase() RentalStatus {
	switch d {
	case HandoverPickup:
		return RentalStatusApproved
	case HandoverReturn:
		return RentalStatusActive
	default:
		return ""
	}
}

// HandoverToken is a single-use bearer credential for a physical handover.
type HandoverToken struct {
	Value        string            `json:"value"`
	RequestID    int64             `json:"request_id"`
	Direction    HandoverDirection `json:"direction"`
	IssuedAt     time.Time         `json:"issued_at"`
	ConsumedAt   *time.Time        `json:"consumed_at,omitempty"`
	SupersededAt *time.Time        `json:"superseded_at,omitempty"`
}

// Usable reports whether the token was neither consumed nor superseded.
func (t *HandoverToken) Usable() bool {
	return t.ConsumedAt == nil && t.SupersededAt == nil
}
