// Package lifecycle is the rental request state machine. It decides which
// transitions are legal; callers perform the side effects.
package lifecycle

import (
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
)

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionPickUp   Action = "pick-up"
	ActionReturn   Action = "return"
	ActionComplete Action = "complete"
)

var transitions = map[domain.RentalStatus]map[Action]domain.RentalStatus{
	domain.RentalStatusPending: {
		ActionApprove: domain.RentalStatusApproved,
		ActionReject:  domain.RentalStatusRejected,
		ActionCancel:  domain.RentalStatusCancelled,
	},
	domain.RentalStatusApproved: {
		ActionPickUp: domain.RentalStatusActive,
		ActionCancel: domain.RentalStatusCancelled,
	},
	domain.RentalStatusActive: {
		ActionReturn:   domain.RentalStatusReturned,
		ActionComplete: domain.RentalStatusCompleted,
	},
}

// Next returns the status reached by applying action in status.
func Next(status domain.RentalStatus, action Action) (domain.RentalStatus, error) {
	if next, ok := transitions[status][action]; ok {
		return next, nil
	}
	if status.Terminal() {
		return "", fmt.Errorf("%w: request is %s and can no longer change", domain.ErrInvalidTransition, status)
	}
	return "", fmt.Errorf("%w: cannot %s a %s request", domain.ErrInvalidTransition, action, status)
}

// Apply moves rt to the status reached by action and returns the status it
// left. rt is untouched on error.
func Apply(rt *domain.RentalRequest, action Action, at time.Time) (domain.RentalStatus, error) {
	from := rt.Status
	next, err := Next(from, action)
	if err != nil {
		return from, err
	}
	rt.Status = next
	rt.UpdatedAt = at
	return from, nil
}

// CheckCancel rejects cancelling an approved request once its start day has come.
func CheckCancel(rt *domain.RentalRequest, today time.Time) error {
	if rt.Status == domain.RentalStatusApproved && !today.Before(rt.StartDate) {
		return fmt.Errorf("%w: rental started on %s", domain.ErrInvalidTransition, rt.StartDate.Format("2006-01-02"))
	}
	return nil
}

// HoldsReservation reports whether a request in status owns an Availability Index entry.
func HoldsReservation(status domain.RentalStatus) bool {
	switch status {
	case domain.RentalStatusApproved, domain.RentalStatusActive:
		return true
	case domain.RentalStatusPending, domain.RentalStatusRejected, domain.RentalStatusCancelled,
		domain.RentalStatusReturned, domain.RentalStatusCompleted:
		return false
	default:
		return false
	}
}
