package domain

import "errors"

var (
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrEquipmentUnavailable = errors.New("equipment unavailable")
	ErrSlotConflict         = errors.New("slot conflict")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidArgument      = errors.New("invalid argument")
)

var reasons = []struct {
	err    error
	kind   string
	reason string
}{
	{ErrInvalidDateRange, "invalid_date_range", "The requested dates are invalid or in the past."},
	{ErrEquipmentUnavailable, "equipment_unavailable", "This equipment is not currently listed for rent."},
	{ErrSlotConflict, "slot_conflict", "The equipment is already booked for part of these dates. Try different dates."},
	{ErrInvalidTransition, "invalid_transition", "This action is not allowed in the request's current state."},
	{ErrTokenInvalid, "token_invalid", "This handover code is not valid."},
	{ErrStorageUnavailable, "storage_unavailable", "The service is temporarily unavailable. Please retry."},
	{ErrNotFound, "not_found", "The requested item was not found."},
	{ErrForbidden, "forbidden", "You are not allowed to perform this action."},
	{ErrInvalidArgument, "invalid_argument", "The request is missing required information."},
}

// Reason maps an error to the user-visible reason for its kind. Unknown
// errors get a generic message so storage details never leak.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "Something went wrong. Please retry later."
}

// Kind returns a stable label for the error's kind, "internal" when unknown.
func Kind(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.kind
		}
	}
	return "internal"
}

// Retryable reports whether the caller may safely retry the same call.
func Retryable(err error) bool {
	return errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrStorageUnavailable)
}
