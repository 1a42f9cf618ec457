package domain

import (
	"fmt"
	"time"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusApproved  RentalStatus = "APPROVED"
	RentalStatusRejected  RentalStatus = "REJECTED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusReturned  RentalStatus = "RETURNED"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// AllRentalStatuses lists every status in lifecycle order.
var AllRentalStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusApproved,
	RentalStatusRejected,
	RentalStatusActive,
	RentalStatusReturned,
	RentalStatusCompleted,
	RentalStatusCancelled,
}

// ParseRentalStatus converts a stored status string into a RentalStatus.
func ParseRentalStatus(s string) (RentalStatus, error) {
	switch st := RentalStatus(s); st {
	case RentalStatusPending, RentalStatusApproved, RentalStatusRejected, RentalStatusActive,
		RentalStatusReturned, RentalStatusCompleted, RentalStatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown rental status %q", s)
	}
}

// Terminal reports whether no further transition is permitted from s.
func (s RentalStatus) Terminal() bool {
	switch s {
	case RentalStatusRejected, RentalStatusCancelled, RentalStatusReturned, RentalStatusCompleted:
		return true
	case RentalStatusPending, RentalStatusApproved, RentalStatusActive:
		return false
	default:
		return false
	}
}

// PriceBreakdown is the frozen result of pricing a rental at creation time.
type PriceBreakdown struct {
	Months               int32 `json:"months"`
	Weeks                int32 `json:"weeks"`
	Days                 int32 `json:"days"`
	MonthsCostCents      int64 `json:"months_cost_cents"`
	WeeksCostCents       int64 `json:"weeks_cost_cents"`
	DaysCostCents        int64 `json:"days_cost_cents"`
	RentalCostCents      int64 `json:"rental_cost_cents"`
	DeliveryFeeCents     int64 `json:"delivery_fee_cents"`
	SecurityDepositCents int64 `json:"security_deposit_cents"` // refundable, not part of TotalCents
	TotalCents           int64 `json:"total_cents"`
}

type RentalRequest struct {
	ID          int64     `json:"id"`
	EquipmentID int64     `json:"equipment_id"`
	OwnerID     int64     `json:"owner_id"`
	FarmerID    int64     `json:"farmer_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	// Price snapshot fields, captured at creation and never recomputed.
	DurationDays         int32          `json:"rental_duration"`
	Price                PriceBreakdown `json:"price"`
	TotalAmountCents     int64          `json:"total_amount_cents"`
	SecurityDepositCents int64          `json:"security_deposit_cents"`
	DeliveryAddress      string         `json:"delivery_address"`
	Status               RentalStatus   `json:"status"`
	RejectionReason      string         `json:"rejection_reason,omitempty"`
	CancelReason         string         `json:"cancel_reason,omitempty"`
	PickupToken          string         `json:"pickup_token,omitempty"`
	ReturnToken          string         `json:"return_token,omitempty"`
	// ConflictsWithReservation is set on creation when the range already
	// overlaps a committed reservation. Not persisted.
	ConflictsWithReservation bool      `json:"conflicts_with_reservation,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (r *RentalRequest) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}
