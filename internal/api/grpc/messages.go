package grpc

import (
	"time"

	"farmrent-backend/internal/domain"
)

// RentalRequest is the wire view of a rental request. Dates are yyyy-mm-dd.
type RentalRequest struct {
	ID                       int64                 `json:"id"`
	EquipmentID              int64                 `json:"equipment_id"`
	OwnerID                  int64                 `json:"owner_id"`
	FarmerID                 int64                 `json:"farmer_id"`
	StartDate                string                `json:"start_date"`
	EndDate                  string                `json:"end_date"`
	RentalDuration           int32                 `json:"rental_duration"`
	Price                    domain.PriceBreakdown `json:"price"`
	TotalAmountCents         int64                 `json:"total_amount_cents"`
	SecurityDepositCents     int64                 `json:"security_deposit_cents"`
	DeliveryAddress          string                `json:"delivery_address,omitempty"`
	Status                   string                `json:"status"`
	RejectionReason          string                `json:"rejection_reason,omitempty"`
	CancelReason             string                `json:"cancel_reason,omitempty"`
	PickupToken              string                `json:"pickup_token,omitempty"`
	ReturnToken              string                `json:"return_token,omitempty"`
	ConflictsWithReservation bool                  `json:"conflicts_with_reservation,omitempty"`
	CreatedAt                time.Time             `json:"created_at"`
	UpdatedAt                time.Time             `json:"updated_at"`
}

type Reservation struct {
	RequestID int64  `json:"request_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type HandoverToken struct {
	RequestID int64     `json:"request_id"`
	Direction string    `json:"direction"`
	Token     string    `json:"token,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

type Notification struct {
	ID         int64             `json:"id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type CreateRentalRequestRequest struct {
	EquipmentID     int64  `json:"equipment_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	DeliveryAddress string `json:"delivery_address"`
}

type RentalRequestIDRequest struct {
	RequestID int64 `json:"request_id"`
}

type RentalRequestReasonRequest struct {
	RequestID int64  `json:"request_id"`
	Reason    string `json:"reason"`
}

type RentalRequestResponse struct {
	RentalRequest *RentalRequest `json:"rental_request"`
}

type HandoverRequest struct {
	Token string `json:"token"`
}

type ReissueHandoverTokenRequest struct {
	RequestID int64  `json:"request_id"`
	Direction string `json:"direction"`
}

type ReissueHandoverTokenResponse struct {
	HandoverToken *HandoverToken `json:"handover_token"`
}

type EquipmentRequest struct {
	EquipmentID int64 `json:"equipment_id"`
}

type ListEquipmentRequestsResponse struct {
	RentalRequests []*RentalRequest `json:"rental_requests"`
}

type GetAvailabilityResponse struct {
	EquipmentID  int64          `json:"equipment_id"`
	Reservations []*Reservation `json:"reservations"`
}

type QuotePriceRequest struct {
	EquipmentID int64  `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type QuotePriceResponse struct {
	Price domain.PriceBreakdown `json:"price"`
}

type GetNotificationsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type GetNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	TotalCount    int32           `json:"total_count"`
}

type MarkNotificationReadRequest struct {
	NotificationID int64 `json:"notification_id"`
}

type MarkNotificationReadResponse struct {
	Success bool `json:"success"`
}
