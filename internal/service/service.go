package service

import (
	"context"

	"farmrent-backend/internal/domain"
)

// BookingService is the only entry point presentation layers use to change
// a rental request. Every mutating call is atomic: it either commits the
// status change together with its reservation, token and outbox effects, or
// leaves no trace.
type BookingService interface {
	CreateRequest(ctx context.Context, actor domain.Actor, in CreateRequestInput) (*domain.RentalRequest, error)
	Approve(ctx context.Context, actor domain.Actor, requestID int64) (*domain.RentalRequest, error)
	Reject(ctx context.Context, actor domain.Actor, requestID int64, reason string) (*domain.RentalRequest, error)
	Cancel(ctx context.Context, actor domain.Actor, requestID int64, reason string) (*domain.RentalRequest, error)
	MarkPickedUp(ctx context.Context, token string) (*domain.RentalRequest, error)
	MarkReturned(ctx context.Context, token string) (*domain.RentalRequest, error)
	Complete(ctx context.Context, actor domain.Actor, requestID int64) (*domain.RentalRequest, error)
	ReissueToken(ctx context.Context, actor domain.Actor, requestID int64, direction domain.HandoverDirection) (*domain.HandoverToken, error)

	GetRequest(ctx context.Context, actor domain.Actor, requestID int64) (*domain.RentalRequest, error)
	ListEquipmentRequests(ctx context.Context, actor domain.Actor, equipmentID int64) ([]domain.RentalRequest, error)
	Availability(ctx context.Context, equipmentID int64) ([]domain.Reservation, error)
	Quote(ctx context.Context, equipmentID int64, startDate, endDate string) (*domain.PriceBreakdown, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

// CreateRequestInput is a farmer's booking request. Dates are yyyy-mm-dd.
type CreateRequestInput struct {
	EquipmentID     int64  `json:"equipment_id" validate:"required,gt=0"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	DeliveryAddress string `json:"delivery_address" validate:"max=500"`
}

// Notifier is woken after a commit that enqueued outbox events.
type Notifier interface {
	Notify()
}
