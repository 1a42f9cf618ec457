package repository

import (
	"context"
	"time"

	"farmrent-backend/internal/domain"
)

type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	// LockForUpdate loads the equipment and holds a row lock on it until the
	// enclosing transaction ends. Backends without row locks behave like GetByID.
	LockForUpdate(ctx context.Context, id int64) (*domain.Equipment, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.RentalRequest) error
	GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error)
	// UpdateStatus persists status, reasons and updated_at, but only if the
	// stored status still equals from. A mismatch yields ErrInvalidTransition.
	UpdateStatus(ctx context.Context, rental *domain.RentalRequest, from domain.RentalStatus) error
	ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.RentalRequest, error)
	ListStartingOn(ctx context.Context, day time.Time) ([]domain.RentalRequest, error)
	ListReturnDue(ctx context.Context, day time.Time) ([]domain.RentalRequest, error)
}

type ReservationRepository interface {
	// Overlapping returns the active reservations of the equipment that intersect r.
	Overlapping(ctx context.Context, equipmentID int64, r domain.DateRange) ([]domain.Reservation, error)
	// Insert adds an active reservation. The overlap check and the insert are
	// one atomic unit; an overlap yields ErrSlotConflict.
	Insert(ctx context.Context, res *domain.Reservation) error
	// Release marks the request's active reservation released. Missing or
	// already released reservations are not an error.
	Release(ctx context.Context, equipmentID, requestID int64, at time.Time) error
	ListActive(ctx context.Context, equipmentID int64) ([]domain.Reservation, error)
}

type TokenRepository interface {
	// Create stores a new token and supersedes every usable token of the same
	// request and direction.
	Create(ctx context.Context, token *domain.HandoverToken) error
	GetByValue(ctx context.Context, value string) (*domain.HandoverToken, error)
	// Current returns the usable token of a request and direction, or ErrNotFound.
	Current(ctx context.Context, requestID int64, direction domain.HandoverDirection) (*domain.HandoverToken, error)
	// Consume atomically marks a usable token consumed. Unknown, consumed and
	// superseded tokens yield ErrTokenInvalid.
	Consume(ctx context.Context, value string, at time.Time) (*domain.HandoverToken, error)
	Supersede(ctx context.Context, requestID int64, direction domain.HandoverDirection, at time.Time) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event *domain.Event) error
	ListPending(ctx context.Context, limit int, maxAttempts int32) ([]domain.Event, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	// MarkFailed counts a failed attempt and records the channels that have
	// accepted the event so far.
	MarkFailed(ctx context.Context, id string, reason string, deliveredChannels []string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

type ContactRepository interface {
	GetContact(ctx context.Context, userID int64) (*domain.Contact, error)
}

// Store groups the repositories the booking engine mutates together.
type Store interface {
	Equipment() EquipmentRepository
	Rentals() RentalRepository
	Reservations() ReservationRepository
	Tokens() TokenRepository
	Outbox() OutboxRepository
	// WithinTx runs fn against a transactional view of the store. A non-nil
	// error from fn rolls back every write fn made.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
