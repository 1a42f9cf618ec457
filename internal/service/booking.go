package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmrent-backend/internal/availability"
	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/handover"
	"farmrent-backend/internal/lifecycle"
	"farmrent-backend/internal/lock"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/observability"
	"farmrent-backend/internal/repository"
	"farmrent-backend/internal/utils"

	"github.com/go-playground/validator/v10"
)

type Option func(*bookingService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *bookingService) { s.notifier = n }
}

type bookingService struct {
	store    repository.Store
	locker   lock.Locker
	validate *validator.Validate
	notifier Notifier
	now      func() time.Time
}

func NewBookingService(store repository.Store, locker lock.Locker, opts ...Option) BookingService {
	s := &bookingService{
		store:    store,
		locker:   locker,
		validate: validator.New(),
		now:      time.Now,
	}
	if s.locker == nil {
		s.locker = lock.NewKeyedMutex()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// step runs inside the equipment lock and the store transaction. It returns
// the updated request and the status it left.
type step func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error)

func (s *bookingService) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.BookingLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	kind := domain.Kind(err)
	observability.BookingErrorsTotal.WithLabelValues(op, kind).Inc()
	if kind == "internal" || errors.Is(err, domain.ErrStorageUnavailable) {
		logger.ErrorContext(ctx, "Booking operation failed", "operation", op, "error", err)
		return
	}
	logger.Rejected(ctx, op, err)
}

func (s *bookingService) kick() {
	if s.notifier != nil {
		s.notifier.Notify()
	}
}

// locked serializes fn with every other mutation of the same equipment and
// runs it in one store transaction.
func (s *bookingService) locked(ctx context.Context, equipmentID int64, fn func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) error) error {
	unlock, err := s.locker.Lock(ctx, lock.EquipmentKey(equipmentID))
	if err != nil {
		return err
	}
	defer unlock()

	now := s.now().UTC()
	return s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		eq, err := tx.Equipment().LockForUpdate(ctx, equipmentID)
		if err != nil {
			return err
		}
		return fn(ctx, tx, eq, now)
	})
}

func (s *bookingService) transition(ctx context.Context, equipmentID int64, fn step) (*domain.RentalRequest, error) {
	var rt *domain.RentalRequest
	var from domain.RentalStatus
	err := s.locked(ctx, equipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) error {
		var err error
		rt, from, err = fn(ctx, tx, eq, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.TransitionsTotal.WithLabelValues(string(from), string(rt.Status)).Inc()
	logger.Transition(ctx, rt.ID, string(from), string(rt.Status), "equipment_id", rt.EquipmentID)
	s.kick()
	return rt, nil
}

func (s *bookingService) peek(ctx context.Context, requestID int64) (*domain.RentalRequest, error) {
	if requestID <= 0 {
		return nil, fmt.Errorf("%w: request id is required", domain.ErrInvalidArgument)
	}
	return s.store.Rentals().GetByID(ctx, requestID)
}

func authorizeOwner(actor domain.Actor, rt *domain.RentalRequest) error {
	if actor.IsAdmin() || actor.ID == rt.OwnerID {
		return nil
	}
	return fmt.Errorf("%w: only the equipment owner can do this", domain.ErrForbidden)
}

func authorizeParty(actor domain.Actor, rt *domain.RentalRequest) error {
	if actor.IsAdmin() || actor.ID == rt.OwnerID || actor.ID == rt.FarmerID {
		return nil
	}
	return fmt.Errorf("%w: not a party to request %d", domain.ErrForbidden, rt.ID)
}

// MaxRentalDays bounds the length of a single request.
const MaxRentalDays = 366

func (s *bookingService) parseFutureRange(startDate, endDate string) (domain.DateRange, error) {
	rng, err := utils.ParseRange(startDate, endDate)
	if err != nil {
		return domain.DateRange{}, err
	}
	if rng.Start.Before(utils.Day(s.now())) {
		return domain.DateRange{}, fmt.Errorf("%w: start date %s is in the past", domain.ErrInvalidDateRange, startDate)
	}
	if days := rng.Days(); days > MaxRentalDays {
		return domain.DateRange{}, fmt.Errorf("%w: %d days exceeds the %d day limit", domain.ErrInvalidDateRange, days, MaxRentalDays)
	}
	return rng, nil
}

func (s *bookingService) CreateRequest(ctx context.Context, actor domain.Actor, in CreateRequestInput) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "create", start, err) }(time.Now())

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	rng, err := s.parseFutureRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	eq, err := s.store.Equipment().GetByID(ctx, in.EquipmentID)
	if err != nil {
		return nil, err
	}
	if !eq.Listed {
		return nil, fmt.Errorf("%w: equipment %d is not listed", domain.ErrEquipmentUnavailable, eq.ID)
	}
	if eq.OwnerID == actor.ID {
		return nil, fmt.Errorf("%w: cannot rent your own equipment", domain.ErrForbidden)
	}
	price, err := utils.CalculateRentalCost(rng.Start, rng.End, eq.Rates())
	if err != nil {
		return nil, err
	}
	// Advisory only: the authoritative check happens at approval.
	conflict, err := availability.NewIndex(s.store.Reservations()).HasConflict(ctx, eq.ID, rng)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rt = &domain.RentalRequest{
		EquipmentID:          eq.ID,
		OwnerID:              eq.OwnerID,
		FarmerID:             actor.ID,
		StartDate:            rng.Start,
		EndDate:              rng.End,
		DurationDays:         int32(rng.Days()),
		Price:                price,
		TotalAmountCents:     price.TotalCents,
		SecurityDepositCents: price.SecurityDepositCents,
		DeliveryAddress:      strings.TrimSpace(in.DeliveryAddress),
		Status:               domain.RentalStatusPending,
		CreatedAt:            now,
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Rentals().Create(ctx, rt); err != nil {
			return err
		}
		return tx.Outbox().Enqueue(ctx, domain.NewEvent(domain.EventRequested, rt, eq.Name, now, eq.OwnerID))
	})
	if err != nil {
		return nil, err
	}
	rt.ConflictsWithReservation = conflict

	observability.TransitionsTotal.WithLabelValues("", string(rt.Status)).Inc()
	logger.Transition(ctx, rt.ID, "", string(rt.Status), "equipment_id", eq.ID, "total_cents", rt.TotalAmountCents)
	s.kick()
	return rt, nil
}

func (s *bookingService) Approve(ctx context.Context, actor domain.Actor, requestID int64) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "approve", start, err) }(time.Now())

	peek, err := s.peek(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, peek); err != nil {
		return nil, err
	}
	return s.transition(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error) {
		rt, err := tx.Rentals().GetByID(ctx, requestID)
		if err != nil {
			return nil, "", err
		}
		from, err := lifecycle.Apply(rt, lifecycle.ActionApprove, now)
		if err != nil {
			return nil, from, err
		}
		if !eq.Listed {
			return nil, from, fmt.Errorf("%w: equipment %d was delisted", domain.ErrEquipmentUnavailable, eq.ID)
		}
		if err := availability.NewIndex(tx.Reservations()).Reserve(ctx, rt.EquipmentID, rt.Range(), rt.ID, now); err != nil {
			return nil, from, err
		}
		if err := tx.Rentals().UpdateStatus(ctx, rt, from); err != nil {
			return nil, from, err
		}
		tok, err := handover.NewService(tx.Tokens(), tx.Rentals(), s.now).Issue(ctx, rt.ID, domain.HandoverPickup)
		if err != nil {
			return nil, from, err
		}
		rt.PickupToken = tok.Value

		if err := tx.Outbox().Enqueue(ctx, domain.NewEvent(domain.EventApproved, rt, eq.Name, now, rt.FarmerID)); err != nil {
			return nil, from, err
		}
		if err := tx.Outbox().Enqueue(ctx, domain.NewEvent(domain.EventPickupReady, rt, eq.Name, now, rt.FarmerID)); err != nil {
			return nil, from, err
		}
		return rt, from, nil
	})
}

func (s *bookingService) Reject(ctx context.Context, actor domain.Actor, requestID int64, reason string) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "reject", start, err) }(time.Now())

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidArgument)
	}
	peek, err := s.peek(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, peek); err != nil {
		return nil, err
	}
	return s.transition(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error) {
		rt, err := tx.Rentals().GetByID(ctx, requestID)
		if err != nil {
			return nil, "", err
		}
		from, err := lifecycle.Apply(rt, lifecycle.ActionReject, now)
		if err != nil {
			return nil, from, err
		}
		rt.RejectionReason = reason
		if err := tx.Rentals().UpdateStatus(ctx, rt, from); err != nil {
			return nil, from, err
		}
		ev := domain.NewEvent(domain.EventRejected, rt, eq.Name, now, rt.FarmerID).With("reason", reason)
		if err := tx.Outbox().Enqueue(ctx, ev); err != nil {
			return nil, from, err
		}
		return rt, from, nil
	})
}

func (s *bookingService) Cancel(ctx context.Context, actor domain.Actor, requestID int64, reason string) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "cancel", start, err) }(time.Now())

	peek, err := s.peek(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParty(actor, peek); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error) {
		rt, err := tx.Rentals().GetByID(ctx, requestID)
		if err != nil {
			return nil, "", err
		}
		// Owners turn down pending requests with Reject.
		if !actor.IsAdmin() && actor.ID != rt.FarmerID && rt.Status == domain.RentalStatusPending {
			return nil, rt.Status, fmt.Errorf("%w: only the farmer can cancel a pending request", domain.ErrForbidden)
		}
		if err := lifecycle.CheckCancel(rt, utils.Day(now)); err != nil {
			return nil, rt.Status, err
		}
		from, err := lifecycle.Apply(rt, lifecycle.ActionCancel, now)
		if err != nil {
			return nil, from, err
		}
		rt.CancelReason = reason
		if lifecycle.HoldsReservation(from) {
			if err := availability.NewIndex(tx.Reservations()).Release(ctx, rt.EquipmentID, rt.ID, now); err != nil {
				return nil, from, err
			}
			if err := handover.NewService(tx.Tokens(), tx.Rentals(), s.now).Revoke(ctx, rt.ID, domain.HandoverPickup); err != nil {
				return nil, from, err
			}
		}
		if err := tx.Rentals().UpdateStatus(ctx, rt, from); err != nil {
			return nil, from, err
		}
		ev := domain.NewEvent(domain.EventCancelled, rt, eq.Name, now, rt.FarmerID, rt.OwnerID).With("reason", reason)
		if err := tx.Outbox().Enqueue(ctx, ev); err != nil {
			return nil, from, err
		}
		return rt, from, nil
	})
}

// resolveToken finds the equipment a token belongs to so the right lock can be taken.
func (s *bookingService) resolveToken(ctx context.Context, token string) (*domain.RentalRequest, error) {
	tok, err := handover.NewService(s.store.Tokens(), s.store.Rentals(), s.now).Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.store.Rentals().GetByID(ctx, tok.RequestID)
}

func (s *bookingService) MarkPickedUp(ctx context.Context, token string) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "pick_up", start, err) }(time.Now())

	peek, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	rt, err = s.transition(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error) {
		hs := handover.NewService(tx.Tokens(), tx.Rentals(), s.now)
		_, rt, err := hs.Consume(ctx, token, domain.HandoverPickup)
		if err != nil {
			return nil, "", err
		}
		from, err := lifecycle.Apply(rt, lifecycle.ActionPickUp, now)
		if err != nil {
			return nil, from, err
		}
		if err := tx.Rentals().UpdateStatus(ctx, rt, from); err != nil {
			return nil, from, err
		}
		ret, err := hs.Issue(ctx, rt.ID, domain.HandoverReturn)
		if err != nil {
			return nil, from, err
		}
		rt.ReturnToken = ret.Value
		if err := tx.Outbox().Enqueue(ctx, domain.NewEvent(domain.EventPickedUp, rt, eq.Name, now, rt.FarmerID, rt.OwnerID)); err != nil {
			return nil, from, err
		}
		return rt, from, nil
	})
	if err != nil {
		return nil, err
	}
	observability.TokensConsumedTotal.WithLabelValues(string(domain.HandoverPickup)).Inc()
	return rt, nil
}

func (s *bookingService) MarkReturned(ctx context.Context, token string) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "return", start, err) }(time.Now())

	peek, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	rt, err = s.transition(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error) {
		_, rt, err := handover.NewService(tx.Tokens(), tx.Rentals(), s.now).Consume(ctx, token, domain.HandoverReturn)
		if err != nil {
			return nil, "", err
		}
		from, err := lifecycle.Apply(rt, lifecycle.ActionReturn, now)
		if err != nil {
			return nil, from, err
		}
		if err := availability.NewIndex(tx.Reservations()).Release(ctx, rt.EquipmentID, rt.ID, now); err != nil {
			return nil, from, err
		}
		if err := tx.Rentals().UpdateStatus(ctx, rt, from); err != nil {
			return nil, from, err
		}
		if err := tx.Outbox().Enqueue(ctx, domain.NewEvent(domain.EventReturned, rt, eq.Name, now, rt.FarmerID, rt.OwnerID)); err != nil {
			return nil, from, err
		}
		return rt, from, nil
	})
	if err != nil {
		return nil, err
	}
	observability.TokensConsumedTotal.WithLabelValues(string(domain.HandoverReturn)).Inc()
	return rt, nil
}

// Complete closes out an active rental without its return token, e.g. when
// the farmer lost the code and the equipment was checked in at the yard.
func (s *bookingService) Complete(ctx context.Context, actor domain.Actor, requestID int64) (rt *domain.RentalRequest, err error) {
	defer func(start time.Time) { s.observe(ctx, "complete", start, err) }(time.Now())

	peek, err := s.peek(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, peek); err != nil {
		return nil, err
	}
	return s.transition(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) (*domain.RentalRequest, domain.RentalStatus, error) {
		rt, err := tx.Rentals().GetByID(ctx, requestID)
		if err != nil {
			return nil, "", err
		}
		from, err := lifecycle.Apply(rt, lifecycle.ActionComplete, now)
		if err != nil {
			return nil, from, err
		}
		if err := handover.NewService(tx.Tokens(), tx.Rentals(), s.now).Revoke(ctx, rt.ID, domain.HandoverReturn); err != nil {
			return nil, from, err
		}
		if err := availability.NewIndex(tx.Reservations()).Release(ctx, rt.EquipmentID, rt.ID, now); err != nil {
			return nil, from, err
		}
		if err := tx.Rentals().UpdateStatus(ctx, rt, from); err != nil {
			return nil, from, err
		}
		if err := tx.Outbox().Enqueue(ctx, domain.NewEvent(domain.EventCompleted, rt, eq.Name, now, rt.FarmerID)); err != nil {
			return nil, from, err
		}
		return rt, from, nil
	})
}

// ReissueToken replaces a lost handover code. The old code stops working.
func (s *bookingService) ReissueToken(ctx context.Context, actor domain.Actor, requestID int64, direction domain.HandoverDirection) (tok *domain.HandoverToken, err error) {
	defer func(start time.Time) { s.observe(ctx, "reissue_token", start, err) }(time.Now())

	if _, err := domain.ParseHandoverDirection(string(direction)); err != nil {
		return nil, err
	}
	peek, err := s.peek(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParty(actor, peek); err != nil {
		return nil, err
	}
	err = s.locked(ctx, peek.EquipmentID, func(ctx context.Context, tx repository.Store, eq *domain.Equipment, now time.Time) error {
		rt, err := tx.Rentals().GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if rt.Status != direction.Phase() {
			return fmt.Errorf("%w: no %s code for a %s request", domain.ErrInvalidTransition, direction, rt.Status)
		}
		tok, err = handover.NewService(tx.Tokens(), tx.Rentals(), s.now).Issue(ctx, rt.ID, direction)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Handover token reissued", "request_id", requestID, "direction", direction, "actor_id", actor.ID)
	return tok, nil
}

// GetRequest returns a request to one of its parties. Handover codes are
// only filled in for the farmer, who presents them, and for admins.
func (s *bookingService) GetRequest(ctx context.Context, actor domain.Actor, requestID int64) (*domain.RentalRequest, error) {
	rt, err := s.peek(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParty(actor, rt); err != nil {
		return nil, err
	}
	if actor.ID != rt.FarmerID && !actor.IsAdmin() {
		return rt, nil
	}
	for _, dir := range []domain.HandoverDirection{domain.HandoverPickup, domain.HandoverReturn} {
		if rt.Status != dir.Phase() {
			continue
		}
		tok, err := s.store.Tokens().Current(ctx, rt.ID, dir)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if dir == domain.HandoverPickup {
			rt.PickupToken = tok.Value
		} else {
			rt.ReturnToken = tok.Value
		}
	}
	return rt, nil
}

func (s *bookingService) ListEquipmentRequests(ctx context.Context, actor domain.Actor, equipmentID int64) ([]domain.RentalRequest, error) {
	eq, err := s.store.Equipment().GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != eq.OwnerID {
		return nil, fmt.Errorf("%w: only the equipment owner can list its requests", domain.ErrForbidden)
	}
	return s.store.Rentals().ListByEquipment(ctx, equipmentID)
}

func (s *bookingService) Availability(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	if _, err := s.store.Equipment().GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	return availability.NewIndex(s.store.Reservations()).Reservations(ctx, equipmentID)
}

func (s *bookingService) Quote(ctx context.Context, equipmentID int64, startDate, endDate string) (*domain.PriceBreakdown, error) {
	rng, err := s.parseFutureRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	eq, err := s.store.Equipment().GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !eq.Listed {
		return nil, fmt.Errorf("%w: equipment %d is not listed", domain.ErrEquipmentUnavailable, eq.ID)
	}
	price, err := utils.CalculateRentalCost(rng.Start, rng.End, eq.Rates())
	if err != nil {
		return nil, err
	}
	return &price, nil
}
