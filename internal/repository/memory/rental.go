package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"farmrent-backend/internal/domain"
)

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, domain.ErrNotFound)
}

type rentalRepository struct {
	st *state
	j  *journal
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.RentalRequest) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.nextRental++
	rental.ID = r.st.nextRental
	if rental.CreatedAt.IsZero() {
		rental.CreatedAt = time.Now().UTC()
	}
	rental.UpdatedAt = rental.CreatedAt
	cp := *rental
	cp.ConflictsWithReservation = false
	r.st.rentals[cp.ID] = &cp
	id := cp.ID
	r.j.record(func() {
		r.st.mu.Lock()
		delete(r.st.rentals, id)
		r.st.mu.Unlock()
	})
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	rt, ok := r.st.rentals[id]
	if !ok {
		return nil, notFound("rental request", id)
	}
	cp := *rt
	return &cp, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, rental *domain.RentalRequest, from domain.RentalStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	cur, ok := r.st.rentals[rental.ID]
	if !ok {
		return notFound("rental request", rental.ID)
	}
	if cur.Status != from {
		return fmt.Errorf("%w: request %d is %s, expected %s", domain.ErrInvalidTransition, rental.ID, cur.Status, from)
	}
	prev := *cur
	cur.Status = rental.Status
	cur.RejectionReason = rental.RejectionReason
	cur.CancelReason = rental.CancelReason
	cur.UpdatedAt = rental.UpdatedAt
	r.j.record(func() {
		r.st.mu.Lock()
		*r.st.rentals[prev.ID] = prev
		r.st.mu.Unlock()
	})
	return nil
}

func (r *rentalRepository) list(match func(*domain.RentalRequest) bool) []domain.RentalRequest {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []domain.RentalRequest
	for _, rt := range r.st.rentals {
		if match(rt) {
			out = append(out, *rt)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].StartDate.Equal(out[k].StartDate) {
			return out[i].StartDate.Before(out[k].StartDate)
		}
		return out[i].ID < out[k].ID
	})
	return out
}

func (r *rentalRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.RentalRequest, error) {
	return r.list(func(rt *domain.RentalRequest) bool { return rt.EquipmentID == equipmentID }), nil
}

func (r *rentalRepository) ListStartingOn(ctx context.Context, day time.Time) ([]domain.RentalRequest, error) {
	return r.list(func(rt *domain.RentalRequest) bool {
		return rt.Status == domain.RentalStatusApproved && rt.StartDate.Equal(day)
	}), nil
}

func (r *rentalRepository) ListReturnDue(ctx context.Context, day time.Time) ([]domain.RentalRequest, error) {
	return r.list(func(rt *domain.RentalRequest) bool {
		return rt.Status == domain.RentalStatusActive && !rt.EndDate.After(day)
	}), nil
}
