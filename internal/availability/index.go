// Package availability answers which date ranges of an equipment are taken.
package availability

import (
	"context"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"
)

// Index is the per-equipment reservation calendar. Reserve is atomic in the
// underlying repository, so it stays correct even without an outer lock.
type Index struct {
	repo repository.ReservationRepository
}

func NewIndex(repo repository.ReservationRepository) *Index {
	return &Index{repo: repo}
}

// HasConflict reports whether any active reservation intersects r.
func (i *Index) HasConflict(ctx context.Context, equipmentID int64, r domain.DateRange) (bool, error) {
	found, err := i.repo.Overlapping(ctx, equipmentID, r)
	if err != nil {
		return false, fmt.Errorf("check availability of equipment %d: %w", equipmentID, err)
	}
	return len(found) > 0, nil
}

// Reserve claims r for a request or fails with ErrSlotConflict.
func (i *Index) Reserve(ctx context.Context, equipmentID int64, r domain.DateRange, requestID int64, at time.Time) error {
	res := &domain.Reservation{
		EquipmentID: equipmentID,
		RequestID:   requestID,
		StartDate:   r.Start,
		EndDate:     r.End,
		ReservedAt:  at,
	}
	if err := i.repo.Insert(ctx, res); err != nil {
		return fmt.Errorf("reserve equipment %d for request %d: %w", equipmentID, requestID, err)
	}
	return nil
}

// Release frees the request's range. Releasing twice is a no-op.
func (i *Index) Release(ctx context.Context, equipmentID, requestID int64, at time.Time) error {
	if err := i.repo.Release(ctx, equipmentID, requestID, at); err != nil {
		return fmt.Errorf("release equipment %d for request %d: %w", equipmentID, requestID, err)
	}
	return nil
}

// Reservations lists the active ranges of an equipment ordered by start date.
func (i *Index) Reservations(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	res, err := i.repo.ListActive(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list reservations of equipment %d: %w", equipmentID, err)
	}
	return res, nil
}
