package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"farmrent-backend/internal/domain"
)

// equipmentSlots holds one equipment's reservations. active is kept sorted
// by start date and never contains two overlapping ranges.
type equipmentSlots struct {
	mu       sync.Mutex
	active   []domain.Reservation
	released []domain.Reservation
}

func (s *equipmentSlots) insertSorted(res domain.Reservation) {
	i := sort.Search(len(s.active), func(i int) bool {
		return s.active[i].StartDate.After(res.StartDate)
	})
	s.active = append(s.active, domain.Reservation{})
	copy(s.active[i+1:], s.active[i:])
	s.active[i] = res
}

func (s *equipmentSlots) removeActive(requestID int64) (domain.Reservation, bool) {
	for i, res := range s.active {
		if res.RequestID == requestID {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return res, true
		}
	}
	return domain.Reservation{}, false
}

type reservationRepository struct {
	st *state
	j  *journal
}

func (r *reservationRepository) slots(equipmentID int64) *equipmentSlots {
	r.st.slotsMu.Lock()
	defer r.st.slotsMu.Unlock()
	s, ok := r.st.slots[equipmentID]
	if !ok {
		s = &equipmentSlots{}
		r.st.slots[equipmentID] = s
	}
	return s
}

func (r *reservationRepository) Overlapping(ctx context.Context, equipmentID int64, rng domain.DateRange) ([]domain.Reservation, error) {
	s := r.slots(equipmentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, res := range s.active {
		if res.Range().Overlaps(rng) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *reservationRepository) Insert(ctx context.Context, res *domain.Reservation) error {
	s := r.slots(res.EquipmentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.active {
		if cur.Range().Overlaps(res.Range()) {
			return fmt.Errorf("%w: equipment %d already reserved by request %d", domain.ErrSlotConflict, res.EquipmentID, cur.RequestID)
		}
	}
	stored := *res
	stored.ReleasedAt = nil
	s.insertSorted(stored)
	r.j.record(func() {
		s.mu.Lock()
		s.removeActive(stored.RequestID)
		s.mu.Unlock()
	})
	return nil
}

func (r *reservationRepository) Release(ctx context.Context, equipmentID, requestID int64, at time.Time) error {
	s := r.slots(equipmentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.removeActive(requestID)
	if !ok {
		return nil
	}
	released := at
	res.ReleasedAt = &released
	s.released = append(s.released, res)
	r.j.record(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(s.released) - 1; i >= 0; i-- {
			if s.released[i].RequestID == requestID {
				s.released = append(s.released[:i], s.released[i+1:]...)
				break
			}
		}
		res.ReleasedAt = nil
		s.insertSorted(res)
	})
	return nil
}

func (r *reservationRepository) ListActive(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	s := r.slots(equipmentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reservation, len(s.active))
	copy(out, s.active)
	return out, nil
}
