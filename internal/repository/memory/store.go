// Package memory is an in-process implementation of the booking repositories.
// Transactions are emulated with an undo journal; isolation between
// concurrent transactions relies on the caller holding the equipment lock.
package memory

import (
	"context"
	"sync"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"
)

type journal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *journal) record(f func()) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.undo = append(j.undo, f)
	j.mu.Unlock()
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type state struct {
	mu         sync.RWMutex
	equipment  map[int64]*domain.Equipment
	rentals    map[int64]*domain.RentalRequest
	nextRental int64
	tokens     map[string]*domain.HandoverToken
	outbox     []*domain.Event

	notifications []domain.Notification
	contacts      map[int64]domain.Contact

	slotsMu sync.Mutex
	slots   map[int64]*equipmentSlots
}

// Store is safe for concurrent use. The zero value is not usable; call NewStore.
type Store struct {
	st *state
	j  *journal
}

func NewStore() *Store {
	return &Store{st: &state{
		equipment: make(map[int64]*domain.Equipment),
		rentals:   make(map[int64]*domain.RentalRequest),
		tokens:    make(map[string]*domain.HandoverToken),
		slots:     make(map[int64]*equipmentSlots),
		contacts:  make(map[int64]domain.Contact),
	}}
}

// PutEquipment inserts or replaces an equipment row. Equipment is owned by
// the listing subsystem, so this is only a seeding hook.
func (s *Store) PutEquipment(e *domain.Equipment) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cp := *e
	s.st.equipment[e.ID] = &cp
}

func (s *Store) Equipment() repository.EquipmentRepository {
	return &equipmentRepository{st: s.st}
}

func (s *Store) Rentals() repository.RentalRepository {
	return &rentalRepository{st: s.st, j: s.j}
}

func (s *Store) Reservations() repository.ReservationRepository {
	return &reservationRepository{st: s.st, j: s.j}
}

func (s *Store) Tokens() repository.TokenRepository {
	return &tokenRepository{st: s.st, j: s.j}
}

func (s *Store) Outbox() repository.OutboxRepository {
	return &outboxRepository{st: s.st, j: s.j}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.j != nil {
		return fn(ctx, s)
	}
	j := &journal{}
	if err := fn(ctx, &Store{st: s.st, j: j}); err != nil {
		j.rollback()
		return err
	}
	return nil
}

type equipmentRepository struct {
	st *state
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	e, ok := r.st.equipment[id]
	if !ok {
		return nil, notFound("equipment", id)
	}
	cp := *e
	return &cp, nil
}

func (r *equipmentRepository) LockForUpdate(ctx context.Context, id int64) (*domain.Equipment, error) {
	return r.GetByID(ctx, id)
}
