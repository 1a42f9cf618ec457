package memory

import (
	"context"
	"slices"
	"time"

	"farmrent-backend/internal/domain"
)

type outboxRepository struct {
	st *state
	j  *journal
}

func (r *outboxRepository) Enqueue(ctx context.Context, event *domain.Event) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	cp := *event
	r.st.outbox = append(r.st.outbox, &cp)
	id := cp.ID
	r.j.record(func() {
		r.st.mu.Lock()
		defer r.st.mu.Unlock()
		for i, e := range r.st.outbox {
			if e.ID == id {
				r.st.outbox = append(r.st.outbox[:i], r.st.outbox[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int, maxAttempts int32) ([]domain.Event, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []domain.Event
	for _, e := range r.st.outbox {
		if len(out) >= limit {
			break
		}
		if e.DeliveredAt == nil && e.Attempts < maxAttempts {
			cp := *e
			cp.DeliveredChannels = slices.Clone(e.DeliveredChannels)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *outboxRepository) find(id string) *domain.Event {
	for _, e := range r.st.outbox {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e := r.find(id)
	if e == nil {
		return notFound("outbox event", id)
	}
	ts := at
	e.DeliveredAt = &ts
	e.LastError = ""
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string, deliveredChannels []string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e := r.find(id)
	if e == nil {
		return notFound("outbox event", id)
	}
	e.Attempts++
	e.LastError = reason
	e.DeliveredChannels = slices.Clone(deliveredChannels)
	return nil
}
