package memory

import (
	"context"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
)

type tokenRepository struct {
	st *state
	j  *journal
}

// supersede must be called with st.mu held.
func (r *tokenRepository) supersede(requestID int64, direction domain.HandoverDirection, at time.Time) {
	for _, t := range r.st.tokens {
		if t.RequestID != requestID || t.Direction != direction || !t.Usable() {
			continue
		}
		tok := t
		ts := at
		tok.SupersededAt = &ts
		r.j.record(func() {
			r.st.mu.Lock()
			tok.SupersededAt = nil
			r.st.mu.Unlock()
		})
	}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.HandoverToken) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.tokens[token.Value]; exists {
		return fmt.Errorf("handover token collision for request %d", token.RequestID)
	}
	r.supersede(token.RequestID, token.Direction, token.IssuedAt)
	cp := *token
	r.st.tokens[cp.Value] = &cp
	value := cp.Value
	r.j.record(func() {
		r.st.mu.Lock()
		delete(r.st.tokens, value)
		r.st.mu.Unlock()
	})
	return nil
}

func (r *tokenRepository) GetByValue(ctx context.Context, value string) (*domain.HandoverToken, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	t, ok := r.st.tokens[value]
	if !ok {
		return nil, notFound("handover token", "")
	}
	cp := *t
	return &cp, nil
}

func (r *tokenRepository) Current(ctx context.Context, requestID int64, direction domain.HandoverDirection) (*domain.HandoverToken, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	for _, t := range r.st.tokens {
		if t.RequestID == requestID && t.Direction == direction && t.Usable() {
			cp := *t
			return &cp, nil
		}
	}
	return nil, notFound(fmt.Sprintf("%s token of request", direction), requestID)
}

func (r *tokenRepository) Consume(ctx context.Context, value string, at time.Time) (*domain.HandoverToken, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.tokens[value]
	if !ok || !t.Usable() {
		return nil, fmt.Errorf("%w: unknown or already used", domain.ErrTokenInvalid)
	}
	ts := at
	t.ConsumedAt = &ts
	r.j.record(func() {
		r.st.mu.Lock()
		t.ConsumedAt = nil
		r.st.mu.Unlock()
	})
	cp := *t
	return &cp, nil
}

func (r *tokenRepository) Supersede(ctx context.Context, requestID int64, direction domain.HandoverDirection, at time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.supersede(requestID, direction, at)
	return nil
}
