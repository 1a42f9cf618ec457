// Package handover issues and redeems the single-use codes that authorize a
// physical pickup or return of rented equipment.
package handover

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"

	"github.com/skip2/go-qrcode"
)

const (
	tokenBytes = 32
	qrScheme   = "farmrent://handover/"
)

type Service struct {
	tokens  repository.TokenRepository
	rentals repository.RentalRepository
	now     func() time.Time
}

// NewService binds the service to a set of repositories, usually the ones of
// an open transaction.
func NewService(tokens repository.TokenRepository, rentals repository.RentalRepository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{tokens: tokens, rentals: rentals, now: now}
}

func newTokenValue() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate handover token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Issue creates a fresh token and supersedes any earlier usable token of the
// same request and direction.
func (s *Service) Issue(ctx context.Context, requestID int64, direction domain.HandoverDirection) (*domain.HandoverToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return nil, err
	}
	tok := &domain.HandoverToken{
		Value:     value,
		RequestID: requestID,
		Direction: direction,
		IssuedAt:  s.now().UTC(),
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return nil, fmt.Errorf("issue %s token for request %d: %w", direction, requestID, err)
	}
	return tok, nil
}

// Resolve looks a token up without consuming it. Unknown tokens yield ErrTokenInvalid.
func (s *Service) Resolve(ctx context.Context, value string) (*domain.HandoverToken, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrTokenInvalid)
	}
	tok, err := s.tokens.GetByValue(ctx, value)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown token", domain.ErrTokenInvalid)
	}
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// Consume redeems a token of the given direction. It fails with
// ErrTokenInvalid when the token is unknown, used, superseded, of the other
// direction, or when the request is not in the phase the direction belongs to.
// The check and the mark are atomic in the repository.
func (s *Service) Consume(ctx context.Context, value string, direction domain.HandoverDirection) (*domain.HandoverToken, *domain.RentalRequest, error) {
	tok, err := s.Resolve(ctx, value)
	if err != nil {
		return nil, nil, err
	}
	if tok.Direction != direction {
		return nil, nil, fmt.Errorf("%w: %s token presented for %s", domain.ErrTokenInvalid, tok.Direction, direction)
	}
	rt, err := s.rentals.GetByID(ctx, tok.RequestID)
	if err != nil {
		return nil, nil, fmt.Errorf("load request %d: %w", tok.RequestID, err)
	}
	if rt.Status != direction.Phase() {
		return nil, nil, fmt.Errorf("%w: request %d is %s", domain.ErrTokenInvalid, rt.ID, rt.Status)
	}
	consumed, err := s.tokens.Consume(ctx, value, s.now().UTC())
	if err != nil {
		return nil, nil, err
	}
	return consumed, rt, nil
}

// Current returns the usable token of a request and direction, if any.
func (s *Service) Current(ctx context.Context, requestID int64, direction domain.HandoverDirection) (*domain.HandoverToken, error) {
	return s.tokens.Current(ctx, requestID, direction)
}

// Revoke supersedes any usable token of the request and direction.
func (s *Service) Revoke(ctx context.Context, requestID int64, direction domain.HandoverDirection) error {
	if err := s.tokens.Supersede(ctx, requestID, direction, s.now().UTC()); err != nil {
		return fmt.Errorf("revoke %s token of request %d: %w", direction, requestID, err)
	}
	return nil
}

// QRCode renders a token as a PNG for the farmer's phone.
func QRCode(value string, size int) ([]byte, error) {
	png, err := qrcode.Encode(qrScheme+value, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("render handover qr: %w", err)
	}
	return png, nil
}
