package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
)

type tokenRepository struct {
	q DBTX
}

const tokenColumns = `value, request_id, direction, issued_at, consumed_at, superseded_at`

func scanToken(row rowScanner) (*domain.HandoverToken, error) {
	t := &domain.HandoverToken{}
	var direction string
	var consumed, superseded sql.NullTime
	if err := row.Scan(&t.Value, &t.RequestID, &direction, &t.IssuedAt, &consumed, &superseded); err != nil {
		return nil, err
	}
	d, err := domain.ParseHandoverDirection(direction)
	if err != nil {
		return nil, err
	}
	t.Direction = d
	t.ConsumedAt = nullTime(consumed)
	t.SupersededAt = nullTime(superseded)
	return t, nil
}

func (r *tokenRepository) Create(ctx context.Context, t *domain.HandoverToken) error {
	if err := r.Supersede(ctx, t.RequestID, t.Direction, t.IssuedAt); err != nil {
		return err
	}
	query := `INSERT INTO handover_tokens (value, request_id, direction, issued_at) VALUES ($1, $2, $3, $4)`
	logger.DatabaseCall("INSERT", "handover_tokens", "requestID", t.RequestID, "direction", t.Direction)
	_, err := r.q.ExecContext(ctx, query, t.Value, t.RequestID, string(t.Direction), t.IssuedAt)
	logger.DatabaseResult("INSERT", 1, err, "requestID", t.RequestID)
	return classify(err)
}

func (r *tokenRepository) GetByValue(ctx context.Context, value string) (*domain.HandoverToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM handover_tokens WHERE value = $1`
	logger.DatabaseCall("SELECT", "handover_tokens")
	t, err := scanToken(r.q.QueryRowContext(ctx, query, value))
	logger.DatabaseResult("SELECT", 1, err)
	if err != nil {
		return nil, fmt.Errorf("handover token: %w", classify(err))
	}
	return t, nil
}

func (r *tokenRepository) Current(ctx context.Context, requestID int64, direction domain.HandoverDirection) (*domain.HandoverToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM handover_tokens
	          WHERE request_id = $1 AND direction = $2 AND consumed_at IS NULL AND superseded_at IS NULL
	          ORDER BY issued_at DESC LIMIT 1`
	logger.DatabaseCall("SELECT", "handover_tokens", "requestID", requestID, "direction", direction)
	t, err := scanToken(r.q.QueryRowContext(ctx, query, requestID, string(direction)))
	logger.DatabaseResult("SELECT", 1, err, "requestID", requestID)
	if err != nil {
		return nil, fmt.Errorf("%s token of request %d: %w", direction, requestID, classify(err))
	}
	return t, nil
}

func (r *tokenRepository) Consume(ctx context.Context, value string, at time.Time) (*domain.HandoverToken, error) {
	query := `UPDATE handover_tokens SET consumed_at = $2
	          WHERE value = $1 AND consumed_at IS NULL AND superseded_at IS NULL
	          RETURNING ` + tokenColumns
	logger.DatabaseCall("UPDATE", "handover_tokens", "operation", "consume")
	t, err := scanToken(r.q.QueryRowContext(ctx, query, value, at))
	logger.DatabaseResult("UPDATE", 1, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: token is unknown or already used", domain.ErrTokenInvalid)
	}
	if err != nil {
		return nil, classify(err)
	}
	return t, nil
}

func (r *tokenRepository) Supersede(ctx context.Context, requestID int64, direction domain.HandoverDirection, at time.Time) error {
	query := `UPDATE handover_tokens SET superseded_at = $3
	          WHERE request_id = $1 AND direction = $2 AND consumed_at IS NULL AND superseded_at IS NULL`
	logger.DatabaseCall("UPDATE", "handover_tokens", "requestID", requestID, "direction", direction, "operation", "supersede")
	res, err := r.q.ExecContext(ctx, query, requestID, string(direction), at)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return classify(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "requestID", requestID)
	return nil
}
