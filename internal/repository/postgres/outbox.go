package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"

	"github.com/lib/pq"
)

type outboxRepository struct {
	q DBTX
}

func (r *outboxRepository) Enqueue(ctx context.Context, ev *domain.Event) error {
	attrs, err := json.Marshal(ev.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO outbox_events (id, kind, request_id, equipment_id, recipients, attributes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("INSERT", "outbox_events", "kind", ev.Kind, "requestID", ev.RequestID)
	_, err = r.q.ExecContext(ctx, query, ev.ID, string(ev.Kind), ev.RequestID, ev.EquipmentID,
		pq.Array(ev.Recipients), attrs, ev.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "eventID", ev.ID)
	return classify(err)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int, maxAttempts int32) ([]domain.Event, error) {
	query := `SELECT id, kind, request_id, equipment_id, recipients, attributes, created_at, attempts, last_error, delivered_channels
	          FROM outbox_events WHERE delivered_at IS NULL AND attempts < $2
	          ORDER BY created_at LIMIT $1`
	logger.DatabaseCall("SELECT", "outbox_events", "limit", limit)
	rows, err := r.q.QueryContext(ctx, query, limit, maxAttempts)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var ev domain.Event
		var kind string
		var attrs []byte
		var lastErr sql.NullString
		if err := rows.Scan(&ev.ID, &kind, &ev.RequestID, &ev.EquipmentID, pq.Array(&ev.Recipients), &attrs,
			&ev.CreatedAt, &ev.Attempts, &lastErr, pq.Array(&ev.DeliveredChannels)); err != nil {
			return nil, classify(err)
		}
		ev.Kind = domain.EventKind(kind)
		ev.LastError = lastErr.String
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &ev.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes of event %s: %w", ev.ID, err)
			}
		}
		out = append(out, ev)
	}
	logger.DatabaseResult("SELECT", int64(len(out)), rows.Err())
	return out, classify(rows.Err())
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE outbox_events SET delivered_at = $2 WHERE id = $1`
	logger.DatabaseCall("UPDATE", "outbox_events", "eventID", id, "operation", "delivered")
	_, err := r.q.ExecContext(ctx, query, id, at)
	logger.DatabaseResult("UPDATE", 1, err, "eventID", id)
	return classify(err)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string, deliveredChannels []string) error {
	if deliveredChannels == nil {
		deliveredChannels = []string{}
	}
	query := `UPDATE outbox_events SET attempts = attempts + 1, last_error = $2, delivered_channels = $3 WHERE id = $1`
	logger.DatabaseCall("UPDATE", "outbox_events", "eventID", id, "operation", "failed", "delivered", deliveredChannels)
	_, err := r.q.ExecContext(ctx, query, id, reason, pq.Array(deliveredChannels))
	logger.DatabaseResult("UPDATE", 1, err, "eventID", id)
	return classify(err)
}
