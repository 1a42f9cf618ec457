package postgres

import (
	"context"
	"database/sql"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
)

// reservationRepository relies on the reservations_no_overlap exclusion
// constraint, so Insert needs no separate overlap query.
type reservationRepository struct {
	q DBTX
}

const reservationColumns = `equipment_id, request_id, start_date, end_date, reserved_at, released_at`

func (r *reservationRepository) query(ctx context.Context, where string, args ...any) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + where + ` ORDER BY start_date`
	logger.DatabaseCall("SELECT", "reservations", "where", where)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		var released sql.NullTime
		if err := rows.Scan(&res.EquipmentID, &res.RequestID, &res.StartDate, &res.EndDate, &res.ReservedAt, &released); err != nil {
			return nil, classify(err)
		}
		res.StartDate, res.EndDate = day(res.StartDate), day(res.EndDate)
		res.ReleasedAt = nullTime(released)
		out = append(out, res)
	}
	logger.DatabaseResult("SELECT", int64(len(out)), rows.Err())
	return out, classify(rows.Err())
}

func (r *reservationRepository) Overlapping(ctx context.Context, equipmentID int64, dr domain.DateRange) ([]domain.Reservation, error) {
	return r.query(ctx, `equipment_id = $1 AND released_at IS NULL AND start_date <= $3 AND end_date >= $2`,
		equipmentID, dr.Start, dr.End)
}

func (r *reservationRepository) Insert(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `) VALUES ($1, $2, $3, $4, $5, NULL)`
	logger.DatabaseCall("INSERT", "reservations", "equipmentID", res.EquipmentID, "requestID", res.RequestID)
	_, err := r.q.ExecContext(ctx, query, res.EquipmentID, res.RequestID, res.StartDate, res.EndDate, res.ReservedAt)
	logger.DatabaseResult("INSERT", 1, err, "requestID", res.RequestID)
	return classify(err)
}

func (r *reservationRepository) Release(ctx context.Context, equipmentID, requestID int64, at time.Time) error {
	query := `UPDATE reservations SET released_at = $3
	          WHERE equipment_id = $1 AND request_id = $2 AND released_at IS NULL`
	logger.DatabaseCall("UPDATE", "reservations", "equipmentID", equipmentID, "requestID", requestID)
	res, err := r.q.ExecContext(ctx, query, equipmentID, requestID, at)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return classify(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "requestID", requestID)
	return nil
}

func (r *reservationRepository) ListActive(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	return r.query(ctx, `equipment_id = $1 AND released_at IS NULL`, equipmentID)
}
