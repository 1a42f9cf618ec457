package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
)

type rentalRepository struct {
	q DBTX
}

const rentalColumns = `id, equipment_id, owner_id, farmer_id, start_date, end_date, duration_days, price,
	total_amount_cents, security_deposit_cents, delivery_address, status, rejection_reason, cancel_reason,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*domain.RentalRequest, error) {
	rt := &domain.RentalRequest{}
	var price []byte
	var status string
	err := row.Scan(&rt.ID, &rt.EquipmentID, &rt.OwnerID, &rt.FarmerID, &rt.StartDate, &rt.EndDate, &rt.DurationDays, &price,
		&rt.TotalAmountCents, &rt.SecurityDepositCents, &rt.DeliveryAddress, &status, &rt.RejectionReason, &rt.CancelReason,
		&rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rt.Status, err = domain.ParseRentalStatus(status); err != nil {
		return nil, err
	}
	if len(price) > 0 {
		if err := json.Unmarshal(price, &rt.Price); err != nil {
			return nil, fmt.Errorf("decode price of request %d: %w", rt.ID, err)
		}
	}
	rt.StartDate, rt.EndDate = day(rt.StartDate), day(rt.EndDate)
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.RentalRequest) error {
	price, err := json.Marshal(rt.Price)
	if err != nil {
		return err
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}
	rt.UpdatedAt = rt.CreatedAt

	query := `INSERT INTO rental_requests (equipment_id, owner_id, farmer_id, start_date, end_date, duration_days, price,
	          total_amount_cents, security_deposit_cents, delivery_address, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	logger.DatabaseCall("INSERT", "rental_requests", "equipmentID", rt.EquipmentID, "farmerID", rt.FarmerID)
	err = r.q.QueryRowContext(ctx, query, rt.EquipmentID, rt.OwnerID, rt.FarmerID, rt.StartDate, rt.EndDate, rt.DurationDays, price,
		rt.TotalAmountCents, rt.SecurityDepositCents, rt.DeliveryAddress, string(rt.Status), rt.CreatedAt, rt.UpdatedAt).Scan(&rt.ID)
	logger.DatabaseResult("INSERT", 1, err, "requestID", rt.ID)
	return classify(err)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE id = $1`
	logger.DatabaseCall("SELECT", "rental_requests", "requestID", id)
	rt, err := scanRental(r.q.QueryRowContext(ctx, query, id))
	logger.DatabaseResult("SELECT", 1, err, "requestID", id)
	if err != nil {
		return nil, fmt.Errorf("rental request %d: %w", id, classify(err))
	}
	return rt, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, rt *domain.RentalRequest, from domain.RentalStatus) error {
	query := `UPDATE rental_requests SET status = $1, rejection_reason = $2, cancel_reason = $3, updated_at = $4
	          WHERE id = $5 AND status = $6`
	logger.DatabaseCall("UPDATE", "rental_requests", "requestID", rt.ID, "from", from, "to", rt.Status)
	res, err := r.q.ExecContext(ctx, query, string(rt.Status), rt.RejectionReason, rt.CancelReason, rt.UpdatedAt, rt.ID, string(from))
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "requestID", rt.ID)
		return classify(err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "requestID", rt.ID)
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: request %d is no longer %s", domain.ErrInvalidTransition, rt.ID, from)
	}
	return nil
}

func (r *rentalRepository) list(ctx context.Context, where string, args ...any) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE ` + where + ` ORDER BY start_date, id`
	logger.DatabaseCall("SELECT", "rental_requests", "where", where)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.RentalRequest
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, *rt)
	}
	logger.DatabaseResult("SELECT", int64(len(out)), rows.Err())
	return out, classify(rows.Err())
}

func (r *rentalRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.RentalRequest, error) {
	return r.list(ctx, `equipment_id = $1`, equipmentID)
}

func (r *rentalRepository) ListStartingOn(ctx context.Context, d time.Time) ([]domain.RentalRequest, error) {
	return r.list(ctx, `status = $1 AND start_date = $2`, string(domain.RentalStatusApproved), d)
}

func (r *rentalRepository) ListReturnDue(ctx context.Context, d time.Time) ([]domain.RentalRequest, error) {
	return r.list(ctx, `status = $1 AND end_date <= $2`, string(domain.RentalStatusActive), d)
}

var _ rowScanner = (*sql.Row)(nil)
