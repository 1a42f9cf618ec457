package postgres

import (
	"context"
	"fmt"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
)

type equipmentRepository struct {
	q DBTX
}

const equipmentColumns = `id, owner_id, name, daily_rate_cents, weekly_rate_cents, monthly_rate_cents,
	delivery_fee_cents, security_deposit_cents, listed, created_at, updated_at`

func (r *equipmentRepository) get(ctx context.Context, id int64, suffix string) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1` + suffix
	logger.DatabaseCall("SELECT", "equipment", "equipmentID", id, "forUpdate", suffix != "")

	e := &domain.Equipment{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.OwnerID, &e.Name, &e.DailyRateCents, &e.WeeklyRateCents,
		&e.MonthlyRateCents, &e.DeliveryFeeCents, &e.SecurityDepositCents, &e.Listed, &e.CreatedAt, &e.UpdatedAt)
	logger.DatabaseResult("SELECT", 1, err, "equipmentID", id)
	if err != nil {
		return nil, fmt.Errorf("equipment %d: %w", id, classify(err))
	}
	return e, nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	return r.get(ctx, id, "")
}

func (r *equipmentRepository) LockForUpdate(ctx context.Context, id int64) (*domain.Equipment, error) {
	return r.get(ctx, id, " FOR UPDATE")
}
