package postgres

import (
	"context"
	"fmt"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
)

type contactRepository struct {
	q DBTX
}

func (r *contactRepository) GetContact(ctx context.Context, userID int64) (*domain.Contact, error) {
	query := `SELECT id, name, email FROM users WHERE id = $1`
	logger.DatabaseCall("SELECT", "users", "userID", userID)
	c := &domain.Contact{}
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&c.UserID, &c.Name, &c.Email)
	logger.DatabaseResult("SELECT", 1, err, "userID", userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, classify(err))
	}
	return c, nil
}
