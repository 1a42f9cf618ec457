package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB // nil inside a transaction
	q  DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(fmt.Errorf("ping database: %w", err))
	}
	return db, nil
}

func (s *Store) Equipment() repository.EquipmentRepository {
	return &equipmentRepository{q: s.q}
}

func (s *Store) Rentals() repository.RentalRepository {
	return &rentalRepository{q: s.q}
}

func (s *Store) Reservations() repository.ReservationRepository {
	return &reservationRepository{q: s.q}
}

func (s *Store) Tokens() repository.TokenRepository {
	return &tokenRepository{q: s.q}
}

func (s *Store) Outbox() repository.OutboxRepository {
	return &outboxRepository{q: s.q}
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{q: s.q}
}

func (s *Store) Contacts() repository.ContactRepository {
	return &contactRepository{q: s.q}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(ctx, &Store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// classify maps driver errors onto domain error kinds. Unrecognised errors
// are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23P01":
			return fmt.Errorf("%w: %s", domain.ErrSlotConflict, pqErr.Message)
		case pqErr.Code.Class() == "08", pqErr.Code.Class() == "57",
			pqErr.Code == "40001", pqErr.Code == "40P01":
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return err
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// day drops the time of day the driver attaches to DATE columns.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
