// Package app assembles the booking engine from configuration. Both the
// server and the cron runner are built from it.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"farmrent-backend/internal/config"
	"farmrent-backend/internal/lock"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/notify"
	"farmrent-backend/internal/repository"
	"farmrent-backend/internal/repository/memory"
	"farmrent-backend/internal/repository/postgres"

	"github.com/redis/go-redis/v9"
)

// Backend is the persistence selected by booking.store.
type Backend struct {
	Store         repository.Store
	Notifications repository.NotificationRepository
	Contacts      repository.ContactRepository
	DB            *sql.DB // nil for the memory store
}

func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Booking.Store {
	case "memory":
		logger.Warn("Using the in-memory store; data is lost on restart")
		st := memory.NewStore()
		return &Backend{Store: st, Notifications: st.Notifications(), Contacts: st.Contacts()}, nil
	case "postgres":
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(),
			cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.ConnMaxLifetime())
		if err != nil {
			return nil, err
		}
		logger.Info("Database connection established")
		st := postgres.NewStore(db)
		return &Backend{Store: st, Notifications: st.Notifications(), Contacts: st.Contacts(), DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown booking store %q", cfg.Booking.Store)
	}
}

// PingContext reports database reachability; the memory store is always up.
func (b *Backend) PingContext(ctx context.Context) error {
	if b.DB == nil {
		return nil
	}
	return b.DB.PingContext(ctx)
}

func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// NewLocker returns the equipment lock selected by booking.lock and a func
// releasing its resources.
func NewLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func() error, error) {
	if cfg.Booking.Lock != "redis" {
		return lock.NewKeyedMutex(), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("Using redis equipment lock", "addr", cfg.Redis.Addr, "ttl", cfg.LockTTL())
	return lock.NewRedisLocker(client, "farmrent:lock:", cfg.LockTTL(), cfg.LockRetry()), client.Close, nil
}

// NewDispatcher fans events out to every configured channel. In-app
// notifications are always on; Kafka and email only when configured.
func NewDispatcher(cfg *config.Config, b *Backend) (notify.Dispatcher, func() error) {
	channels := notify.Multi{notify.NewInApp(b.Notifications)}
	closers := []func() error{}

	if len(cfg.Kafka.Brokers) > 0 {
		k := notify.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		channels = append(channels, k)
		closers = append(closers, k.Close)
		logger.Info("Kafka event publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	if cfg.SendGrid.APIKey != "" {
		channels = append(channels, notify.NewEmail(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, b.Contacts))
		logger.Info("SendGrid email notifications enabled", "from", cfg.SendGrid.FromEmail)
	}
	if cfg.Log.Level == "debug" {
		channels = append(channels, notify.Log{})
	}

	return channels, func() error {
		var firstErr error
		for _, c := range closers {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
}

// NewRelay builds the outbox relay for b using cfg's batch settings.
func NewRelay(cfg *config.Config, b *Backend, dispatcher notify.Dispatcher) *notify.Relay {
	return notify.NewRelay(b.Store.Outbox(), dispatcher, cfg.Booking.OutboxBatchSize, cfg.Booking.OutboxMaxAttempts)
}
