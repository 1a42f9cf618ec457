package app

import (
	"context"
	"testing"

	"farmrent-backend/internal/config"
	"farmrent-backend/internal/lock"
	"farmrent-backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{Store: "memory", Lock: "local", OutboxBatchSize: 10, OutboxMaxAttempts: 3},
		Log:     config.LogConfig{Level: "info"},
	}
}

func TestOpenBackend_Memory(t *testing.T) {
	b, err := OpenBackend(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.Nil(t, b.DB)
	assert.NoError(t, b.PingContext(context.Background()))
	assert.NoError(t, b.Close())
}

func TestOpenBackend_Unknown(t *testing.T) {
	cfg := memoryConfig()
	cfg.Booking.Store = "sqlite"
	_, err := OpenBackend(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewLocker_Local(t *testing.T) {
	l, closeFn, err := NewLocker(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.IsType(t, &lock.KeyedMutex{}, l)
	assert.NoError(t, closeFn())
}

func TestNewDispatcher(t *testing.T) {
	b, err := OpenBackend(context.Background(), memoryConfig())
	require.NoError(t, err)

	t.Run("in-app only", func(t *testing.T) {
		d, closeFn := NewDispatcher(memoryConfig(), b)
		require.IsType(t, notify.Multi{}, d)
		assert.Len(t, d.(notify.Multi), 1)
		assert.NoError(t, closeFn())
	})

	t.Run("every channel", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Kafka = config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "events"}
		cfg.SendGrid = config.SendGridConfig{APIKey: "SG.test", FromEmail: "bookings@farmrent.example"}
		cfg.Log.Level = "debug"

		d, closeFn := NewDispatcher(cfg, b)
		names := []string{}
		for _, c := range d.(notify.Multi) {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"in_app", "kafka", "sendgrid", "log"}, names)
		assert.NoError(t, closeFn())
	})
}

func TestNewRelay(t *testing.T) {
	b, err := OpenBackend(context.Background(), memoryConfig())
	require.NoError(t, err)
	d, _ := NewDispatcher(memoryConfig(), b)

	n, err := NewRelay(memoryConfig(), b, d).Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
