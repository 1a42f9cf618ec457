package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
booking:
  store: memory
jwt:
  secret: ` + secret))
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.Server.HTTPPort)
	assert.Equal(t, "local", cfg.Booking.Lock)
	assert.Equal(t, 100, cfg.Booking.OutboxBatchSize)
	assert.Equal(t, int32(10), cfg.Booking.OutboxMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.RelayInterval())
	assert.Equal(t, 10*time.Second, cfg.LockTTL())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0 0 6 * * *", cfg.Scheduler.SendPickupReminders)
	assert.Equal(t, "FarmRent", cfg.SendGrid.FromName)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("BOOKING_LOCK", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse([]byte(`
server:
  port: 9090
database:
  host: localhost
  port: 5432
  user: farmrent
  database: farmrent
jwt:
  secret: ` + secret))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "postgres://farmrent:@db.internal:6543/farmrent?sslmode=disable", cfg.GetDatabaseConnectionString())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "farmrent.rental-events", cfg.Kafka.Topic)
	assert.Equal(t, "redis", cfg.Booking.Lock)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server: {port: 0}\nbooking: {store: memory}\njwt: {secret: " + secret + "}"},
		{"missing database", "server: {port: 9090}\njwt: {secret: " + secret + "}"},
		{"short secret", "server: {port: 9090}\nbooking: {store: memory}\njwt: {secret: short}"},
		{"unknown store", "server: {port: 9090}\nbooking: {store: sqlite}\njwt: {secret: " + secret + "}"},
		{"redis lock without addr", "server: {port: 9090}\nbooking: {store: memory, lock: redis}\njwt: {secret: " + secret + "}"},
		{"sendgrid without sender", "server: {port: 9090}\nbooking: {store: memory}\nsendgrid: {api_key: SG.x}\njwt: {secret: " + secret + "}"},
		{"same ports", "server: {port: 9090, http_port: 9090}\nbooking: {store: memory}\njwt: {secret: " + secret + "}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("example config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data, err := os.ReadFile("../../config/config.example.yaml")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
		assert.Equal(t, "0.0.0.0:8080", cfg.GetHTTPAddress())
	})
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("/farmrent.booking.v1.BookingService/MarkPickedUp"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/farmrent.booking.v1.BookingService/ApproveRentalRequest"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/farmrent.booking.v1.BookingService/Unknown"))
}
