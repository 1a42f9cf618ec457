package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"farmrent-backend/internal/config"
	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/repository/memory"
	"farmrent-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	owner   = domain.Actor{ID: 10, Role: domain.RoleOwner}
	farmer  = domain.Actor{ID: 20, Role: domain.RoleFarmer}
)

type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Notify() {
	m.Called()
}

func (m *MockRelay) Flush(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newStore(t *testing.T) (*memory.Store, service.BookingService, *domain.RentalRequest) {
	t.Helper()
	store := memory.NewStore()
	store.PutEquipment(&domain.Equipment{ID: 1, OwnerID: owner.ID, Name: "Seeder", DailyRateCents: 1500, Listed: true})
	svc := service.NewBookingService(store, nil, service.WithClock(func() time.Time { return created }))

	ctx := context.Background()
	rt, err := svc.CreateRequest(ctx, farmer, service.CreateRequestInput{EquipmentID: 1, StartDate: "2025-06-01", EndDate: "2025-06-03"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, owner, rt.ID)
	require.NoError(t, err)
	_, err = svc.CreateRequest(ctx, farmer, service.CreateRequestInput{EquipmentID: 1, StartDate: "2025-06-05", EndDate: "2025-06-06"})
	require.NoError(t, err)
	return store, svc, rt
}

func reminders(t *testing.T, store *memory.Store, kind domain.EventKind) []domain.Event {
	t.Helper()
	pending, err := store.Outbox().ListPending(context.Background(), 100, 10)
	require.NoError(t, err)
	var out []domain.Event
	for _, ev := range pending {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestSendPickupReminders(t *testing.T) {
	store, _, rt := newStore(t)
	relay := new(MockRelay)
	relay.On("Notify").Return()

	jr := NewJobRunner(store, relay, &config.Config{})
	jr.now = func() time.Time { return time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC) }
	jr.SendPickupReminders()

	var startDay []domain.Event
	for _, ev := range reminders(t, store, domain.EventPickupReady) {
		if ev.Attributes["reminder"] == "start-day" {
			startDay = append(startDay, ev)
		}
	}
	require.Len(t, startDay, 1)
	assert.Equal(t, rt.ID, startDay[0].RequestID)
	assert.ElementsMatch(t, []int64{farmer.ID, owner.ID}, startDay[0].Recipients)
	assert.Equal(t, "Seeder", startDay[0].Attributes["equipment_name"])
	relay.AssertNumberOfCalls(t, "Notify", 1)
}

func TestSendPickupReminders_NothingDue(t *testing.T) {
	store, _, _ := newStore(t)
	relay := new(MockRelay)

	jr := NewJobRunner(store, relay, &config.Config{})
	jr.now = func() time.Time { return time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC) }
	jr.SendPickupReminders()

	relay.AssertNotCalled(t, "Notify")
}

func TestSendReturnDueReminders(t *testing.T) {
	store, svc, rt := newStore(t)
	ctx := context.Background()

	got, err := svc.GetRequest(ctx, farmer, rt.ID)
	require.NoError(t, err)
	_, err = svc.MarkPickedUp(ctx, got.PickupToken)
	require.NoError(t, err)

	relay := new(MockRelay)
	relay.On("Notify").Return()
	jr := NewJobRunner(store, relay, &config.Config{})

	jr.now = func() time.Time { return time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC) }
	jr.SendReturnDueReminders()
	assert.Empty(t, reminders(t, store, domain.EventReturnDue))

	jr.now = func() time.Time { return time.Date(2025, 6, 5, 7, 0, 0, 0, time.UTC) }
	jr.SendReturnDueReminders()
	due := reminders(t, store, domain.EventReturnDue)
	require.Len(t, due, 1)
	assert.Equal(t, "2", due[0].Attributes["days_overdue"])
	assert.Equal(t, string(domain.RentalStatusActive), due[0].Attributes["status"])
}

func TestRelayOutbox(t *testing.T) {
	relay := new(MockRelay)
	relay.On("Flush", mock.Anything).Return(3, nil).Once()
	relay.On("Flush", mock.Anything).Return(0, errors.New("kafka down")).Once()

	jr := NewJobRunner(memory.NewStore(), relay, &config.Config{})
	jr.RelayOutbox()
	jr.RelayOutbox()
	relay.AssertNumberOfCalls(t, "Flush", 2)
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(memory.NewStore(), nil, &config.Config{})
	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func(ctx context.Context) { panic("boom") })
	})
	assert.NotPanics(t, jr.RelayOutbox)
}

func TestRunWithRecovery_LogsServiceAndJob(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWithWriter(&buf, "info", "json")
	defer logger.Initialize("info", "text")

	jr := NewJobRunner(memory.NewStore(), nil, &config.Config{})
	jr.runWithRecovery("boom", func(ctx context.Context) { panic("boom") })

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var started, panicked map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &started))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &panicked))

	assert.Equal(t, "Starting job", started["msg"])
	assert.Equal(t, "cronjob", started["service"])
	assert.Equal(t, "boom", started["job"])
	assert.Equal(t, "Job panicked", panicked["msg"])
	assert.Equal(t, "boom", panicked["job"])
}
