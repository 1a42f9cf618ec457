package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	api "farmrent-backend/internal/api/grpc"
	"farmrent-backend/internal/api/grpc/interceptor"
	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository/memory"
	"farmrent-backend/internal/security"
	"farmrent-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const jwtSecret = "0123456789abcdef0123456789abcdef"

var today = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

type harness struct {
	client *api.BookingClient
	store  *memory.Store
	tokens security.TokenManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	store.PutEquipment(&domain.Equipment{
		ID: 1, OwnerID: 10, Name: "Tractor",
		DailyRateCents: 1000, WeeklyRateCents: 6000, DeliveryFeeCents: 500, SecurityDepositCents: 20000,
		Listed: true,
	})

	tm := security.NewTokenManager(jwtSecret)
	bookingSvc := service.NewBookingService(store, nil, service.WithClock(func() time.Time { return today }))
	noteSvc := service.NewNotificationService(store.Notifications())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptor.Logging(),
		interceptor.NewAuthInterceptor(tm).Unary(),
	))
	api.RegisterBookingServiceServer(srv, api.NewBookingHandler(bookingSvc))
	api.RegisterNotificationServiceServer(srv, api.NewNotificationHandler(noteSvc))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &harness{client: api.NewBookingClient(conn), store: store, tokens: tm}
}

func (h *harness) as(t *testing.T, userID int64, role domain.Role) context.Context {
	t.Helper()
	token, err := h.tokens.GenerateAccessToken(userID, role, time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestBookingService_HandoverFlow(t *testing.T) {
	h := newHarness(t)
	farmerCtx := h.as(t, 20, domain.RoleFarmer)
	ownerCtx := h.as(t, 10, domain.RoleOwner)

	created, err := h.client.CreateRentalRequest(farmerCtx, &api.CreateRentalRequestRequest{
		EquipmentID: 1, StartDate: "2025-06-01", EndDate: "2025-06-10", DeliveryAddress: "North field",
	})
	require.NoError(t, err)
	rt := created.RentalRequest
	assert.Equal(t, "PENDING", rt.Status)
	assert.Equal(t, int32(10), rt.RentalDuration)
	assert.Equal(t, int64(9500), rt.TotalAmountCents)
	assert.Equal(t, int64(20000), rt.SecurityDepositCents)

	approved, err := h.client.ApproveRentalRequest(ownerCtx, &api.RentalRequestIDRequest{RequestID: rt.ID})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.RentalRequest.Status)
	assert.Empty(t, approved.RentalRequest.PickupToken, "owner must not receive the farmer's code")

	got, err := h.client.GetRentalRequest(farmerCtx, &api.RentalRequestIDRequest{RequestID: rt.ID})
	require.NoError(t, err)
	pickup := got.RentalRequest.PickupToken
	require.NotEmpty(t, pickup)

	active, err := h.client.MarkPickedUp(context.Background(), &api.HandoverRequest{Token: pickup})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", active.RentalRequest.Status)
	assert.Empty(t, active.RentalRequest.ReturnToken)

	var trailer metadata.MD
	_, err = h.client.MarkPickedUp(context.Background(), &api.HandoverRequest{Token: pickup}, grpc.Trailer(&trailer))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.Equal(t, []string{"token_invalid"}, trailer.Get(api.ErrorKindKey))

	got, err = h.client.GetRentalRequest(farmerCtx, &api.RentalRequestIDRequest{RequestID: rt.ID})
	require.NoError(t, err)
	require.NotEmpty(t, got.RentalRequest.ReturnToken)

	returned, err := h.client.MarkReturned(context.Background(), &api.HandoverRequest{Token: got.RentalRequest.ReturnToken})
	require.NoError(t, err)
	assert.Equal(t, "RETURNED", returned.RentalRequest.Status)

	avail, err := h.client.GetAvailability(context.Background(), &api.EquipmentRequest{EquipmentID: 1})
	require.NoError(t, err)
	assert.Empty(t, avail.Reservations)
}

func TestBookingService_Errors(t *testing.T) {
	h := newHarness(t)
	farmerCtx := h.as(t, 20, domain.RoleFarmer)
	ownerCtx := h.as(t, 10, domain.RoleOwner)

	t.Run("missing token", func(t *testing.T) {
		_, err := h.client.CreateRentalRequest(context.Background(), &api.CreateRentalRequestRequest{EquipmentID: 1})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("forged identity header is ignored", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), "user-id", "10", "user-role", "admin")
		_, err := h.client.ApproveRentalRequest(ctx, &api.RentalRequestIDRequest{RequestID: 1})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("past dates", func(t *testing.T) {
		_, err := h.client.CreateRentalRequest(farmerCtx, &api.CreateRentalRequestRequest{EquipmentID: 1, StartDate: "2025-05-01", EndDate: "2025-05-03"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := h.client.ApproveRentalRequest(ownerCtx, &api.RentalRequestIDRequest{RequestID: 404})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	created, err := h.client.CreateRentalRequest(farmerCtx, &api.CreateRentalRequestRequest{EquipmentID: 1, StartDate: "2025-06-01", EndDate: "2025-06-03"})
	require.NoError(t, err)
	id := created.RentalRequest.ID

	t.Run("farmer cannot approve", func(t *testing.T) {
		_, err := h.client.ApproveRentalRequest(farmerCtx, &api.RentalRequestIDRequest{RequestID: id})
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("slot conflict", func(t *testing.T) {
		other, err := h.client.CreateRentalRequest(h.as(t, 21, domain.RoleFarmer), &api.CreateRentalRequestRequest{EquipmentID: 1, StartDate: "2025-06-02", EndDate: "2025-06-04"})
		require.NoError(t, err)
		_, err = h.client.ApproveRentalRequest(ownerCtx, &api.RentalRequestIDRequest{RequestID: id})
		require.NoError(t, err)
		_, err = h.client.ApproveRentalRequest(ownerCtx, &api.RentalRequestIDRequest{RequestID: other.RentalRequest.ID})
		assert.Equal(t, codes.Aborted, status.Code(err))
	})

	t.Run("re-approve", func(t *testing.T) {
		_, err := h.client.ApproveRentalRequest(ownerCtx, &api.RentalRequestIDRequest{RequestID: id})
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("bad direction", func(t *testing.T) {
		_, err := h.client.ReissueHandoverToken(farmerCtx, &api.ReissueHandoverTokenRequest{RequestID: id, Direction: "sideways"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestBookingService_ReissueVisibility(t *testing.T) {
	h := newHarness(t)
	farmerCtx := h.as(t, 20, domain.RoleFarmer)
	ownerCtx := h.as(t, 10, domain.RoleOwner)

	created, err := h.client.CreateRentalRequest(farmerCtx, &api.CreateRentalRequestRequest{EquipmentID: 1, StartDate: "2025-06-01", EndDate: "2025-06-01"})
	require.NoError(t, err)
	id := created.RentalRequest.ID
	_, err = h.client.ApproveRentalRequest(ownerCtx, &api.RentalRequestIDRequest{RequestID: id})
	require.NoError(t, err)

	byOwner, err := h.client.ReissueHandoverToken(ownerCtx, &api.ReissueHandoverTokenRequest{RequestID: id, Direction: "pickup"})
	require.NoError(t, err)
	assert.Empty(t, byOwner.HandoverToken.Token)

	byFarmer, err := h.client.ReissueHandoverToken(farmerCtx, &api.ReissueHandoverTokenRequest{RequestID: id, Direction: "pickup"})
	require.NoError(t, err)
	assert.NotEmpty(t, byFarmer.HandoverToken.Token)

	list, err := h.client.ListEquipmentRequests(ownerCtx, &api.EquipmentRequest{EquipmentID: 1})
	require.NoError(t, err)
	require.Len(t, list.RentalRequests, 1)
	assert.Empty(t, list.RentalRequests[0].PickupToken)
}

func TestBookingService_PublicQuote(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.QuotePrice(context.Background(), &api.QuotePriceRequest{EquipmentID: 1, StartDate: "2025-06-01", EndDate: "2025-06-07"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), resp.Price.Weeks)
	assert.Equal(t, int64(6500), resp.Price.TotalCents)

	_, err = h.client.QuotePrice(context.Background(), &api.QuotePriceRequest{EquipmentID: 1, StartDate: "2025-06-07", EndDate: "2025-06-01"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNotificationService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, title := range []string{"Request sent", "Request approved"} {
		require.NoError(t, h.store.Notifications().Create(ctx, &domain.Notification{UserID: 20, Title: title, Message: title, CreatedAt: today}))
	}
	require.NoError(t, h.store.Notifications().Create(ctx, &domain.Notification{UserID: 10, Title: "Someone else's", CreatedAt: today}))

	farmerCtx := h.as(t, 20, domain.RoleFarmer)
	resp, err := h.client.GetNotifications(farmerCtx, &api.GetNotificationsRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(2), resp.TotalCount)
	require.Len(t, resp.Notifications, 2)

	_, err = h.client.MarkNotificationRead(farmerCtx, &api.MarkNotificationReadRequest{NotificationID: resp.Notifications[0].ID})
	assert.NoError(t, err)

	_, err = h.client.MarkNotificationRead(h.as(t, 30, domain.RoleFarmer), &api.MarkNotificationReadRequest{NotificationID: resp.Notifications[0].ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
