package handover_test

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/handover"
	"farmrent-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, status domain.RentalStatus) (*handover.Service, *domain.RentalRequest) {
	t.Helper()
	store := memory.NewStore()
	rt := &domain.RentalRequest{EquipmentID: 1, FarmerID: 2, Status: status}
	require.NoError(t, store.Rentals().Create(context.Background(), rt))
	return handover.NewService(store.Tokens(), store.Rentals(), nil), rt
}

func TestService_Issue(t *testing.T) {
	ctx := context.Background()
	svc, rt := setup(t, domain.RentalStatusApproved)

	first, err := svc.Issue(ctx, rt.ID, domain.HandoverPickup)
	require.NoError(t, err)
	assert.Len(t, first.Value, 43)

	second, err := svc.Issue(ctx, rt.ID, domain.HandoverPickup)
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, second.Value)

	_, _, err = svc.Consume(ctx, first.Value, domain.HandoverPickup)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid, "reissue supersedes")

	cur, err := svc.Current(ctx, rt.ID, domain.HandoverPickup)
	require.NoError(t, err)
	assert.Equal(t, second.Value, cur.Value)
}

func TestService_Consume(t *testing.T) {
	ctx := context.Background()

	t.Run("Twice", func(t *testing.T) {
		svc, rt := setup(t, domain.RentalStatusApproved)
		tok, err := svc.Issue(ctx, rt.ID, domain.HandoverPickup)
		require.NoError(t, err)

		consumed, got, err := svc.Consume(ctx, tok.Value, domain.HandoverPickup)
		require.NoError(t, err)
		assert.Equal(t, rt.ID, got.ID)
		assert.NotNil(t, consumed.ConsumedAt)

		_, _, err = svc.Consume(ctx, tok.Value, domain.HandoverPickup)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("Wrong phase", func(t *testing.T) {
		svc, rt := setup(t, domain.RentalStatusPending)
		tok, err := svc.Issue(ctx, rt.ID, domain.HandoverPickup)
		require.NoError(t, err)

		_, _, err = svc.Consume(ctx, tok.Value, domain.HandoverPickup)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("Wrong direction", func(t *testing.T) {
		svc, rt := setup(t, domain.RentalStatusActive)
		tok, err := svc.Issue(ctx, rt.ID, domain.HandoverReturn)
		require.NoError(t, err)

		_, _, err = svc.Consume(ctx, tok.Value, domain.HandoverPickup)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)

		_, _, err = svc.Consume(ctx, tok.Value, domain.HandoverReturn)
		assert.NoError(t, err)
	})

	t.Run("Unknown", func(t *testing.T) {
		svc, _ := setup(t, domain.RentalStatusApproved)
		_, _, err := svc.Consume(ctx, "forged", domain.HandoverPickup)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		_, _, err = svc.Consume(ctx, "", domain.HandoverPickup)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("Revoked", func(t *testing.T) {
		svc, rt := setup(t, domain.RentalStatusApproved)
		tok, err := svc.Issue(ctx, rt.ID, domain.HandoverPickup)
		require.NoError(t, err)
		require.NoError(t, svc.Revoke(ctx, rt.ID, domain.HandoverPickup))

		_, _, err = svc.Consume(ctx, tok.Value, domain.HandoverPickup)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestService_ConsumeConcurrently(t *testing.T) {
	ctx := context.Background()
	svc, rt := setup(t, domain.RentalStatusApproved)
	tok, err := svc.Issue(ctx, rt.ID, domain.HandoverPickup)
	require.NoError(t, err)

	var wins, invalid int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Consume(ctx, tok.Value, domain.HandoverPickup)
			if err == nil {
				atomic.AddInt32(&wins, 1)
			} else if assert.ErrorIs(t, err, domain.ErrTokenInvalid) {
				atomic.AddInt32(&invalid, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(7), invalid)
}

func TestQRCode(t *testing.T) {
	png, err := handover.QRCode("abc", 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
