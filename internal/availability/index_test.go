package availability_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"farmrent-backend/internal/availability"
	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository/memory"
	"farmrent-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := utils.ParseRange(start, end)
	require.NoError(t, err)
	return r
}

func TestIndex(t *testing.T) {
	ctx := context.Background()
	idx := availability.NewIndex(memory.NewStore().Reservations())
	now := time.Now()

	require.NoError(t, idx.Reserve(ctx, 1, rng(t, "2025-06-01", "2025-06-05"), 10, now))

	t.Run("HasConflict", func(t *testing.T) {
		hit, err := idx.HasConflict(ctx, 1, rng(t, "2025-06-05", "2025-06-09"))
		require.NoError(t, err)
		assert.True(t, hit)

		hit, err = idx.HasConflict(ctx, 1, rng(t, "2025-06-06", "2025-06-09"))
		require.NoError(t, err)
		assert.False(t, hit)

		hit, err = idx.HasConflict(ctx, 2, rng(t, "2025-06-01", "2025-06-05"))
		require.NoError(t, err)
		assert.False(t, hit, "other equipment is independent")
	})

	t.Run("Reserve conflict", func(t *testing.T) {
		err := idx.Reserve(ctx, 1, rng(t, "2025-06-03", "2025-06-07"), 11, now)
		assert.ErrorIs(t, err, domain.ErrSlotConflict)
	})

	t.Run("Release is idempotent", func(t *testing.T) {
		require.NoError(t, idx.Release(ctx, 1, 10, now))
		require.NoError(t, idx.Release(ctx, 1, 10, now))
		require.NoError(t, idx.Release(ctx, 1, 404, now))

		res, err := idx.Reservations(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, res)

		assert.NoError(t, idx.Reserve(ctx, 1, rng(t, "2025-06-03", "2025-06-07"), 11, now))
	})
}

func TestIndex_ConcurrentReserve(t *testing.T) {
	ctx := context.Background()
	idx := availability.NewIndex(memory.NewStore().Reservations())

	r := rng(t, "2025-07-01", "2025-07-03")
	const n = 16
	var ok, conflicts int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(reqID int64) {
			defer wg.Done()
			err := idx.Reserve(ctx, 3, r, reqID, time.Now())
			if err == nil {
				atomic.AddInt32(&ok, 1)
			} else if assert.ErrorIs(t, err, domain.ErrSlotConflict) {
				atomic.AddInt32(&conflicts, 1)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(n-1), conflicts)
}
