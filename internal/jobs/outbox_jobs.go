package jobs

import (
	"context"

	"farmrent-backend/internal/logger"
)

// RelayOutbox retries pending outbox events, covering events whose
// immediate dispatch failed or whose process stopped before dispatching.
func (jr *JobRunner) RelayOutbox() {
	jr.runWithRecovery("RelayOutbox", func(ctx context.Context) {
		if jr.relay == nil {
			return
		}
		delivered, err := jr.relay.Flush(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Outbox relay failed", "delivered", delivered, "error", err)
			return
		}
		logger.InfoContext(ctx, "Outbox relayed", "delivered", delivered)
	})
}
