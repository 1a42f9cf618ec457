package jobs

import (
	"context"
	"strconv"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/utils"
)

// SendPickupReminders reminds both parties of approved rentals starting today.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func(ctx context.Context) {
		today := utils.Day(jr.now())
		rentals, err := jr.store.Rentals().ListStartingOn(ctx, today)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to list rentals starting today", "error", err)
			return
		}
		sent := jr.remind(ctx, rentals, domain.EventPickupReady, func(rt *domain.RentalRequest, ev *domain.Event) {
			ev.With("reminder", "start-day")
		})
		logger.InfoContext(ctx, "Queued pickup reminders", "count", sent, "day", today.Format("2006-01-02"))
	})
}

// SendReturnDueReminders reminds both parties of active rentals whose end
// date is today or already behind them.
func (jr *JobRunner) SendReturnDueReminders() {
	jr.runWithRecovery("SendReturnDueReminders", func(ctx context.Context) {
		today := utils.Day(jr.now())
		rentals, err := jr.store.Rentals().ListReturnDue(ctx, today)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to list rentals due back", "error", err)
			return
		}
		sent := jr.remind(ctx, rentals, domain.EventReturnDue, func(rt *domain.RentalRequest, ev *domain.Event) {
			overdue := int(today.Sub(rt.EndDate).Hours() / 24)
			ev.With("days_overdue", strconv.Itoa(overdue))
		})
		logger.InfoContext(ctx, "Queued return-due reminders", "count", sent, "day", today.Format("2006-01-02"))
	})
}

func (jr *JobRunner) remind(ctx context.Context, rentals []domain.RentalRequest, kind domain.EventKind, decorate func(*domain.RentalRequest, *domain.Event)) int {
	names := make(map[int64]string)
	sent := 0
	for i := range rentals {
		rt := &rentals[i]
		name, ok := names[rt.EquipmentID]
		if !ok {
			eq, err := jr.store.Equipment().GetByID(ctx, rt.EquipmentID)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to load equipment for reminder", "request_id", rt.ID, "error", err)
				continue
			}
			name = eq.Name
			names[rt.EquipmentID] = name
		}

		ev := domain.NewEvent(kind, rt, name, jr.now(), rt.FarmerID, rt.OwnerID)
		decorate(rt, ev)
		if err := jr.store.Outbox().Enqueue(ctx, ev); err != nil {
			logger.ErrorContext(ctx, "Failed to queue reminder", "request_id", rt.ID, "kind", kind, "error", err)
			continue
		}
		logger.Debug("Queued reminder", "request_id", rt.ID, "kind", kind)
		sent++
	}
	if sent > 0 && jr.relay != nil {
		jr.relay.Notify()
	}
	return sent
}
