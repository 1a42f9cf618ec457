// Package notify delivers lifecycle events to people and systems. Delivery
// happens after commit from the outbox and never affects a booking.
package notify

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"
)

type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, event domain.Event) error
}

// PartialDeliveryError is returned by Multi when some channels failed.
// Delivered lists every channel that has accepted the event so far.
type PartialDeliveryError struct {
	Delivered []string
	Err       error
}

func (e *PartialDeliveryError) Error() string { return e.Err.Error() }

func (e *PartialDeliveryError) Unwrap() error { return e.Err }

// Multi fans an event out to every channel. One failing channel does not
// stop the others, and channels listed in event.DeliveredChannels are skipped
// so a retry only reaches the ones that failed.
type Multi []Dispatcher

func (m Multi) Name() string { return "multi" }

func (m Multi) Dispatch(ctx context.Context, event domain.Event) error {
	delivered := slices.Clone(event.DeliveredChannels)
	var errs []error
	for _, d := range m {
		if slices.Contains(event.DeliveredChannels, d.Name()) {
			continue
		}
		logger.ExternalServiceCall(d.Name(), string(event.Kind), "event_id", event.ID, "request_id", event.RequestID)
		err := d.Dispatch(ctx, event)
		logger.ExternalServiceResult(d.Name(), string(event.Kind), err, "event_id", event.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		delivered = append(delivered, d.Name())
	}
	if len(errs) == 0 {
		return nil
	}
	return &PartialDeliveryError{Delivered: delivered, Err: errors.Join(errs...)}
}

// Log writes events to the application log. Used when no real channel is configured.
type Log struct{}

func (Log) Name() string { return "log" }

func (Log) Dispatch(ctx context.Context, event domain.Event) error {
	title, _ := Render(event)
	logger.InfoContext(ctx, "Lifecycle event", "kind", event.Kind, "request_id", event.RequestID, "recipients", event.Recipients, "title", title)
	return nil
}
