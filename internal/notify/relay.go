package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/observability"
	"farmrent-backend/internal/repository"
)

// Relay moves committed outbox events to a Dispatcher. Delivery is at least
// once: an event whose dispatch fails stays pending until maxAttempts. The
// channels that did accept it are recorded and not retried.
type Relay struct {
	outbox      repository.OutboxRepository
	dispatcher  Dispatcher
	batchSize   int
	maxAttempts int32
	kick        chan struct{}
	mu          sync.Mutex
	now         func() time.Time
}

func NewRelay(outbox repository.OutboxRepository, dispatcher Dispatcher, batchSize int, maxAttempts int32) *Relay {
	if batchSize <= 0 {
		batchSize = 50
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Relay{
		outbox:      outbox,
		dispatcher:  dispatcher,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		kick:        make(chan struct{}, 1),
		now:         time.Now,
	}
}

// Notify asks a running relay to flush soon. It never blocks.
func (r *Relay) Notify() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Flush dispatches one batch of pending events and reports how many were delivered.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.outbox.ListPending(ctx, r.batchSize, r.maxAttempts)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, ev := range events {
		if err := r.dispatcher.Dispatch(ctx, ev); err != nil {
			observability.OutboxDeliveriesTotal.WithLabelValues(string(ev.Kind), "failed").Inc()
			logger.Warn("Outbox event delivery failed", "event_id", ev.ID, "kind", ev.Kind, "attempt", ev.Attempts+1, "error", err)
			channels := ev.DeliveredChannels
			var partial *PartialDeliveryError
			if errors.As(err, &partial) {
				channels = partial.Delivered
			}
			if err := r.outbox.MarkFailed(ctx, ev.ID, err.Error(), channels); err != nil {
				return delivered, err
			}
			continue
		}
		if err := r.outbox.MarkDelivered(ctx, ev.ID, r.now().UTC()); err != nil {
			return delivered, err
		}
		observability.OutboxDeliveriesTotal.WithLabelValues(string(ev.Kind), "delivered").Inc()
		delivered++
	}
	return delivered, nil
}

// Run flushes on every Notify and every interval until ctx is done.
func (r *Relay) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Outbox relay started", "interval", interval, "dispatcher", r.dispatcher.Name())
	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox relay stopping")
			return
		case <-ticker.C:
		case <-r.kick:
		}
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Outbox flush failed", "error", err)
		}
	}
}
