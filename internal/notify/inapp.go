package notify

import (
	"context"
	"errors"
	"strconv"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"
)

// InApp writes one inbox notification per recipient.
type InApp struct {
	notes repository.NotificationRepository
}

func NewInApp(notes repository.NotificationRepository) *InApp {
	return &InApp{notes: notes}
}

func (d *InApp) Name() string { return "in_app" }

func (d *InApp) Dispatch(ctx context.Context, event domain.Event) error {
	title, message := Render(event)
	var errs []error
	for _, userID := range event.Recipients {
		attrs := map[string]string{
			"type":       string(event.Kind),
			"request_id": strconv.FormatInt(event.RequestID, 10),
			"event_id":   event.ID,
		}
		note := &domain.Notification{
			UserID:     userID,
			Title:      title,
			Message:    message,
			Attributes: attrs,
			CreatedAt:  event.CreatedAt,
		}
		if err := d.notes.Create(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
