package notify

import (
	"context"
	"errors"
	"fmt"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Email sends events through SendGrid to each recipient's address.
type Email struct {
	client    sendClient
	contacts  repository.ContactRepository
	fromEmail string
	fromName  string
}

func NewEmail(apiKey, fromEmail, fromName string, contacts repository.ContactRepository) *Email {
	return &Email{
		client:    sendgrid.NewSendClient(apiKey),
		contacts:  contacts,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (d *Email) Name() string { return "sendgrid" }

func (d *Email) Dispatch(ctx context.Context, event domain.Event) error {
	subject, body := Render(event)
	from := mail.NewEmail(d.fromName, d.fromEmail)

	var errs []error
	for _, userID := range event.Recipients {
		c, err := d.contacts.GetContact(ctx, userID)
		if err != nil {
			errs = append(errs, fmt.Errorf("contact of user %d: %w", userID, err))
			continue
		}
		if c.Email == "" {
			continue
		}
		msg := mail.NewSingleEmail(from, subject, mail.NewEmail(c.Name, c.Email), fmt.Sprintf("Hello %s,\n\n%s\n\nThe FarmRent Team", c.Name, body), "")
		resp, err := d.client.SendWithContext(ctx, msg)
		if err != nil {
			errs = append(errs, fmt.Errorf("send to user %d: %w", userID, err))
			continue
		}
		if resp.StatusCode >= 400 {
			errs = append(errs, fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body))
		}
	}
	return errors.Join(errs...)
}
