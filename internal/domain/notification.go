package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventRequested   EventKind = "requested"
	EventApproved    EventKind = "approved"
	EventRejected    EventKind = "rejected"
	EventCancelled   EventKind = "cancelled"
	EventPickupReady EventKind = "pickup-ready"
	EventPickedUp    EventKind = "picked-up"
	EventReturnDue   EventKind = "return-due"
	EventReturned    EventKind = "returned"
	EventCompleted   EventKind = "completed"
)

// Event is a lifecycle notification waiting in the outbox. Delivery is
// best effort and never feeds back into the lifecycle.
type Event struct {
	ID                string            `json:"id"`
	Kind              EventKind         `json:"kind"`
	RequestID         int64             `json:"request_id"`
	EquipmentID       int64             `json:"equipment_id"`
	Recipients        []int64           `json:"recipients"`
	Attributes        map[string]string `json:"attributes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	Attempts          int32             `json:"attempts"`
	DeliveredAt       *time.Time        `json:"delivered_at,omitempty"`
	LastError         string            `json:"last_error,omitempty"`
	// DeliveredChannels names the dispatchers that already accepted the event.
	DeliveredChannels []string          `json:"delivered_channels,omitempty"`
}

// Notification is the in-app inbox entry written for one recipient of an Event.
type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewEvent builds an outbox event about rt addressed to recipients.
func NewEvent(kind EventKind, rt *RentalRequest, equipmentName string, at time.Time, recipients ...int64) *Event {
	return &Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		RequestID:   rt.ID,
		EquipmentID: rt.EquipmentID,
		Recipients:  recipients,
		Attributes: map[string]string{
			"equipment_name": equipmentName,
			"start_date":     rt.StartDate.Format("2006-01-02"),
			"end_date":       rt.EndDate.Format("2006-01-02"),
			"status":         string(rt.Status),
		},
		CreatedAt: at,
	}
}

// With sets an attribute and returns e for chaining.
func (e *Event) With(key, value string) *Event {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}
