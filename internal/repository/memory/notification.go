package memory

import (
	"context"
	"fmt"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/repository"
)

// Notifications returns the in-app inbox. Writes are never journaled since
// only the outbox relay produces them, outside any booking transaction.
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{st: s.st}
}

func (s *Store) Contacts() repository.ContactRepository {
	return &contactRepository{st: s.st}
}

// PutContact seeds a user's contact details.
func (s *Store) PutContact(c domain.Contact) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.contacts[c.UserID] = c
}

type notificationRepository struct {
	st *state
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	note.ID = int64(len(r.st.notifications) + 1)
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	r.st.notifications = append(r.st.notifications, *note)
	return nil
}

type contactRepository struct {
	st *state
}

func (r *contactRepository) GetContact(ctx context.Context, userID int64) (*domain.Contact, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	c, ok := r.st.contacts[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &c, nil
}

// List returns a page of the user's inbox, newest first.
func (r *notificationRepository) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var mine []domain.Notification
	for i := len(r.st.notifications) - 1; i >= 0; i-- {
		if n := r.st.notifications[i]; n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := int32(len(mine))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for i := range r.st.notifications {
		n := &r.st.notifications[i]
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %d of user %d: %w", id, userID, domain.ErrNotFound)
}
