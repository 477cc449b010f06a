package alerts

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// notificationStore is the in-app inbox, kept in memory alongside the
// other stores.
type notificationStore struct {
	mu     sync.RWMutex
	byUser map[string][]*Notification
	byID   map[string]*Notification
}

var notes = &notificationStore{
	byUser: make(map[string][]*Notification),
	byID:   make(map[string]*Notification),
}

// CreateNotification inserts an in-app notification. Best-effort: it
// never fails and callers do not wait on delivery.
func CreateNotification(userID, ntype, title, body, reference string) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Body:      body,
		Reference: reference,
		CreatedAt: time.Now().UTC(),
	}
	notes.mu.Lock()
	notes.byUser[userID] = append(notes.byUser[userID], n)
	notes.byID[n.ID] = n
	notes.mu.Unlock()
}

// listFor returns the user's notifications, newest first.
func (s *notificationStore) listFor(userID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.byUser[userID]
	out := make([]Notification, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, *entries[i])
	}
	return out
}

// markRead stamps the notification read. Reports whether a matching
// unread notification existed.
func (s *notificationStore) markRead(id, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID || n.ReadAt != nil {
		return false
	}
	now := time.Now().UTC()
	n.ReadAt = &now
	return true
}
