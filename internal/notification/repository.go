package notification

import (
	"context"
	"sort"
	"sync"
)

// Repository persists inbox notifications. GetByID returns (nil, nil) when
// the notification does not exist.
type Repository interface {
	// Create stores n unless a notification with the same ID exists, and
	// reports whether it stored it.
	Create(ctx context.Context, n *Notification) (bool, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	// ListByRecipientID returns one page, newest first, and the total count.
	ListByRecipientID(ctx context.Context, recipientID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, recipientID string) (int, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
}

// MemoryRepository keeps notifications in process memory
type MemoryRepository struct {
	mu            sync.RWMutex
	notifications map[string]*Notification
}

// NewMemoryRepository creates an empty in-memory notification repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{notifications: make(map[string]*Notification)}
}

// Create stores a new notification
func (r *MemoryRepository) Create(ctx context.Context, n *Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[n.ID]; ok {
		return false, nil
	}
	r.notifications[n.ID] = n.Clone()
	return true, nil
}

// GetByID retrieves a notification by its ID
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	return n.Clone(), nil
}

// ListByRecipientID retrieves a page of a recipient's notifications
func (r *MemoryRepository) ListByRecipientID(ctx context.Context, recipientID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	r.mu.RLock()
	var matched []*Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		matched = append(matched, n.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if offset >= total {
		return []*Notification{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

// MarkAsRead marks a notification as read
func (r *MemoryRepository) MarkAsRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

// MarkAllAsRead marks every unread notification of a recipient as read
func (r *MemoryRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

// GetUnreadCount returns the count of unread notifications
func (r *MemoryRepository) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
