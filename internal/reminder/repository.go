package reminder

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository persists reminder notifications. Lookups return (nil, nil) when
// the notification does not exist.
type Repository interface {
	// CreateMissing stores each notification unless one already exists for the
	// same (event, channel, minutes before), and returns the ones it stored.
	CreateMissing(ctx context.Context, notifications []*Notification) ([]*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Notification, error)
	// Due returns unsent notifications firing at or before now, oldest first.
	Due(ctx context.Context, now time.Time) ([]*Notification, error)
	Update(ctx context.Context, id string, fn func(*Notification) error) (*Notification, error)
	DeleteUnsentByEvent(ctx context.Context, eventID string) (int, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

// notificationKey identifies one firing of a reminder spec. The fire time is
// part of it, so moving an event schedules afresh even when the spec already
// fired for the old start.
type notificationKey struct {
	eventID string
	channel Channel
	minutes int
	fireAt  int64
}

func keyOf(n *Notification) notificationKey {
	return notificationKey{eventID: n.EventID, channel: n.Channel, minutes: n.MinutesBefore, fireAt: n.FireAt.UnixNano()}
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

// CreateMissing stores notifications not yet scheduled
func (r *MemoryRepository) CreateMissing(ctx context.Context, notifications []*Notification) ([]*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[notificationKey]bool, len(r.notifications))
	for _, n := range r.notifications {
		existing[keyOf(n)] = true
	}

	var created []*Notification
	for _, n := range notifications {
		if existing[keyOf(n)] {
			continue
		}
		existing[keyOf(n)] = true
		r.notifications[n.ID] = n.Clone()
		created = append(created, n.Clone())
	}
	return created, nil
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

// ListByEvent retrieves the notifications of an event
func (r *MemoryRepository) ListByEvent(ctx context.Context, eventID string) ([]*Notification, error) {
	return r.list(func(n *Notification) bool { return n.EventID == eventID }), nil
}

// Due retrieves unsent notifications whose fire time has passed
func (r *MemoryRepository) Due(ctx context.Context, now time.Time) ([]*Notification, error) {
	return r.list(func(n *Notification) bool { return !n.Sent && !n.FireAt.After(now) }), nil
}

func (r *MemoryRepository) list(match func(*Notification) bool) []*Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Notification
	for _, n := range r.notifications {
		if match(n) {
			out = append(out, n.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].FireAt.Before(out[j].FireAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Update modifies an existing notification
func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(*Notification) error) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	updated := existing.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.notifications[id] = updated
	return updated.Clone(), nil
}

// DeleteUnsentByEvent drops the event's notifications that have not fired
func (r *MemoryRepository) DeleteUnsentByEvent(ctx context.Context, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, notif := range r.notifications {
		if notif.EventID == eventID && !notif.Sent {
			delete(r.notifications, id)
			n++
		}
	}
	return n, nil
}

// DeleteByEvent removes every notification of an event
func (r *MemoryRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, notif := range r.notifications {
		if notif.EventID == eventID {
			delete(r.notifications, id)
		}
	}
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
