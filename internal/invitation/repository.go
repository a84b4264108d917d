package invitation

import (
	"context"
	"sort"
	"sync"
)

// Repository persists invitations. Lookups return (nil, nil) when the
// invitation does not exist.
type Repository interface {
	// CreateMissing stores each invitation whose invitee holds no active
	// invitation for the same event, and returns the ones it stored.
	CreateMissing(ctx context.Context, invitations []*Invitation) ([]*Invitation, error)
	GetByID(ctx context.Context, id string) (*Invitation, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Invitation, error)
	// ListByInvitee filters by status unless status is empty.
	ListByInvitee(ctx context.Context, inviteeID string, status Status) ([]*Invitation, error)
	Update(ctx context.Context, id string, fn func(*Invitation) error) (*Invitation, error)
	// CancelByEvent marks every active invitation of the event cancelled.
	CancelByEvent(ctx context.Context, eventID string) (int, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

// MemoryRepository keeps invitations in process memory
type MemoryRepository struct {
	mu          sync.RWMutex
	invitations map[string]*Invitation
}

// NewMemoryRepository creates an empty in-memory invitation repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{invitations: make(map[string]*Invitation)}
}

// CreateMissing stores invitations for invitees without an active one
func (r *MemoryRepository) CreateMissing(ctx context.Context, invitations []*Invitation) ([]*Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := make(map[[2]string]bool)
	for _, inv := range r.invitations {
		if inv.Active() {
			active[[2]string{inv.EventID, inv.InviteeID}] = true
		}
	}

	var created []*Invitation
	for _, inv := range invitations {
		key := [2]string{inv.EventID, inv.InviteeID}
		if active[key] {
			continue
		}
		active[key] = true
		r.invitations[inv.ID] = inv.Clone()
		created = append(created, inv.Clone())
	}
	return created, nil
}

// GetByID retrieves an invitation by its ID
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invitations[id]
	if !ok {
		return nil, nil
	}
	return inv.Clone(), nil
}

// ListByEvent retrieves every invitation of an event, cancelled ones included
func (r *MemoryRepository) ListByEvent(ctx context.Context, eventID string) ([]*Invitation, error) {
	return r.list(func(inv *Invitation) bool { return inv.EventID == eventID }), nil
}

// ListByInvitee retrieves the invitations addressed to an invitee
func (r *MemoryRepository) ListByInvitee(ctx context.Context, inviteeID string, status Status) ([]*Invitation, error) {
	return r.list(func(inv *Invitation) bool {
		return inv.InviteeID == inviteeID && (status == "" || inv.Status == status)
	}), nil
}

func (r *MemoryRepository) list(match func(*Invitation) bool) []*Invitation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Invitation
	for _, inv := range r.invitations {
		if match(inv) {
			out = append(out, inv.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Update modifies an existing invitation
func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(*Invitation) error) (*Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.invitations[id]
	if !ok {
		return nil, nil
	}
	updated := existing.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.invitations[id] = updated
	return updated.Clone(), nil
}

// CancelByEvent cancels the active invitations of an event
func (r *MemoryRepository) CancelByEvent(ctx context.Context, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, inv := range r.invitations {
		if inv.EventID == eventID && inv.Active() {
			inv.Status = StatusCancelled
			n++
		}
	}
	return n, nil
}

// DeleteByEvent removes every invitation of an event
func (r *MemoryRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, inv := range r.invitations {
		if inv.EventID == eventID {
			delete(r.invitations, id)
		}
	}
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
