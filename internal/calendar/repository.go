package calendar

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrDefaultExists is returned when a second default calendar is inserted
var ErrDefaultExists = errors.New("default calendar already exists")

// Repository persists calendars. Lookups return (nil, nil) when the
// calendar does not exist.
type Repository interface {
	Create(ctx context.Context, c *Calendar) error
	GetByID(ctx context.Context, id string) (*Calendar, error)
	GetDefault(ctx context.Context) (*Calendar, error)
	ListForActor(ctx context.Context, actorID string, includeShared bool) ([]*Calendar, error)
	// Update applies fn to the stored calendar atomically. fn receives a copy;
	// returning an error aborts the update.
	Update(ctx context.Context, id string, fn func(*Calendar) error) (*Calendar, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps calendars in process memory
type MemoryRepository struct {
	mu        sync.RWMutex
	calendars map[string]*Calendar
}

// NewMemoryRepository creates an empty in-memory calendar repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{calendars: make(map[string]*Calendar)}
}

// Create stores a copy of c
func (r *MemoryRepository) Create(ctx context.Context, c *Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.IsDefault {
		for _, existing := range r.calendars {
			if existing.IsDefault {
				return ErrDefaultExists
			}
		}
	}
	r.calendars[c.ID] = c.Clone()
	return nil
}

// GetByID retrieves a calendar by its ID
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.calendars[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

// GetDefault retrieves the default calendar
func (r *MemoryRepository) GetDefault(ctx context.Context) (*Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.calendars {
		if c.IsDefault {
			return c.Clone(), nil
		}
	}
	return nil, nil
}

// ListForActor retrieves the calendars an actor owns, plus shared ones when asked
func (r *MemoryRepository) ListForActor(ctx context.Context, actorID string, includeShared bool) ([]*Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Calendar
	for _, c := range r.calendars {
		if c.OwnerID == actorID || (includeShared && c.VisibleTo(actorID)) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update modifies an existing calendar
func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(*Calendar) error) (*Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.calendars[id]
	if !ok {
		return nil, nil
	}
	updated := existing.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.calendars[id] = updated
	return updated.Clone(), nil
}

// Delete removes a calendar
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.calendars[id]; !ok {
		return errors.New("calendar not found")
	}
	delete(r.calendars, id)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
