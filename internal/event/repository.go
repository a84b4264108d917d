package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Repository persists events. Lookups return (nil, nil) when the event does
// not exist; soft-deleted events are still returned by GetByID.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	// CreateBatch stores all events or none of them.
	CreateBatch(ctx context.Context, events []*Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// Update applies fn to the stored event atomically. fn receives a copy;
	// returning an error aborts the update.
	Update(ctx context.Context, id string, fn func(*Event) error) (*Event, error)
	// UpdateSeries applies fn to the live root and each live instance of a
	// series as one atomic change. The root is passed first.
	UpdateSeries(ctx context.Context, rootID string, fn func(*Event) error) ([]*Event, error)
	ListInstances(ctx context.Context, parentID string) ([]*Event, error)
	// Query returns one page of matches and the total match count.
	Query(ctx context.Context, f Filter) ([]*Event, int, error)
	// Busy returns live, non-cancelled events of actorID overlapping [start, end).
	Busy(ctx context.Context, actorID string, start, end time.Time) ([]*Event, error)
	// ListIDsByCalendar includes soft-deleted events.
	ListIDsByCalendar(ctx context.Context, calendarID string) ([]string, error)
	DeleteByCalendar(ctx context.Context, calendarID string) (int, error)
}

// MemoryRepository keeps events in process memory
type MemoryRepository struct {
	mu     sync.RWMutex
	events map[string]*Event
}

// NewMemoryRepository creates an empty in-memory event repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[string]*Event)}
}

// Create stores a copy of e
func (r *MemoryRepository) Create(ctx context.Context, e *Event) error {
	return r.CreateBatch(ctx, []*Event{e})
}

// CreateBatch stores copies of all events under one lock
func (r *MemoryRepository) CreateBatch(ctx context.Context, events []*Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		if _, ok := r.events[e.ID]; ok {
			return errors.New("event already exists: " + e.ID)
		}
	}
	for _, e := range events {
		r.events[e.ID] = e.Clone()
	}
	return nil
}

// GetByID retrieves an event by its ID
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	return e.Clone(), nil
}

// Update modifies an existing event
func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(*Event) error) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	updated := existing.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.events[id] = updated
	return updated.Clone(), nil
}

// UpdateSeries modifies a series root and its live instances together
func (r *MemoryRepository) UpdateSeries(ctx context.Context, rootID string, fn func(*Event) error) ([]*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	root, ok := r.events[rootID]
	if !ok || root.Deleted {
		return nil, nil
	}

	members := []*Event{root.Clone()}
	var instances []*Event
	for _, e := range r.events {
		if !e.Deleted && e.ParentEventID != nil && *e.ParentEventID == rootID {
			instances = append(instances, e.Clone())
		}
	}
	sort.Slice(instances, func(i, j int) bool { return less(instances[i], instances[j]) })
	members = append(members, instances...)

	for _, e := range members {
		if err := fn(e); err != nil {
			return nil, err
		}
	}

	out := make([]*Event, len(members))
	for i, e := range members {
		r.events[e.ID] = e
		out[i] = e.Clone()
	}
	return out, nil
}

// ListInstances retrieves the live instances of a series root
func (r *MemoryRepository) ListInstances(ctx context.Context, parentID string) ([]*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Event
	for _, e := range r.events {
		if !e.Deleted && e.ParentEventID != nil && *e.ParentEventID == parentID {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// Query retrieves a page of live events matching f
func (r *MemoryRepository) Query(ctx context.Context, f Filter) ([]*Event, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Event
	for _, e := range r.events {
		if f.Matches(e) {
			matches = append(matches, e)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return less(matches[i], matches[j]) })

	total := len(matches)
	if f.Offset >= total {
		return []*Event{}, total, nil
	}
	matches = matches[f.Offset:]
	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}

	out := make([]*Event, len(matches))
	for i, e := range matches {
		out[i] = e.Clone()
	}
	return out, total, nil
}

// Busy retrieves the events occupying actorID's time in [start, end)
func (r *MemoryRepository) Busy(ctx context.Context, actorID string, start, end time.Time) ([]*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Event
	for _, e := range r.events {
		if e.BlocksTime(actorID, start, end) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// ListIDsByCalendar retrieves the IDs of every event in a calendar
func (r *MemoryRepository) ListIDsByCalendar(ctx context.Context, calendarID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, e := range r.events {
		if e.CalendarID == calendarID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteByCalendar removes every event of a calendar
func (r *MemoryRepository) DeleteByCalendar(ctx context.Context, calendarID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.events {
		if e.CalendarID == calendarID {
			delete(r.events, id)
			n++
		}
	}
	return n, nil
}

var _ Repository = (*MemoryRepository)(nil)
