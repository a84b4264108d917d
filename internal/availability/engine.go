package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/calendar"
	"github.com/fkhayef/calendar/internal/event"
	"github.com/fkhayef/calendar/internal/logger"
	"github.com/fkhayef/calendar/pkg/apperr"
)

// Search defaults
const (
	DefaultStep     = 30 * time.Minute
	DefaultMaxSlots = 20
	MaxRangeDays    = 366
)

// Common errors
var (
	ErrInvalidRange    = apperr.New(apperr.ErrInvalidTimeRange, "range start must be before range end")
	ErrRangeTooLong    = apperr.New(apperr.ErrValidation, "slot search range must not exceed 366 days")
	ErrActorsRequired  = apperr.New(apperr.ErrValidation, "at least one actor is required")
	ErrInvalidDuration = apperr.New(apperr.ErrValidation, "slot duration must be positive")
	ErrInvalidStep     = apperr.New(apperr.ErrValidation, "slot step must be positive")
)

// Engine answers free/busy questions over committed event state
type Engine interface {
	CheckAvailability(ctx context.Context, actorID string, start, end time.Time, excludeID string) (*Result, error)
	FindAvailableSlots(ctx context.Context, q SlotQuery) ([]Slot, error)
}

// EventSource lists the events occupying an actor's time in [start, end)
type EventSource interface {
	Busy(ctx context.Context, actorID string, start, end time.Time) ([]*event.Event, error)
}

// Result is the outcome of an availability check
type Result struct {
	Available bool           `json:"available"`
	Conflicts []*event.Event `json:"conflicts"`
}

// Slot is a window every queried actor is free for
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotQuery describes a multi-actor slot search. Zero WorkingHours, Step and
// MaxSlots fall back to the engine defaults. Days are taken in RangeStart's
// location.
type SlotQuery struct {
	ActorIDs     []string
	Duration     time.Duration
	RangeStart   time.Time
	RangeEnd     time.Time
	WorkingHours calendar.WorkingHours
	Step         time.Duration
	MaxSlots     int
}

// Option configures a BruteForce engine
type Option func(*BruteForce)

// WithStep sets the default sliding step
func WithStep(d time.Duration) Option {
	return func(b *BruteForce) { b.step = d }
}

// WithMaxSlots sets the default result cap
func WithMaxSlots(n int) Option {
	return func(b *BruteForce) { b.maxSlots = n }
}

// WithWorkingHours sets the default daily search window
func WithWorkingHours(wh calendar.WorkingHours) Option {
	return func(b *BruteForce) { b.workingHours = wh }
}

// WithSearchTimeout bounds every slot search
func WithSearchTimeout(d time.Duration) Option {
	return func(b *BruteForce) { b.timeout = d }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(b *BruteForce) { b.logger = logger.OrNop(l) }
}

// BruteForce slides a candidate window across each day's working hours and
// checks every actor for every window. Cost is days x steps x actors.
type BruteForce struct {
	events       EventSource
	step         time.Duration
	maxSlots     int
	workingHours calendar.WorkingHours
	timeout      time.Duration
	logger       *zap.Logger
}

var _ Engine = (*BruteForce)(nil)

// NewBruteForce creates a brute-force availability engine
func NewBruteForce(events EventSource, opts ...Option) *BruteForce {
	b := &BruteForce{
		events:       events,
		step:         DefaultStep,
		maxSlots:     DefaultMaxSlots,
		workingHours: calendar.DefaultWorkingHours,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CheckAvailability reports the actor's conflicts with [start, end). Touching
// endpoints do not conflict.
func (b *BruteForce) CheckAvailability(ctx context.Context, actorID string, start, end time.Time, excludeID string) (*Result, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, ErrActorsRequired
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	busy, err := b.events.Busy(ctx, actorID, start, end)
	if err != nil {
		return nil, err
	}
	conflicts := conflicting(busy, actorID, start, end, excludeID)
	return &Result{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// FindAvailableSlots returns, in chronological order, at most MaxSlots
// windows of the requested duration inside each day's working hours where
// every actor is free
func (b *BruteForce) FindAvailableSlots(ctx context.Context, q SlotQuery) ([]Slot, error) {
	q, opensAt, closesAt, err := b.normalize(q)
	if err != nil {
		return nil, err
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	busy := make(map[string][]*event.Event, len(q.ActorIDs))
	for _, actorID := range q.ActorIDs {
		events, err := b.events.Busy(ctx, actorID, q.RangeStart, q.RangeEnd)
		if err != nil {
			return nil, err
		}
		busy[actorID] = events
	}

	slots := make([]Slot, 0, q.MaxSlots)
	loc := q.RangeStart.Location()
	y, m, d := q.RangeStart.Date()
	for day := time.Date(y, m, d, 0, 0, 0, 0, loc); day.Before(q.RangeEnd); day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc) {
		windowEnd := atClock(day, closesAt)
		if windowEnd.After(q.RangeEnd) {
			windowEnd = q.RangeEnd
		}

		for start := atClock(day, opensAt); !start.Add(q.Duration).After(windowEnd); start = start.Add(q.Step) {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("slot search stopped: %w", err)
			}
			if start.Before(q.RangeStart) {
				continue
			}
			end := start.Add(q.Duration)
			if allFree(busy, q.ActorIDs, start, end) {
				slots = append(slots, Slot{Start: start, End: end})
				if len(slots) == q.MaxSlots {
					return slots, nil
				}
			}
		}
	}

	b.logger.Debug("slot search finished",
		zap.Int("actors", len(q.ActorIDs)),
		zap.Int("slots", len(slots)),
	)
	return slots, nil
}

// atClock returns the wall-clock time offset from midnight on day's date, so
// working hours keep their face value across daylight saving changes
func atClock(day time.Time, offset time.Duration) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, int(offset/time.Minute), 0, 0, day.Location())
}

func (b *BruteForce) normalize(q SlotQuery) (SlotQuery, time.Duration, time.Duration, error) {
	q.ActorIDs = distinct(q.ActorIDs)
	if len(q.ActorIDs) == 0 {
		return q, 0, 0, ErrActorsRequired
	}
	if q.Duration <= 0 {
		return q, 0, 0, ErrInvalidDuration
	}
	if !q.RangeStart.Before(q.RangeEnd) {
		return q, 0, 0, ErrInvalidRange
	}
	if q.RangeEnd.Sub(q.RangeStart) > MaxRangeDays*24*time.Hour {
		return q, 0, 0, ErrRangeTooLong
	}
	if q.Step == 0 {
		q.Step = b.step
	}
	if q.Step < 0 {
		return q, 0, 0, ErrInvalidStep
	}
	if q.MaxSlots <= 0 {
		q.MaxSlots = b.maxSlots
	}
	if q.WorkingHours == (calendar.WorkingHours{}) {
		q.WorkingHours = b.workingHours
	}
	opensAt, closesAt, err := q.WorkingHours.Bounds()
	if err != nil {
		return q, 0, 0, err
	}
	return q, opensAt, closesAt, nil
}

func allFree(busy map[string][]*event.Event, actorIDs []string, start, end time.Time) bool {
	for _, actorID := range actorIDs {
		for _, e := range busy[actorID] {
			if e.BlocksTime(actorID, start, end) {
				return false
			}
		}
	}
	return true
}

func conflicting(events []*event.Event, actorID string, start, end time.Time, excludeID string) []*event.Event {
	out := make([]*event.Event, 0)
	for _, e := range events {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.BlocksTime(actorID, start, end) {
			out = append(out, e)
		}
	}
	return out
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
