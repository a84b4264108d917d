package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// DefaultMaxInstances caps a single expansion when no cap is configured.
	DefaultMaxInstances = 100
)

// Occurrence is one concrete (start, end) pair of a series
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Expander turns a pattern into bounded concrete occurrences.
type Expander struct {
	// MaxInstances is the hard safety cap per series.
	MaxInstances int

	// Horizon is how far past the series start an unbounded series is
	// expanded.
	Horizon func(start time.Time) time.Time
}

// NewExpander returns an expander with the given cap (DefaultMaxInstances
// when <= 0) and a one-year horizon.
func NewExpander(maxInstances int) *Expander {
	if maxInstances <= 0 {
		maxInstances = DefaultMaxInstances
	}
	return &Expander{
		MaxInstances: maxInstances,
		Horizon: func(start time.Time) time.Time {
			return start.AddDate(1, 0, 0)
		},
	}
}

// Occurrences returns the occurrences strictly after start, up to and
// including until (or the horizon when until is nil), never more than
// MaxInstances. Each occurrence keeps the duration end - start.
func (x *Expander) Occurrences(p Pattern, start, end time.Time, until *time.Time) ([]Occurrence, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	bound := x.Horizon(start)
	if until != nil {
		bound = *until
	}
	if !bound.After(start) {
		return []Occurrence{}, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     toFreq(p.Frequency),
		Interval: p.EffectiveInterval(),
		Dtstart:  start,
		Until:    bound,
		// dtstart itself is the first occurrence and is skipped below
		Count: x.MaxInstances + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	// rrule works at second precision
	frac := start.Sub(start.Truncate(time.Second))
	duration := end.Sub(start)

	out := make([]Occurrence, 0, x.MaxInstances)
	for _, t := range rule.All() {
		t = t.Add(frac)
		if !t.After(start) {
			continue
		}
		if len(out) == x.MaxInstances {
			break
		}
		out = append(out, Occurrence{Start: t, End: t.Add(duration)})
	}
	return out, nil
}

func toFreq(f Frequency) rrule.Frequency {
	switch f {
	case FrequencyDaily:
		return rrule.DAILY
	case FrequencyWeekly:
		return rrule.WEEKLY
	case FrequencyMonthly:
		return rrule.MONTHLY
	default:
		return rrule.YEARLY
	}
}
