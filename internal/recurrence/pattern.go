package recurrence

import (
	"fmt"

	"github.com/fkhayef/calendar/pkg/apperr"
)

// Frequency is the unit a series advances by
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Pattern describes how a series root repeats
type Pattern struct {
	Frequency Frequency `json:"frequency"`
	Interval  int       `json:"interval,omitempty"`
}

var ErrInvalidPattern = apperr.New(apperr.ErrValidation, "invalid recurrence pattern")

// Validate checks the frequency and interval
func (p Pattern) Validate() error {
	switch p.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidPattern, p.Frequency)
	}
	if p.Interval < 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidPattern)
	}
	return nil
}

// EffectiveInterval returns the interval, defaulting to 1
func (p Pattern) EffectiveInterval() int {
	if p.Interval <= 0 {
		return 1
	}
	return p.Interval
}
