package event

import (
	"strings"
	"time"

	"github.com/fkhayef/calendar/internal/recurrence"
	"github.com/fkhayef/calendar/internal/reminder"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	CalendarID    string              `json:"calendar_id,omitempty"`
	Title         string              `json:"title" validate:"required"`
	Description   string              `json:"description,omitempty"`
	Type          Type                `json:"type,omitempty"`
	Status        Status              `json:"status,omitempty"`
	Start         *time.Time          `json:"start,omitempty"`
	End           *time.Time          `json:"end,omitempty"`
	AllDay        bool                `json:"all_day,omitempty"`
	Timezone      string              `json:"timezone,omitempty"`
	Location      string              `json:"location,omitempty"`
	MeetingURL    string              `json:"meeting_url,omitempty"`
	Attendees     []string            `json:"attendees,omitempty"`
	Recurring     bool                `json:"recurring,omitempty"`
	Recurrence    *recurrence.Pattern `json:"recurrence,omitempty"`
	RecurrenceEnd *time.Time          `json:"recurrence_end,omitempty"`
	Reminders     []reminder.Spec     `json:"reminders,omitempty"`
	Priority      Priority            `json:"priority,omitempty"`
	Visibility    Visibility          `json:"visibility,omitempty"`
}

// UpdateEventRequest represents a partial update. Nil fields are left alone.
type UpdateEventRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Type        *Type            `json:"type,omitempty"`
	Status      *Status          `json:"status,omitempty"`
	Start       *time.Time       `json:"start,omitempty"`
	End         *time.Time       `json:"end,omitempty"`
	AllDay      *bool            `json:"all_day,omitempty"`
	Timezone    *string          `json:"timezone,omitempty"`
	Location    *string          `json:"location,omitempty"`
	MeetingURL  *string          `json:"meeting_url,omitempty"`
	Attendees   *[]string        `json:"attendees,omitempty"`
	Reminders   *[]reminder.Spec `json:"reminders,omitempty"`
	Priority    *Priority        `json:"priority,omitempty"`
	Visibility  *Visibility      `json:"visibility,omitempty"`
}

// UpdateMode selects how an update applies to a recurring series
type UpdateMode string

const (
	// ModeSingle updates only the addressed event
	ModeSingle UpdateMode = "single"
	// ModeThisInstance updates one generated instance without touching siblings
	ModeThisInstance UpdateMode = "this_instance"
	// ModeEntireSeries updates the series root and every instance. Time
	// changes shift each instance by the same offset.
	ModeEntireSeries UpdateMode = "entire_series"
)

// Valid reports whether m is a known mode
func (m UpdateMode) Valid() bool {
	switch m {
	case ModeSingle, ModeThisInstance, ModeEntireSeries:
		return true
	}
	return false
}

// Filter selects events for Query. Zero fields do not filter. From and To
// bound the start time inclusively; events without a start never match a
// time bound.
type Filter struct {
	CalendarID string
	ActorID    string
	From       *time.Time
	To         *time.Time
	Type       Type
	Status     Status
	Text       string
	// ViewerID, when set, limits results to events that actor may view.
	// Repositories ignore it; Service.Query applies it.
	ViewerID string
	Offset   int
	// Limit <= 0 returns every match
	Limit int
}

// Matches reports whether a live event satisfies the filter
func (f Filter) Matches(e *Event) bool {
	if e.Deleted {
		return false
	}
	if f.CalendarID != "" && e.CalendarID != f.CalendarID {
		return false
	}
	if f.ActorID != "" && !e.Involves(f.ActorID) {
		return false
	}
	if f.From != nil && (e.Start == nil || e.Start.Before(*f.From)) {
		return false
	}
	if f.To != nil && (e.Start == nil || e.Start.After(*f.To)) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Text != "" {
		q := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Location), q) {
			return false
		}
	}
	return true
}

// less orders by start ascending, events without a start last
func less(a, b *Event) bool {
	switch {
	case a.Start == nil && b.Start == nil:
		return a.ID < b.ID
	case a.Start == nil:
		return false
	case b.Start == nil:
		return true
	case !a.Start.Equal(*b.Start):
		return a.Start.Before(*b.Start)
	}
	return a.ID < b.ID
}
