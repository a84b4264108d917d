package event

import (
	"time"

	"github.com/fkhayef/calendar/internal/recurrence"
	"github.com/fkhayef/calendar/internal/reminder"
)

// Type classifies an event
type Type string

const (
	TypeMeeting     Type = "meeting"
	TypeCall        Type = "call"
	TypeTask        Type = "task"
	TypeReminder    Type = "reminder"
	TypeAppointment Type = "appointment"
	TypeBlock       Type = "block"
	TypePersonal    Type = "personal"
)

// Valid reports whether t is a known event type
func (t Type) Valid() bool {
	switch t {
	case TypeMeeting, TypeCall, TypeTask, TypeReminder, TypeAppointment, TypeBlock, TypePersonal:
		return true
	}
	return false
}

// Status is the lifecycle state of an event
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusInProgress  Status = "in_progress"
	StatusRescheduled Status = "rescheduled"
)

// Valid reports whether s is a known event status
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusInProgress, StatusRescheduled:
		return true
	}
	return false
}

// Priority of an event
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Visibility of an event within its calendar
type Visibility string

const (
	VisibilityDefault Visibility = "default"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityDefault, VisibilityPublic, VisibilityPrivate:
		return true
	}
	return false
}

// Event represents a calendar entry. A series root has Recurring set and no
// ParentEventID; its generated instances carry ParentEventID and are never
// recurring themselves.
type Event struct {
	ID          string     `json:"id"`
	CalendarID  string     `json:"calendar_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	AllDay      bool       `json:"all_day"`
	Timezone    string     `json:"timezone"`
	Location    string     `json:"location,omitempty"`
	MeetingURL  string     `json:"meeting_url,omitempty"`
	OrganizerID string     `json:"organizer_id"`
	Attendees   []string   `json:"attendees"`

	Recurring         bool                `json:"recurring"`
	Recurrence        *recurrence.Pattern `json:"recurrence,omitempty"`
	RecurrenceEnd     *time.Time          `json:"recurrence_end,omitempty"`
	ParentEventID     *string             `json:"parent_event_id,omitempty"`
	InstancesExpanded bool                `json:"instances_expanded"`

	Reminders  []reminder.Spec `json:"reminders"`
	Priority   Priority        `json:"priority"`
	Visibility Visibility      `json:"visibility"`

	Deleted   bool       `json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy string     `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSeriesRoot reports whether the event generates instances
func (e *Event) IsSeriesRoot() bool {
	return e.Recurring && e.ParentEventID == nil
}

// IsInstance reports whether the event was generated from a series root
func (e *Event) IsInstance() bool {
	return e.ParentEventID != nil
}

// SeriesID returns the identity of the series root the event belongs to, or
// "" when it is not part of a series
func (e *Event) SeriesID() string {
	switch {
	case e.ParentEventID != nil:
		return *e.ParentEventID
	case e.Recurring:
		return e.ID
	}
	return ""
}

// IsAttendee reports whether actorID is on the attendee list
func (e *Event) IsAttendee(actorID string) bool {
	for _, a := range e.Attendees {
		if a == actorID {
			return true
		}
	}
	return false
}

// Involves reports whether actorID organizes or attends the event
func (e *Event) Involves(actorID string) bool {
	return e.OrganizerID == actorID || e.IsAttendee(actorID)
}

// Overlaps reports whether the event's interval intersects [start, end).
// Intervals that only touch at an endpoint do not overlap.
func (e *Event) Overlaps(start, end time.Time) bool {
	if e.Start == nil || e.End == nil {
		return false
	}
	return e.Start.Before(end) && start.Before(*e.End)
}

// BlocksTime reports whether the event occupies actorID's time in [start, end)
func (e *Event) BlocksTime(actorID string, start, end time.Time) bool {
	return !e.Deleted &&
		e.Status != StatusCancelled &&
		e.Involves(actorID) &&
		e.Overlaps(start, end)
}

// Clone returns a deep copy
func (e *Event) Clone() *Event {
	out := *e
	out.Start = cloneTime(e.Start)
	out.End = cloneTime(e.End)
	out.RecurrenceEnd = cloneTime(e.RecurrenceEnd)
	out.DeletedAt = cloneTime(e.DeletedAt)
	out.Attendees = append([]string(nil), e.Attendees...)
	out.Reminders = append([]reminder.Spec(nil), e.Reminders...)
	if e.Recurrence != nil {
		p := *e.Recurrence
		out.Recurrence = &p
	}
	if e.ParentEventID != nil {
		id := *e.ParentEventID
		out.ParentEventID = &id
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Stats summarizes an actor's events
type Stats struct {
	Total           int            `json:"total"`
	ByStatus        map[Status]int `json:"by_status"`
	ByType          map[Type]int   `json:"by_type"`
	Upcoming        int            `json:"upcoming"`
	Today           int            `json:"today"`
	RecurringSeries int            `json:"recurring_series"`
}
