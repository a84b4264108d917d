package calendar

import (
	"time"

	"github.com/fkhayef/calendar/pkg/apperr"
)

// Kind classifies who a calendar is for
type Kind string

const (
	KindPersonal Kind = "personal"
	KindShared   Kind = "shared"
	KindTeam     Kind = "team"
	KindPublic   Kind = "public"
)

// Visibility controls who can discover a calendar
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
	VisibilityPublic  Visibility = "public"
)

// Permission is a capability granted to a calendar member
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

// SystemOwner owns the default calendar
const SystemOwner = "system"

// WorkingHours is a daily clock window in "HH:MM" form
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds returns the window as offsets from midnight
func (w WorkingHours) Bounds() (start, end time.Duration, err error) {
	if start, err = ParseClock(w.Start); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(w.End); err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, apperr.Validationf("working hours end %s must be after start %s", w.End, w.Start)
	}
	return start, end, nil
}

// ParseClock parses "HH:MM" into an offset from midnight
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, apperr.Validationf("invalid clock time %q, expected HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Settings are the per-calendar defaults applied to new events
type Settings struct {
	DefaultDurationMinutes int          `json:"default_duration_minutes"`
	WorkingHours           WorkingHours `json:"working_hours"`
	Timezone               string       `json:"timezone"`
}

// Calendar represents a calendar in the system
type Calendar struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Color       string                  `json:"color"`
	Kind        Kind                    `json:"kind"`
	Visibility  Visibility              `json:"visibility"`
	OwnerID     string                  `json:"owner_id"`
	Members     []string                `json:"members"`
	Permissions map[string][]Permission `json:"permissions"`
	Settings    Settings                `json:"settings"`
	IsDefault   bool                    `json:"is_default"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// IsMember reports whether actorID is listed as a member
func (c *Calendar) IsMember(actorID string) bool {
	for _, m := range c.Members {
		if m == actorID {
			return true
		}
	}
	return false
}

// Has reports whether actorID holds perm as a member
func (c *Calendar) Has(actorID string, perm Permission) bool {
	if !c.IsMember(actorID) {
		return false
	}
	for _, p := range c.Permissions[actorID] {
		if p == perm {
			return true
		}
	}
	return false
}

// CanWrite reports whether actorID may modify the calendar or add events to it.
// Every actor may write to the default calendar.
func (c *Calendar) CanWrite(actorID string) bool {
	return c.OwnerID == actorID || c.Has(actorID, PermissionWrite) || c.IsDefault
}

// VisibleTo reports whether the calendar appears in actorID's shared listing
func (c *Calendar) VisibleTo(actorID string) bool {
	switch {
	case c.OwnerID == actorID, c.IsMember(actorID):
		return true
	case c.Visibility == VisibilityPublic:
		return true
	case c.Visibility == VisibilityShared && c.Kind == KindTeam:
		return true
	}
	return false
}

// Clone returns a deep copy
func (c *Calendar) Clone() *Calendar {
	out := *c
	out.Members = append([]string(nil), c.Members...)
	out.Permissions = make(map[string][]Permission, len(c.Permissions))
	for k, v := range c.Permissions {
		out.Permissions[k] = append([]Permission(nil), v...)
	}
	return &out
}
