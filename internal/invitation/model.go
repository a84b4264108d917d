package invitation

import "time"

// Status is the lifecycle state of an invitation
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusTentative Status = "tentative"
	StatusCancelled Status = "cancelled"
)

// IsResponse reports whether s is a status an invitee may respond with
func (s Status) IsResponse() bool {
	switch s {
	case StatusAccepted, StatusDeclined, StatusTentative:
		return true
	}
	return false
}

// Invitation tracks one attendee's response to an event
type Invitation struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	InviteeID   string     `json:"invitee_id"`
	InviterID   string     `json:"inviter_id"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Active reports whether the invitation still counts for its (event, invitee) pair
func (i *Invitation) Active() bool {
	return i.Status != StatusCancelled
}

// Clone returns a copy
func (i *Invitation) Clone() *Invitation {
	out := *i
	if i.RespondedAt != nil {
		t := *i.RespondedAt
		out.RespondedAt = &t
	}
	return &out
}

// RespondRequest represents an invitee's answer
type RespondRequest struct {
	Response Status `json:"response" validate:"required,oneof=accepted declined tentative"`
}
