package notification

import "time"

// Type tells the inbox what a notification is about
type Type string

const (
	TypeEventReminder      Type = "EVENT_REMINDER"
	TypeInvitationReceived Type = "INVITATION_RECEIVED"
	TypeInvitationAnswered Type = "INVITATION_ANSWERED"
)

// Notification is an in-app inbox entry
type Notification struct {
	ID                string    `json:"id"`
	RecipientID       string    `json:"recipient_id"`
	Type              Type      `json:"type"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"` // e.g., "EVENT", "INVITATION"
	RelatedEntityID   *string   `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Clone returns a copy
func (n *Notification) Clone() *Notification {
	out := *n
	if n.RelatedEntityType != nil {
		v := *n.RelatedEntityType
		out.RelatedEntityType = &v
	}
	if n.RelatedEntityID != nil {
		v := *n.RelatedEntityID
		out.RelatedEntityID = &v
	}
	return &out
}
