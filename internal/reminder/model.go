package reminder

import "time"

// Channel is a reminder delivery channel
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

// Valid reports whether c is a known channel
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelPush, ChannelSMS, ChannelInApp:
		return true
	}
	return false
}

// Spec asks for a reminder some minutes before an event starts
type Spec struct {
	Channel       Channel `json:"channel"`
	MinutesBefore int     `json:"minutes_before"`
}

// Notification is a scheduled reminder waiting for delivery
type Notification struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	RecipientID   string     `json:"recipient_id"`
	Channel       Channel    `json:"channel"`
	MinutesBefore int        `json:"minutes_before"`
	FireAt        time.Time  `json:"fire_at"`
	Message       string     `json:"message"`
	Sent          bool       `json:"sent"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Clone returns a copy
func (n *Notification) Clone() *Notification {
	out := *n
	if n.SentAt != nil {
		t := *n.SentAt
		out.SentAt = &t
	}
	return &out
}

// Target describes the event a set of reminders is scheduled for
type Target struct {
	EventID     string
	RecipientID string
	Title       string
	Start       *time.Time
	Specs       []Spec
}
