package notification

import (
	"context"

	"github.com/fkhayef/calendar/internal/reminder"
)

// ReminderSender delivers in_app reminders to the inbox and hands every
// other channel to next
type ReminderSender struct {
	inbox *Service
	next  reminder.Sender
}

// NewReminderSender creates a sender; next may be nil to drop other channels
func NewReminderSender(inbox *Service, next reminder.Sender) *ReminderSender {
	return &ReminderSender{inbox: inbox, next: next}
}

// Send implements reminder.Sender
func (s *ReminderSender) Send(ctx context.Context, n *reminder.Notification) error {
	if n.Channel != reminder.ChannelInApp {
		if s.next == nil {
			return nil
		}
		return s.next.Send(ctx, n)
	}
	_, err := s.inbox.NotifyReminder(ctx, n)
	return err
}
