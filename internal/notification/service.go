package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/invitation"
	"github.com/fkhayef/calendar/internal/logger"
	"github.com/fkhayef/calendar/internal/reminder"
	"github.com/fkhayef/calendar/pkg/apperr"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	entityEvent      = "EVENT"
	entityInvitation = "INVITATION"
)

// Common errors
var (
	ErrNotificationNotFound = apperr.New(apperr.ErrNotFound, "notification not found")
	ErrNotRecipient         = apperr.New(apperr.ErrPermissionDenied, "not the recipient of this notification")
)

// Service handles the in-app inbox
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new notification service
func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.OrNop(log),
		now:    time.Now,
	}
}

// Create stores a notification for the recipient
func (s *Service) Create(ctx context.Context, recipientID string, typ Type, message string, entityType, entityID string) (*Notification, error) {
	return s.create(ctx, uuid.NewString(), recipientID, typ, message, entityType, entityID)
}

func (s *Service) create(ctx context.Context, id, recipientID string, typ Type, message string, entityType, entityID string) (*Notification, error) {
	if recipientID == "" {
		return nil, apperr.Validationf("notification recipient is required")
	}
	n := &Notification{
		ID:          id,
		RecipientID: recipientID,
		Type:        typ,
		Message:     message,
		CreatedAt:   s.now().UTC(),
	}
	if entityType != "" {
		n.RelatedEntityType = &entityType
		n.RelatedEntityID = &entityID
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Debug("notification created",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", recipientID),
			zap.String("type", string(typ)),
		)
	}
	return n, nil
}

// GetByID retrieves one of the actor's notifications
func (s *Service) GetByID(ctx context.Context, id, actorID string) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.RecipientID != actorID {
		return nil, ErrNotRecipient
	}
	return n, nil
}

// ListByRecipientID retrieves a page of the recipient's notifications, newest first
func (s *Service) ListByRecipientID(ctx context.Context, recipientID string, offset, limit int, unreadOnly bool) ([]*Notification, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	return s.repo.ListByRecipientID(ctx, recipientID, limit, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, actorID string) (*Notification, error) {
	n, err := s.GetByID(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

// MarkAllAsRead marks all notifications as read for a recipient
func (s *Service) MarkAllAsRead(ctx context.Context, recipientID string) (int, error) {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// NotifyReminder puts a due in-app reminder in its recipient's inbox. The
// inbox entry reuses the reminder's ID, so a redelivery is a no-op.
func (s *Service) NotifyReminder(ctx context.Context, n *reminder.Notification) (*Notification, error) {
	return s.create(ctx, n.ID, n.RecipientID, TypeEventReminder, n.Message, entityEvent, n.EventID)
}

// InvitationIssued tells the invitee about a new invitation
func (s *Service) InvitationIssued(ctx context.Context, inv *invitation.Invitation) error {
	message := inv.InviterID + " invited you to an event"
	_, err := s.create(ctx, "invitation-"+inv.ID, inv.InviteeID, TypeInvitationReceived, message, entityInvitation, inv.ID)
	return err
}

// InvitationAnswered tells the inviter how the invitee responded
func (s *Service) InvitationAnswered(ctx context.Context, inv *invitation.Invitation) error {
	message := fmt.Sprintf("%s %s your invitation", inv.InviteeID, inv.Status)
	_, err := s.Create(ctx, inv.InviterID, TypeInvitationAnswered, message, entityInvitation, inv.ID)
	return err
}
