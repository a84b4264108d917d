package invitation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/logger"
	"github.com/fkhayef/calendar/pkg/apperr"
)

// Common errors
var (
	ErrInvitationNotFound = apperr.New(apperr.ErrNotFound, "invitation not found")
	ErrNotInvitee         = apperr.New(apperr.ErrPermissionDenied, "not the invitee of this invitation")
	ErrInvalidResponse    = apperr.New(apperr.ErrValidation, "response must be accepted, declined or tentative")
	ErrInvitationCanceled = apperr.New(apperr.ErrInvalidOperation, "invitation has been cancelled")
)

// Notifier is told about invitations as they are issued and answered
type Notifier interface {
	InvitationIssued(ctx context.Context, inv *Invitation) error
	InvitationAnswered(ctx context.Context, inv *Invitation) error
}

// Manager handles invitation business logic
type Manager struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewManager creates a new invitation manager
func NewManager(repo Repository, log *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger.OrNop(log),
		now:    time.Now,
	}
}

// SetNotifier installs n. Notifier failures are logged and never fail the
// invitation operation.
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// CreateForEvent creates a pending invitation for every distinct attendee.
// Attendees already holding an active invitation are skipped, so a retry
// after a partial failure does not duplicate invitations.
func (m *Manager) CreateForEvent(ctx context.Context, eventID, inviterID string, attendees []string) ([]*Invitation, error) {
	now := m.now().UTC()
	seen := make(map[string]bool, len(attendees))
	pending := make([]*Invitation, 0, len(attendees))
	for _, a := range attendees {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		pending = append(pending, &Invitation{
			ID:        uuid.NewString(),
			EventID:   eventID,
			InviteeID: a,
			InviterID: inviterID,
			Status:    StatusPending,
			CreatedAt: now,
		})
	}
	if len(pending) == 0 {
		return []*Invitation{}, nil
	}

	created, err := m.repo.CreateMissing(ctx, pending)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = []*Invitation{}
	}

	m.logger.Debug("invitations created",
		zap.String("event_id", eventID),
		zap.Int("requested", len(pending)),
		zap.Int("created", len(created)),
	)
	if m.notifier != nil {
		for _, inv := range created {
			if err := m.notifier.InvitationIssued(ctx, inv); err != nil {
				m.logger.Warn("invitation notification failed", zap.String("invitation_id", inv.ID), zap.Error(err))
			}
		}
	}
	return created, nil
}

// ReplaceForEvent cancels the event's active invitations and issues fresh ones
func (m *Manager) ReplaceForEvent(ctx context.Context, eventID, inviterID string, attendees []string) ([]*Invitation, error) {
	if err := m.CancelForEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return m.CreateForEvent(ctx, eventID, inviterID, attendees)
}

// CancelForEvent marks the event's active invitations cancelled. Cancelled
// invitations are kept for history.
func (m *Manager) CancelForEvent(ctx context.Context, eventID string) error {
	n, err := m.repo.CancelByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if n > 0 {
		m.logger.Debug("invitations cancelled", zap.String("event_id", eventID), zap.Int("count", n))
	}
	return nil
}

// PurgeEvent removes every invitation of a hard-deleted event
func (m *Manager) PurgeEvent(ctx context.Context, eventID string) error {
	return m.repo.DeleteByEvent(ctx, eventID)
}

// Respond records the invitee's answer. Re-responding overwrites the previous
// answer; a cancelled invitation cannot be answered.
func (m *Manager) Respond(ctx context.Context, id string, response Status, actorID string) (*Invitation, error) {
	if !response.IsResponse() {
		return nil, ErrInvalidResponse
	}

	inv, err := m.repo.Update(ctx, id, func(inv *Invitation) error {
		if inv.InviteeID != actorID {
			return ErrNotInvitee
		}
		if inv.Status == StatusCancelled {
			return ErrInvitationCanceled
		}
		now := m.now().UTC()
		inv.Status = response
		inv.RespondedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}

	m.logger.Info("invitation answered",
		zap.String("invitation_id", inv.ID),
		zap.String("event_id", inv.EventID),
		zap.String("status", string(inv.Status)),
	)
	if m.notifier != nil {
		if err := m.notifier.InvitationAnswered(ctx, inv); err != nil {
			m.logger.Warn("response notification failed", zap.String("invitation_id", inv.ID), zap.Error(err))
		}
	}
	return inv, nil
}

// GetByID retrieves an invitation by its ID
func (m *Manager) GetByID(ctx context.Context, id string) (*Invitation, error) {
	inv, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	return inv, nil
}

// ListForInvitee retrieves the actor's invitations, optionally by status
func (m *Manager) ListForInvitee(ctx context.Context, actorID string, status Status) ([]*Invitation, error) {
	switch status {
	case "", StatusPending, StatusAccepted, StatusDeclined, StatusTentative, StatusCancelled:
	default:
		return nil, apperr.Validationf("invalid invitation status: %s", status)
	}
	out, err := m.repo.ListByInvitee(ctx, actorID, status)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*Invitation{}
	}
	return out, nil
}

// ListForEvent retrieves all invitations of an event, cancelled ones included
func (m *Manager) ListForEvent(ctx context.Context, eventID string) ([]*Invitation, error) {
	out, err := m.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*Invitation{}
	}
	return out, nil
}
