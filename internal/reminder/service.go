package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/logger"
	"github.com/fkhayef/calendar/pkg/apperr"
)

// Common errors
var (
	ErrNotificationNotFound = apperr.New(apperr.ErrNotFound, "reminder notification not found")
)

// ValidateSpecs rejects unknown channels and negative offsets
func ValidateSpecs(specs []Spec) error {
	for _, s := range specs {
		if !s.Channel.Valid() {
			return apperr.Validationf("invalid reminder channel: %s", s.Channel)
		}
		if s.MinutesBefore < 0 {
			return apperr.Validationf("reminder minutes_before must not be negative")
		}
	}
	return nil
}

// Scheduler turns reminder specs into notifications and exposes the due queue
type Scheduler struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a new reminder scheduler
func NewScheduler(repo Repository, log *zap.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		logger: logger.OrNop(log),
		now:    time.Now,
	}
}

// Schedule enqueues one notification per spec, fired MinutesBefore the
// target's start. Targets without a start schedule nothing. A spec already
// scheduled for the same fire time is skipped, whether or not it was sent.
func (s *Scheduler) Schedule(ctx context.Context, t Target) ([]*Notification, error) {
	if t.Start == nil || len(t.Specs) == 0 {
		return []*Notification{}, nil
	}

	now := s.now().UTC()
	pending := make([]*Notification, 0, len(t.Specs))
	for _, spec := range t.Specs {
		pending = append(pending, &Notification{
			ID:            uuid.NewString(),
			EventID:       t.EventID,
			RecipientID:   t.RecipientID,
			Channel:       spec.Channel,
			MinutesBefore: spec.MinutesBefore,
			FireAt:        t.Start.Add(-time.Duration(spec.MinutesBefore) * time.Minute),
			Message:       message(t.Title, spec.MinutesBefore),
			CreatedAt:     now,
		})
	}

	created, err := s.repo.CreateMissing(ctx, pending)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = []*Notification{}
	}

	s.logger.Debug("reminders scheduled",
		zap.String("event_id", t.EventID),
		zap.Int("requested", len(pending)),
		zap.Int("created", len(created)),
	)
	return created, nil
}

// Reschedule replaces the event's unsent notifications with ones computed
// from the target's current start and specs
func (s *Scheduler) Reschedule(ctx context.Context, t Target) ([]*Notification, error) {
	if err := s.CancelForEvent(ctx, t.EventID); err != nil {
		return nil, err
	}
	return s.Schedule(ctx, t)
}

// Due retrieves unsent notifications whose fire time has passed
func (s *Scheduler) Due(ctx context.Context) ([]*Notification, error) {
	due, err := s.repo.Due(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if due == nil {
		due = []*Notification{}
	}
	return due, nil
}

// MarkSent flags a notification delivered. Marking it again is a no-op.
func (s *Scheduler) MarkSent(ctx context.Context, id string) (*Notification, error) {
	n, err := s.repo.Update(ctx, id, func(n *Notification) error {
		if n.Sent {
			return nil
		}
		now := s.now().UTC()
		n.Sent = true
		n.SentAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// CancelForEvent drops the event's unsent notifications
func (s *Scheduler) CancelForEvent(ctx context.Context, eventID string) error {
	n, err := s.repo.DeleteUnsentByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Debug("reminders dropped", zap.String("event_id", eventID), zap.Int("count", n))
	}
	return nil
}

// PurgeEvent removes every notification of a hard-deleted event
func (s *Scheduler) PurgeEvent(ctx context.Context, eventID string) error {
	return s.repo.DeleteByEvent(ctx, eventID)
}

// ListForEvent retrieves the notifications scheduled for an event
func (s *Scheduler) ListForEvent(ctx context.Context, eventID string) ([]*Notification, error) {
	out, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*Notification{}
	}
	return out, nil
}

func message(title string, minutes int) string {
	switch {
	case minutes == 0:
		return fmt.Sprintf("%s is starting now", title)
	case minutes%1440 == 0:
		return fmt.Sprintf("%s starts in %d day(s)", title, minutes/1440)
	case minutes%60 == 0:
		return fmt.Sprintf("%s starts in %d hour(s)", title, minutes/60)
	}
	return fmt.Sprintf("%s starts in %d minutes", title, minutes)
}
