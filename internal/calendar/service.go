package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/logger"
	"github.com/fkhayef/calendar/pkg/apperr"
)

// Common errors
var (
	ErrCalendarNotFound = apperr.New(apperr.ErrNotFound, "calendar not found")
	ErrNotAuthorized    = apperr.New(apperr.ErrPermissionDenied, "not authorized to perform this action")
	ErrNotOwner         = apperr.New(apperr.ErrPermissionDenied, "only the calendar owner can perform this action")
	ErrNameRequired     = apperr.New(apperr.ErrValidation, "calendar name is required")
	ErrDeleteDefault    = apperr.New(apperr.ErrInvalidOperation, "the default calendar cannot be deleted")
)

// Defaults applied to new calendars
const (
	DefaultColor           = "#3b82f6"
	DefaultDurationMinutes = 60
	DefaultTimezone        = "UTC"
)

// DefaultWorkingHours is the working-hours window used when none is configured
var DefaultWorkingHours = WorkingHours{Start: "09:00", End: "17:00"}

// CascadeFunc removes everything a calendar contains before the calendar goes
type CascadeFunc func(ctx context.Context, calendarID string) error

// Service handles calendar business logic
type Service struct {
	repo    Repository
	logger  *zap.Logger
	cascade CascadeFunc
	now     func() time.Time

	// contents is held exclusively while Delete cascades, and shared by
	// writers storing into a calendar
	contents sync.RWMutex
}

// NewService creates a new calendar service
func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.OrNop(log),
		now:    time.Now,
	}
}

// SetCascade registers the hook run before a calendar is deleted
func (s *Service) SetCascade(fn CascadeFunc) {
	s.cascade = fn
}

// EnsureDefault creates the system default calendar unless one exists
func (s *Service) EnsureDefault(ctx context.Context, name string) (*Calendar, error) {
	existing, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now().UTC()
	cal := &Calendar{
		ID:          uuid.NewString(),
		Name:        name,
		Color:       DefaultColor,
		Kind:        KindShared,
		Visibility:  VisibilityPublic,
		OwnerID:     SystemOwner,
		Members:     []string{},
		Permissions: map[string][]Permission{},
		Settings:    defaultSettings(),
		IsDefault:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, cal); err != nil {
		if errors.Is(err, ErrDefaultExists) {
			return s.repo.GetDefault(ctx)
		}
		return nil, err
	}

	s.logger.Info("default calendar created", zap.String("calendar_id", cal.ID), zap.String("name", name))
	return cal, nil
}

// Create creates a new calendar owned by actorID
func (s *Service) Create(ctx context.Context, actorID string, req *CreateCalendarRequest) (*Calendar, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := s.now().UTC()
	cal := &Calendar{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		Color:       req.Color,
		Kind:        req.Kind,
		Visibility:  req.Visibility,
		OwnerID:     actorID,
		Members:     dedupe(req.Members),
		Permissions: req.Permissions,
		Settings:    defaultSettings(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cal.Color == "" {
		cal.Color = DefaultColor
	}
	if cal.Kind == "" {
		cal.Kind = KindPersonal
	}
	if cal.Visibility == "" {
		cal.Visibility = VisibilityPrivate
	}
	if cal.Permissions == nil {
		cal.Permissions = map[string][]Permission{}
	}
	if req.Settings != nil {
		cal.Settings = mergeSettings(cal.Settings, *req.Settings)
	}
	if err := validate(cal); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cal); err != nil {
		return nil, err
	}

	s.logger.Info("calendar created",
		zap.String("calendar_id", cal.ID),
		zap.String("owner_id", actorID),
		zap.String("kind", string(cal.Kind)),
	)
	return cal, nil
}

// GetByID retrieves a calendar by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Calendar, error) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, ErrCalendarNotFound
	}
	return cal, nil
}

// Get retrieves a calendar the actor is allowed to see
func (s *Service) Get(ctx context.Context, id, actorID string) (*Calendar, error) {
	cal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cal.VisibleTo(actorID) {
		return nil, ErrNotAuthorized
	}
	return cal, nil
}

// Default retrieves the system default calendar
func (s *Service) Default(ctx context.Context) (*Calendar, error) {
	cal, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, fmt.Errorf("%w: no default calendar configured", ErrCalendarNotFound)
	}
	return cal, nil
}

// AuthorizeWrite loads a calendar and checks actorID may write to it.
// An empty id resolves to the default calendar.
func (s *Service) AuthorizeWrite(ctx context.Context, id, actorID string) (*Calendar, error) {
	var (
		cal *Calendar
		err error
	)
	if id == "" {
		cal, err = s.Default(ctx)
	} else {
		cal, err = s.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if !cal.CanWrite(actorID) {
		return nil, ErrNotAuthorized
	}
	return cal, nil
}

// WithWritable authorizes actorID to write into calendar id ("" for the
// default) and runs fn with it. Deletes wait for fn, so nothing fn stores
// can outlive the calendar's cascade.
func (s *Service) WithWritable(ctx context.Context, id, actorID string, fn func(*Calendar) error) error {
	s.contents.RLock()
	defer s.contents.RUnlock()

	cal, err := s.AuthorizeWrite(ctx, id, actorID)
	if err != nil {
		return err
	}
	return fn(cal)
}

// WithExisting runs fn with calendar id, holding off deletes until it returns
func (s *Service) WithExisting(ctx context.Context, id string, fn func(*Calendar) error) error {
	s.contents.RLock()
	defer s.contents.RUnlock()

	cal, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fn(cal)
}

// List retrieves the calendars visible to actorID
func (s *Service) List(ctx context.Context, actorID string, includeShared bool) ([]*Calendar, error) {
	calendars, err := s.repo.ListForActor(ctx, actorID, includeShared)
	if err != nil {
		return nil, err
	}
	if calendars == nil {
		calendars = []*Calendar{}
	}
	return calendars, nil
}

// Update modifies an existing calendar. Owners and members holding write may
// update; membership and permissions are owner-only.
func (s *Service) Update(ctx context.Context, id, actorID string, req *UpdateCalendarRequest) (*Calendar, error) {
	cal, err := s.repo.Update(ctx, id, func(c *Calendar) error {
		if c.OwnerID != actorID && !c.Has(actorID, PermissionWrite) {
			return ErrNotAuthorized
		}
		if (req.Members != nil || req.Permissions != nil) && c.OwnerID != actorID {
			return ErrNotOwner
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return ErrNameRequired
			}
			c.Name = name
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.Color != nil {
			c.Color = *req.Color
		}
		if req.Kind != nil {
			c.Kind = *req.Kind
		}
		if req.Visibility != nil {
			c.Visibility = *req.Visibility
		}
		if req.Members != nil {
			c.Members = dedupe(*req.Members)
		}
		if req.Permissions != nil {
			c.Permissions = *req.Permissions
		}
		if req.Settings != nil {
			c.Settings = mergeSettings(c.Settings, *req.Settings)
		}
		if err := validate(c); err != nil {
			return err
		}
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, ErrCalendarNotFound
	}
	return cal, nil
}

// Delete removes a calendar and everything it contains. The cascade hook must
// not call back into WithWritable or WithExisting.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	s.contents.Lock()
	defer s.contents.Unlock()

	cal, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cal.IsDefault {
		return ErrDeleteDefault
	}
	if cal.OwnerID != actorID {
		return ErrNotOwner
	}

	if s.cascade != nil {
		if err := s.cascade(ctx, id); err != nil {
			s.logger.Error("calendar cascade failed", zap.String("calendar_id", id), zap.Error(err))
			return fmt.Errorf("failed to remove calendar contents: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("calendar deleted", zap.String("calendar_id", id), zap.String("actor_id", actorID))
	return nil
}

func defaultSettings() Settings {
	return Settings{
		DefaultDurationMinutes: DefaultDurationMinutes,
		WorkingHours:           DefaultWorkingHours,
		Timezone:               DefaultTimezone,
	}
}

func mergeSettings(base, patch Settings) Settings {
	if patch.DefaultDurationMinutes != 0 {
		base.DefaultDurationMinutes = patch.DefaultDurationMinutes
	}
	if patch.WorkingHours.Start != "" {
		base.WorkingHours.Start = patch.WorkingHours.Start
	}
	if patch.WorkingHours.End != "" {
		base.WorkingHours.End = patch.WorkingHours.End
	}
	if patch.Timezone != "" {
		base.Timezone = patch.Timezone
	}
	return base
}

func validate(c *Calendar) error {
	switch c.Kind {
	case KindPersonal, KindShared, KindTeam, KindPublic:
	default:
		return apperr.Validationf("invalid calendar kind: %s", c.Kind)
	}
	switch c.Visibility {
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
	default:
		return apperr.Validationf("invalid calendar visibility: %s", c.Visibility)
	}
	for member, perms := range c.Permissions {
		for _, p := range perms {
			switch p {
			case PermissionRead, PermissionWrite, PermissionDelete:
			default:
				return apperr.Validationf("invalid permission %q for %s", p, member)
			}
		}
	}
	if c.Settings.DefaultDurationMinutes <= 0 {
		return apperr.Validationf("default duration must be positive")
	}
	if _, _, err := c.Settings.WorkingHours.Bounds(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Settings.Timezone); err != nil {
		return apperr.Validationf("invalid timezone: %s", c.Settings.Timezone)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
