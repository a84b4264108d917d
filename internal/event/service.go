package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/calendar"
	"github.com/fkhayef/calendar/internal/invitation"
	"github.com/fkhayef/calendar/internal/logger"
	"github.com/fkhayef/calendar/internal/recurrence"
	"github.com/fkhayef/calendar/internal/reminder"
	"github.com/fkhayef/calendar/pkg/apperr"
)

// Query pagination bounds
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)

// CalendarAccess resolves calendars and checks write access
type CalendarAccess interface {
	// WithWritable authorizes actorID on calendar id ("" for the default)
	// and runs fn while the calendar cannot be deleted.
	WithWritable(ctx context.Context, id, actorID string, fn func(*calendar.Calendar) error) error
	// WithExisting runs fn while calendar id exists and cannot be deleted.
	WithExisting(ctx context.Context, id string, fn func(*calendar.Calendar) error) error
	GetByID(ctx context.Context, id string) (*calendar.Calendar, error)
}

// Invitations manages the invitations tied to events
type Invitations interface {
	CreateForEvent(ctx context.Context, eventID, inviterID string, attendees []string) ([]*invitation.Invitation, error)
	ReplaceForEvent(ctx context.Context, eventID, inviterID string, attendees []string) ([]*invitation.Invitation, error)
	CancelForEvent(ctx context.Context, eventID string) error
	PurgeEvent(ctx context.Context, eventID string) error
}

// Reminders manages the reminder notifications tied to events
type Reminders interface {
	Schedule(ctx context.Context, t reminder.Target) ([]*reminder.Notification, error)
	Reschedule(ctx context.Context, t reminder.Target) ([]*reminder.Notification, error)
	CancelForEvent(ctx context.Context, eventID string) error
	PurgeEvent(ctx context.Context, eventID string) error
}

// Option configures a Service
type Option func(*Service)

// WithPolicy replaces DefaultPolicy
func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithExpander replaces the default recurrence expander
func WithExpander(x *recurrence.Expander) Option {
	return func(s *Service) { s.expander = x }
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logger.OrNop(l) }
}

// Service handles event business logic
type Service struct {
	repo        Repository
	calendars   CalendarAccess
	invitations Invitations
	reminders   Reminders
	expander    *recurrence.Expander
	policy      Policy
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new event service
func NewService(repo Repository, calendars CalendarAccess, invitations Invitations, reminders Reminders, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		calendars:   calendars,
		invitations: invitations,
		reminders:   reminders,
		expander:    recurrence.NewExpander(recurrence.DefaultMaxInstances),
		policy:      DefaultPolicy,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new event, then runs its side effects in
// order: recurrence expansion, invitations, reminders. The series root and
// its instances are stored together. A failure after the event is stored is
// returned as *PartialError alongside the stored event.
func (s *Service) Create(ctx context.Context, actorID string, req *CreateEventRequest) (*Event, error) {
	var (
		e       *Event
		members []*Event
	)
	err := s.calendars.WithWritable(ctx, req.CalendarID, actorID, func(cal *calendar.Calendar) error {
		built, err := s.build(cal, actorID, req)
		if err != nil {
			return err
		}
		members = []*Event{built}
		if built.Recurring {
			instances, err := s.expand(built)
			if err != nil {
				return err
			}
			built.InstancesExpanded = true
			members = append(members, instances...)
		}
		e = built
		return s.repo.CreateBatch(ctx, members)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event created",
		zap.String("event_id", e.ID),
		zap.String("calendar_id", e.CalendarID),
		zap.String("organizer_id", actorID),
		zap.Int("instances", len(members)-1),
	)

	completed := []Step{StepPersist}
	if e.Recurring {
		completed = append(completed, StepExpand)
	}
	return e, s.fanOut(ctx, e, members, completed)
}

// Resume re-runs the creation side effects of an event. Each step is
// idempotent: expansion is skipped once the root is marked expanded, and
// invitations and reminders that already exist are not duplicated.
func (s *Service) Resume(ctx context.Context, id, actorID string) (*Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if RelationshipOf(e, actorID) != RelationshipOrganizer {
		return nil, ErrNotAuthorized
	}

	completed := []Step{StepPersist}
	members := []*Event{e}
	if e.IsSeriesRoot() {
		if !e.InstancesExpanded {
			if e, err = s.expandLate(ctx, e); err != nil {
				return nil, &PartialError{EventID: id, Completed: completed, Failed: StepExpand, Err: err}
			}
		}
		instances, err := s.repo.ListInstances(ctx, e.ID)
		if err != nil {
			return nil, &PartialError{EventID: id, Completed: completed, Failed: StepExpand, Err: err}
		}
		completed = append(completed, StepExpand)
		members = append([]*Event{e}, instances...)
	}

	return e, s.fanOut(ctx, e, members, completed)
}

var errAlreadyExpanded = errors.New("series already expanded")

// expandLate claims the expansion flag before writing instances so two
// concurrent resumes cannot both expand the same root
func (s *Service) expandLate(ctx context.Context, root *Event) (*Event, error) {
	claimed, err := s.repo.Update(ctx, root.ID, func(e *Event) error {
		if e.InstancesExpanded {
			return errAlreadyExpanded
		}
		e.InstancesExpanded = true
		return nil
	})
	if errors.Is(err, errAlreadyExpanded) {
		return s.Get(ctx, root.ID)
	}
	if err != nil {
		return nil, err
	}

	err = s.calendars.WithExisting(ctx, claimed.CalendarID, func(*calendar.Calendar) error {
		instances, err := s.expand(claimed)
		if err != nil {
			return err
		}
		return s.repo.CreateBatch(ctx, instances)
	})
	if err != nil {
		if _, rerr := s.repo.Update(ctx, root.ID, func(e *Event) error {
			e.InstancesExpanded = false
			return nil
		}); rerr != nil {
			s.logger.Error("failed to release expansion claim", zap.String("event_id", root.ID), zap.Error(rerr))
		}
		return nil, err
	}
	return claimed, nil
}

// fanOut creates invitations for the root and schedules reminders for every
// member of the series
func (s *Service) fanOut(ctx context.Context, root *Event, members []*Event, completed []Step) error {
	if len(root.Attendees) > 0 && !root.IsInstance() {
		if _, err := s.invitations.CreateForEvent(ctx, root.ID, root.OrganizerID, root.Attendees); err != nil {
			s.logger.Error("invitation fan-out failed", zap.String("event_id", root.ID), zap.Error(err))
			return &PartialError{EventID: root.ID, Completed: completed, Failed: StepInvite, Err: err}
		}
		completed = append(completed, StepInvite)
	}

	for _, m := range members {
		if m.Status == StatusCancelled {
			continue
		}
		if _, err := s.reminders.Schedule(ctx, target(m)); err != nil {
			s.logger.Error("reminder scheduling failed", zap.String("event_id", m.ID), zap.Error(err))
			return &PartialError{EventID: root.ID, Completed: completed, Failed: StepRemind, Err: err}
		}
	}
	return nil
}

// Get retrieves a live event by its ID
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.Deleted {
		return nil, ErrEventNotFound
	}
	return e, nil
}

// View retrieves an event the actor may read: through the capability policy,
// or because the event is not private and its calendar is visible to them
func (s *Service) View(ctx context.Context, id, actorID string) (*Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.visible(ctx, e, actorID, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAuthorized
	}
	return e, nil
}

// visible applies the View rule. calendars caches calendar visibility by ID
// across calls and may be nil.
func (s *Service) visible(ctx context.Context, e *Event, actorID string, calendars map[string]bool) (bool, error) {
	if s.policy(RelationshipOf(e, actorID)).Read {
		return true, nil
	}
	if e.Visibility == VisibilityPrivate {
		return false, nil
	}
	if ok, seen := calendars[e.CalendarID]; seen {
		return ok, nil
	}
	cal, err := s.calendars.GetByID(ctx, e.CalendarID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	ok := cal != nil && cal.VisibleTo(actorID)
	if calendars != nil {
		calendars[e.CalendarID] = ok
	}
	return ok, nil
}

// Update applies a partial update. In ModeEntireSeries the root and every
// live instance change together, with time changes applied as a shift; on an
// event outside any series every mode behaves like ModeSingle.
func (s *Service) Update(ctx context.Context, id, actorID string, mode UpdateMode, req *UpdateEventRequest) (*Event, error) {
	if mode == "" {
		mode = ModeSingle
	}
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}
	if err := validatePatch(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy(RelationshipOf(current, actorID)).Write {
		return nil, ErrNotAuthorized
	}

	if seriesID := current.SeriesID(); mode == ModeEntireSeries && seriesID != "" {
		return s.updateSeries(ctx, current, seriesID, actorID, req)
	}

	now := s.now().UTC()
	var before *Event
	updated, err := s.repo.Update(ctx, id, func(e *Event) error {
		if e.Deleted {
			return ErrEventNotFound
		}
		if !s.policy(RelationshipOf(e, actorID)).Write {
			return ErrNotAuthorized
		}
		before = e.Clone()

		start, end := e.Start, e.End
		if req.Start != nil {
			start = req.Start
		}
		if req.End != nil {
			end = req.End
		}
		if err := checkTimes(start, end); err != nil {
			return err
		}
		e.Start, e.End = start, end
		applyFields(e, req)
		e.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrEventNotFound
	}

	s.logger.Info("event updated", zap.String("event_id", id), zap.String("mode", string(mode)), zap.String("actor_id", actorID))
	return updated, s.afterUpdate(ctx, updated, []*Event{before}, []*Event{updated}, req)
}

func (s *Service) updateSeries(ctx context.Context, current *Event, seriesID, actorID string, req *UpdateEventRequest) (*Event, error) {
	var startShift, endShift time.Duration
	if req.Start != nil || req.End != nil {
		if current.Start == nil || current.End == nil {
			return nil, ErrSeriesWithoutTime
		}
		if req.Start != nil {
			startShift = req.Start.Sub(*current.Start)
		}
		if req.End != nil {
			endShift = req.End.Sub(*current.End)
		}
	}

	now := s.now().UTC()
	var before []*Event
	members, err := s.repo.UpdateSeries(ctx, seriesID, func(e *Event) error {
		before = append(before, e.Clone())

		if e.Start != nil && e.End != nil {
			start, end := e.Start.Add(startShift), e.End.Add(endShift)
			if err := checkTimes(&start, &end); err != nil {
				return err
			}
			e.Start, e.End = &start, &end
		}
		applyFields(e, req)
		e.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if members == nil {
		return nil, ErrEventNotFound
	}

	s.logger.Info("series updated",
		zap.String("series_id", seriesID),
		zap.Int("events", len(members)),
		zap.String("actor_id", actorID),
	)

	updated := members[0]
	for _, m := range members {
		if m.ID == current.ID {
			updated = m
		}
	}
	return updated, s.afterUpdate(ctx, members[0], before, members, req)
}

// afterUpdate regenerates invitations when the attendee list changed and
// reschedules reminders of members whose start or reminder specs changed.
// Members that became cancelled drop their unsent reminders instead.
// owner is the event the invitations belong to.
func (s *Service) afterUpdate(ctx context.Context, owner *Event, before, after []*Event, req *UpdateEventRequest) error {
	completed := []Step{StepUpdate}

	if req.Attendees != nil && !sameMembers(before[0].Attendees, owner.Attendees) {
		if _, err := s.invitations.ReplaceForEvent(ctx, owner.ID, owner.OrganizerID, owner.Attendees); err != nil {
			return &PartialError{EventID: owner.ID, Completed: completed, Failed: StepInvite, Err: err}
		}
		completed = append(completed, StepInvite)
	}

	for i, e := range after {
		wasCancelled := before[i].Status == StatusCancelled
		var err error
		switch {
		case e.Status == StatusCancelled:
			// a cancelled event keeps no pending reminders
			if !wasCancelled || req.Reminders != nil {
				err = s.reminders.CancelForEvent(ctx, e.ID)
			}
		case wasCancelled || startMoved(before[i], e) || req.Reminders != nil:
			_, err = s.reminders.Reschedule(ctx, target(e))
		}
		if err != nil {
			return &PartialError{EventID: owner.ID, Completed: completed, Failed: StepRemind, Err: err}
		}
	}
	return nil
}

// Delete soft-deletes an event, or a series root together with its
// instances, then cancels their invitations and unsent reminders
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy(RelationshipOf(e, actorID)).Delete {
		return ErrNotAuthorized
	}

	now := s.now().UTC()
	mark := func(ev *Event) error {
		ev.Deleted = true
		ev.DeletedAt = &now
		ev.DeletedBy = actorID
		ev.UpdatedAt = now
		return nil
	}

	var deleted []*Event
	if e.IsSeriesRoot() {
		deleted, err = s.repo.UpdateSeries(ctx, id, mark)
	} else {
		var one *Event
		one, err = s.repo.Update(ctx, id, func(ev *Event) error {
			if ev.Deleted {
				return ErrEventNotFound
			}
			return mark(ev)
		})
		if one != nil {
			deleted = []*Event{one}
		}
	}
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return ErrEventNotFound
	}

	s.logger.Info("event deleted", zap.String("event_id", id), zap.String("actor_id", actorID), zap.Int("events", len(deleted)))

	completed := []Step{StepSoftDelete}
	for _, d := range deleted {
		if err := s.invitations.CancelForEvent(ctx, d.ID); err != nil {
			return &PartialError{EventID: id, Completed: completed, Failed: StepCancelInvites, Err: err}
		}
	}
	completed = append(completed, StepCancelInvites)
	for _, d := range deleted {
		if err := s.reminders.CancelForEvent(ctx, d.ID); err != nil {
			return &PartialError{EventID: id, Completed: completed, Failed: StepCancelReminders, Err: err}
		}
	}
	return nil
}

// Query retrieves live events matching f, sorted by start time with
// untimed events last, plus the total number of matches
func (s *Service) Query(ctx context.Context, f Filter) ([]*Event, int, error) {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultQueryLimit
	}
	if f.Limit > MaxQueryLimit {
		f.Limit = MaxQueryLimit
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, 0, apperr.Validationf("invalid event type: %s", f.Type)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validationf("invalid event status: %s", f.Status)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, 0, apperr.New(apperr.ErrInvalidTimeRange, "query range ends before it starts")
	}

	if f.ViewerID != "" {
		return s.queryVisible(ctx, f)
	}

	events, total, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if events == nil {
		events = []*Event{}
	}
	return events, total, nil
}

// queryVisible drops the matches the viewer may not read before paging, so
// totals count only what the viewer can see
func (s *Service) queryVisible(ctx context.Context, f Filter) ([]*Event, int, error) {
	all := f
	all.Offset, all.Limit = 0, 0
	matches, _, err := s.repo.Query(ctx, all)
	if err != nil {
		return nil, 0, err
	}

	calendars := make(map[string]bool)
	visible := make([]*Event, 0, len(matches))
	for _, e := range matches {
		ok, err := s.visible(ctx, e, f.ViewerID, calendars)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			visible = append(visible, e)
		}
	}

	total := len(visible)
	if f.Offset >= total {
		return []*Event{}, total, nil
	}
	visible = visible[f.Offset:]
	if len(visible) > f.Limit {
		visible = visible[:f.Limit]
	}
	return visible, total, nil
}

// Busy retrieves the events occupying actorID's time in [start, end)
func (s *Service) Busy(ctx context.Context, actorID string, start, end time.Time) ([]*Event, error) {
	return s.repo.Busy(ctx, actorID, start, end)
}

// Stats summarizes the live events the actor organizes or attends
func (s *Service) Stats(ctx context.Context, actorID string, now time.Time) (*Stats, error) {
	events, _, err := s.repo.Query(ctx, Filter{ActorID: actorID})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ByStatus: make(map[Status]int),
		ByType:   make(map[Type]int),
	}
	y, m, d := now.Date()
	for _, e := range events {
		stats.Total++
		stats.ByStatus[e.Status]++
		stats.ByType[e.Type]++
		if e.IsSeriesRoot() {
			stats.RecurringSeries++
		}
		if e.Start == nil || e.Status == StatusCancelled {
			continue
		}
		if e.Start.After(now) {
			stats.Upcoming++
		}
		if ey, em, ed := e.Start.In(now.Location()).Date(); ey == y && em == m && ed == d {
			stats.Today++
		}
	}
	return stats, nil
}

// PurgeCalendar hard-deletes every event of a calendar along with their
// invitations and reminders. It backs calendar deletion.
func (s *Service) PurgeCalendar(ctx context.Context, calendarID string) error {
	ids, err := s.repo.ListIDsByCalendar(ctx, calendarID)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		if err := s.invitations.PurgeEvent(ctx, id); err != nil {
			errs = append(errs, err)
		}
		if err := s.reminders.PurgeEvent(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	n, err := s.repo.DeleteByCalendar(ctx, calendarID)
	if err != nil {
		return err
	}

	s.logger.Info("calendar events purged", zap.String("calendar_id", calendarID), zap.Int("events", n))
	return nil
}

func (s *Service) build(cal *calendar.Calendar, actorID string, req *CreateEventRequest) (*Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := s.now().UTC()
	e := &Event{
		ID:            uuid.NewString(),
		CalendarID:    cal.ID,
		Title:         title,
		Description:   req.Description,
		Type:          req.Type,
		Status:        req.Status,
		Start:         cloneTime(req.Start),
		End:           cloneTime(req.End),
		AllDay:        req.AllDay,
		Timezone:      req.Timezone,
		Location:      req.Location,
		MeetingURL:    req.MeetingURL,
		OrganizerID:   actorID,
		Attendees:     dedupe(req.Attendees),
		Recurring:     req.Recurring,
		RecurrenceEnd: cloneTime(req.RecurrenceEnd),
		Reminders:     append([]reminder.Spec{}, req.Reminders...),
		Priority:      req.Priority,
		Visibility:    req.Visibility,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if e.Type == "" {
		e.Type = TypeMeeting
	}
	if e.Status == "" {
		e.Status = StatusScheduled
	}
	if e.Priority == "" {
		e.Priority = PriorityMedium
	}
	if e.Visibility == "" {
		e.Visibility = VisibilityDefault
	}
	if e.Timezone == "" {
		e.Timezone = cal.Settings.Timezone
	}
	if err := validateEnums(&e.Type, &e.Status, &e.Priority, &e.Visibility); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(e.Timezone); err != nil {
		return nil, apperr.Validationf("invalid timezone: %s", e.Timezone)
	}
	if err := reminder.ValidateSpecs(e.Reminders); err != nil {
		return nil, err
	}

	if e.Start != nil && e.End == nil {
		end := e.Start.Add(defaultDuration(cal, e.AllDay))
		e.End = &end
	}
	if err := checkTimes(e.Start, e.End); err != nil {
		return nil, err
	}

	if e.Recurring {
		if req.Recurrence == nil || e.Start == nil {
			return nil, ErrPatternRequired
		}
		if err := req.Recurrence.Validate(); err != nil {
			return nil, err
		}
		p := *req.Recurrence
		e.Recurrence = &p
		if e.RecurrenceEnd != nil && !e.RecurrenceEnd.After(*e.Start) {
			return nil, ErrRecurrenceEnd
		}
	} else {
		e.RecurrenceEnd = nil
	}
	return e, nil
}

// expand builds the instances of a series root. Instances copy the root
// except for identity, times and the recurrence fields.
func (s *Service) expand(root *Event) ([]*Event, error) {
	occurrences, err := s.expander.Occurrences(*root.Recurrence, *root.Start, *root.End, root.RecurrenceEnd)
	if err != nil {
		return nil, err
	}

	parentID := root.ID
	instances := make([]*Event, 0, len(occurrences))
	for _, o := range occurrences {
		inst := root.Clone()
		start, end := o.Start, o.End
		inst.ID = uuid.NewString()
		inst.ParentEventID = &parentID
		inst.Start, inst.End = &start, &end
		inst.Recurring = false
		inst.Recurrence = nil
		inst.RecurrenceEnd = nil
		inst.InstancesExpanded = false
		instances = append(instances, inst)
	}
	return instances, nil
}

func defaultDuration(cal *calendar.Calendar, allDay bool) time.Duration {
	if allDay {
		return 24 * time.Hour
	}
	minutes := cal.Settings.DefaultDurationMinutes
	if minutes <= 0 {
		minutes = calendar.DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func checkTimes(start, end *time.Time) error {
	if (start == nil) != (end == nil) {
		return ErrIncompleteTimes
	}
	if start != nil && !start.Before(*end) {
		return ErrInvalidTimeRange
	}
	return nil
}

func validateEnums(t *Type, st *Status, p *Priority, v *Visibility) error {
	if t != nil && !t.Valid() {
		return apperr.Validationf("invalid event type: %s", *t)
	}
	if st != nil && !st.Valid() {
		return apperr.Validationf("invalid event status: %s", *st)
	}
	if p != nil && !p.Valid() {
		return apperr.Validationf("invalid event priority: %s", *p)
	}
	if v != nil && !v.Valid() {
		return apperr.Validationf("invalid event visibility: %s", *v)
	}
	return nil
}

func validatePatch(req *UpdateEventRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return ErrTitleRequired
	}
	if err := validateEnums(req.Type, req.Status, req.Priority, req.Visibility); err != nil {
		return err
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return apperr.Validationf("invalid timezone: %s", *req.Timezone)
		}
	}
	if req.Reminders != nil {
		return reminder.ValidateSpecs(*req.Reminders)
	}
	return nil
}

// applyFields copies every non-time field set in req onto e
func applyFields(e *Event, req *UpdateEventRequest) {
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.AllDay != nil {
		e.AllDay = *req.AllDay
	}
	if req.Timezone != nil {
		e.Timezone = *req.Timezone
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.MeetingURL != nil {
		e.MeetingURL = *req.MeetingURL
	}
	if req.Attendees != nil {
		e.Attendees = dedupe(*req.Attendees)
	}
	if req.Reminders != nil {
		e.Reminders = append([]reminder.Spec{}, (*req.Reminders)...)
	}
	if req.Priority != nil {
		e.Priority = *req.Priority
	}
	if req.Visibility != nil {
		e.Visibility = *req.Visibility
	}
}

func target(e *Event) reminder.Target {
	return reminder.Target{
		EventID:     e.ID,
		RecipientID: e.OrganizerID,
		Title:       e.Title,
		Start:       e.Start,
		Specs:       e.Reminders,
	}
}

func startMoved(before, after *Event) bool {
	switch {
	case before.Start == nil && after.Start == nil:
		return false
	case before.Start == nil || after.Start == nil:
		return true
	}
	return !before.Start.Equal(*after.Start)
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	for _, x := range b {
		if !set[x] {
			return false
		}
	}
	return true
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
