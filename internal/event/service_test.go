package event

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fkhayef/calendar/internal/calendar"
	"github.com/fkhayef/calendar/internal/invitation"
	"github.com/fkhayef/calendar/internal/recurrence"
	"github.com/fkhayef/calendar/internal/reminder"
	"github.com/fkhayef/calendar/pkg/apperr"
)

type fixture struct {
	events      *Service
	calendars   *calendar.Service
	invitations *invitation.Manager
	reminders   *reminder.Scheduler
	defaultCal  *calendar.Calendar
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()

	calendars := calendar.NewService(calendar.NewMemoryRepository(), nil)
	def, err := calendars.EnsureDefault(ctx, "Company")
	if err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	invitations := invitation.NewManager(invitation.NewMemoryRepository(), nil)
	reminders := reminder.NewScheduler(reminder.NewMemoryRepository(), nil)
	events := NewService(NewMemoryRepository(), calendars, invitations, reminders, opts...)
	calendars.SetCascade(events.PurgeCalendar)

	return &fixture{
		events:      events,
		calendars:   calendars,
		invitations: invitations,
		reminders:   reminders,
		defaultCal:  def,
	}
}

func at(day, hour, minute int) *time.Time {
	t := time.Date(2025, 1, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestCreateUsesDefaultCalendarAndDerivesEnd(t *testing.T) {
	f := newFixture(t)

	e, err := f.events.Create(context.Background(), "alice", &CreateEventRequest{
		Title: "Kickoff",
		Start: at(6, 9, 0),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.CalendarID != f.defaultCal.ID {
		t.Fatalf("expected default calendar, got %s", e.CalendarID)
	}
	if !e.End.Equal(*at(6, 10, 0)) {
		t.Fatalf("expected end derived from the 60 minute default, got %v", e.End)
	}
	if e.Type != TypeMeeting || e.Status != StatusScheduled || e.Priority != PriorityMedium || e.Timezone != "UTC" {
		t.Fatalf("unexpected defaults: %+v", e)
	}
	if e.ParentEventID != nil {
		t.Fatal("a new event must not have a parent")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	private, _ := f.calendars.Create(ctx, "bob", &calendar.CreateCalendarRequest{Name: "Bob"})

	tests := []struct {
		name string
		req  CreateEventRequest
		kind error
	}{
		{name: "missing title", req: CreateEventRequest{Title: " "}, kind: apperr.ErrValidation},
		{name: "start equals end", req: CreateEventRequest{Title: "x", Start: at(6, 9, 0), End: at(6, 9, 0)}, kind: apperr.ErrInvalidTimeRange},
		{name: "start after end", req: CreateEventRequest{Title: "x", Start: at(6, 10, 0), End: at(6, 9, 0)}, kind: apperr.ErrInvalidTimeRange},
		{name: "end without start", req: CreateEventRequest{Title: "x", End: at(6, 9, 0)}, kind: apperr.ErrValidation},
		{name: "unknown type", req: CreateEventRequest{Title: "x", Type: "party"}, kind: apperr.ErrValidation},
		{name: "recurring without pattern", req: CreateEventRequest{Title: "x", Start: at(6, 9, 0), Recurring: true}, kind: apperr.ErrValidation},
		{name: "recurring without start", req: CreateEventRequest{Title: "x", Recurring: true, Recurrence: &recurrence.Pattern{Frequency: recurrence.FrequencyDaily}}, kind: apperr.ErrValidation},
		{name: "bad reminder", req: CreateEventRequest{Title: "x", Reminders: []reminder.Spec{{Channel: "fax"}}}, kind: apperr.ErrValidation},
		{name: "missing calendar", req: CreateEventRequest{Title: "x", CalendarID: "nope"}, kind: apperr.ErrNotFound},
		{name: "foreign calendar", req: CreateEventRequest{Title: "x", CalendarID: private.ID}, kind: apperr.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.events.Create(ctx, "alice", &tt.req)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestCreateWeeklySeries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:      "Weekly sync",
		Start:      at(6, 9, 0),
		End:        at(6, 10, 0),
		Recurring:  true,
		Recurrence: &recurrence.Pattern{Frequency: recurrence.FrequencyWeekly},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !root.InstancesExpanded || !root.IsSeriesRoot() {
		t.Fatalf("root should be an expanded series root: %+v", root)
	}

	instances, _ := f.events.repo.ListInstances(ctx, root.ID)
	if len(instances) != 52 {
		t.Fatalf("expected 52 weekly instances in one year, got %d", len(instances))
	}
	if !instances[0].Start.Equal(*at(13, 9, 0)) || !instances[1].Start.Equal(*at(20, 9, 0)) {
		t.Fatalf("unexpected first instances %v, %v", instances[0].Start, instances[1].Start)
	}
	for _, inst := range instances {
		if !inst.Start.After(*root.Start) {
			t.Fatalf("instance %v is not after the root", inst.Start)
		}
		if inst.Recurring || inst.Recurrence != nil || inst.ParentEventID == nil || *inst.ParentEventID != root.ID {
			t.Fatalf("malformed instance %+v", inst)
		}
		if inst.End.Sub(*inst.Start) != time.Hour {
			t.Fatalf("instance lost its duration: %v", inst.End.Sub(*inst.Start))
		}
	}
}

func TestCreateSeriesRespectsCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:      "Daily",
		Start:      at(6, 9, 0),
		Recurring:  true,
		Recurrence: &recurrence.Pattern{Frequency: recurrence.FrequencyDaily},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	instances, _ := f.events.repo.ListInstances(ctx, root.ID)
	if len(instances) != 100 {
		t.Fatalf("expected the 100 instance cap, got %d", len(instances))
	}

	capped := newFixture(t, WithExpander(recurrence.NewExpander(5)))
	root, _ = capped.events.Create(ctx, "alice", &CreateEventRequest{
		Title:      "Daily",
		Start:      at(6, 9, 0),
		Recurring:  true,
		Recurrence: &recurrence.Pattern{Frequency: recurrence.FrequencyDaily},
	})
	instances, _ = capped.events.repo.ListInstances(ctx, root.ID)
	if len(instances) != 5 {
		t.Fatalf("expected configured cap of 5, got %d", len(instances))
	}
}

func TestCreateFansOutInvitationsAndReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:     "Review",
		Start:     at(6, 9, 0),
		End:       at(6, 10, 0),
		Attendees: []string{"bob", "carol"},
		Reminders: []reminder.Spec{{Channel: reminder.ChannelEmail, MinutesBefore: 15}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	invs, _ := f.invitations.ListForEvent(ctx, e.ID)
	if len(invs) != 2 {
		t.Fatalf("expected 2 invitations, got %d", len(invs))
	}
	notes, _ := f.reminders.ListForEvent(ctx, e.ID)
	if len(notes) != 1 || !notes[0].FireAt.Equal(*at(6, 8, 45)) || notes[0].RecipientID != "alice" {
		t.Fatalf("unexpected reminders %+v", notes)
	}
}

type flakyInvitations struct {
	*invitation.Manager
	fail bool
}

func (f *flakyInvitations) CreateForEvent(ctx context.Context, eventID, inviterID string, attendees []string) ([]*invitation.Invitation, error) {
	if f.fail {
		return nil, errors.New("invitation store unavailable")
	}
	return f.Manager.CreateForEvent(ctx, eventID, inviterID, attendees)
}

func TestCreatePartialFailureAndResume(t *testing.T) {
	ctx := context.Background()
	calendars := calendar.NewService(calendar.NewMemoryRepository(), nil)
	calendars.EnsureDefault(ctx, "Company")
	invitations := &flakyInvitations{Manager: invitation.NewManager(invitation.NewMemoryRepository(), nil), fail: true}
	reminders := reminder.NewScheduler(reminder.NewMemoryRepository(), nil)
	events := NewService(NewMemoryRepository(), calendars, invitations, reminders)

	e, err := events.Create(ctx, "alice", &CreateEventRequest{
		Title:      "Planning",
		Start:      at(6, 9, 0),
		Attendees:  []string{"bob"},
		Recurring:  true,
		Recurrence: &recurrence.Pattern{Frequency: recurrence.FrequencyWeekly, Interval: 2},
		Reminders:  []reminder.Spec{{Channel: reminder.ChannelPush, MinutesBefore: 10}},
	})

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected partial error, got %v", err)
	}
	if partial.Failed != StepInvite || len(partial.Completed) != 2 || partial.Completed[1] != StepExpand {
		t.Fatalf("unexpected steps: completed %v failed %s", partial.Completed, partial.Failed)
	}
	if e == nil {
		t.Fatal("the stored event should be returned with a partial error")
	}

	stored, err := events.Get(ctx, e.ID)
	if err != nil || !stored.InstancesExpanded {
		t.Fatalf("root should be stored and expanded: %+v, %v", stored, err)
	}
	before, _ := events.repo.ListInstances(ctx, e.ID)

	invitations.fail = false
	if _, err := events.Resume(ctx, e.ID, "bob"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("only the organizer resumes, got %v", err)
	}
	if _, err := events.Resume(ctx, e.ID, "alice"); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if _, err := events.Resume(ctx, e.ID, "alice"); err != nil {
		t.Fatalf("second Resume() error = %v", err)
	}

	after, _ := events.repo.ListInstances(ctx, e.ID)
	if len(after) != len(before) {
		t.Fatalf("resume must not expand again: %d -> %d", len(before), len(after))
	}
	invs, _ := invitations.ListForEvent(ctx, e.ID)
	if len(invs) != 1 {
		t.Fatalf("expected exactly one invitation after retries, got %d", len(invs))
	}
	notes, _ := reminders.ListForEvent(ctx, after[0].ID)
	if len(notes) != 1 {
		t.Fatalf("expected one reminder per instance, got %d", len(notes))
	}
}

func TestResumeExpandsUnexpandedRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	legacy := &Event{
		ID:            "legacy",
		CalendarID:    f.defaultCal.ID,
		Title:         "Legacy series",
		Type:          TypeMeeting,
		Status:        StatusScheduled,
		Start:         at(6, 9, 0),
		End:           at(6, 10, 0),
		OrganizerID:   "alice",
		Recurring:     true,
		Recurrence:    &recurrence.Pattern{Frequency: recurrence.FrequencyDaily},
		RecurrenceEnd: at(10, 9, 0),
	}
	if err := f.events.repo.Create(ctx, legacy); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e, err := f.events.Resume(ctx, "legacy", "alice")
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if !e.InstancesExpanded {
		t.Fatal("root should be marked expanded")
	}
	instances, _ := f.events.repo.ListInstances(ctx, "legacy")
	if len(instances) != 4 {
		t.Fatalf("expected 4 daily instances through Jan 10, got %d", len(instances))
	}
}

func TestUpdatePermissionsAndTimes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, _ := f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:     "Sync",
		Start:     at(6, 9, 0),
		End:       at(6, 10, 0),
		Attendees: []string{"bob"},
	})

	title := "Sync (moved)"
	if _, err := f.events.Update(ctx, e.ID, "bob", ModeSingle, &UpdateEventRequest{Title: &title}); err != nil {
		t.Fatalf("attendee update under the default policy: %v", err)
	}
	if _, err := f.events.Update(ctx, e.ID, "mallory", ModeSingle, &UpdateEventRequest{Title: &title}); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("stranger: expected permission denied, got %v", err)
	}
	if _, err := f.events.Update(ctx, e.ID, "alice", ModeSingle, &UpdateEventRequest{Start: at(6, 11, 0)}); !errors.Is(err, apperr.ErrInvalidTimeRange) {
		t.Fatalf("start after end: expected invalid time range, got %v", err)
	}
	if _, err := f.events.Update(ctx, "missing", "alice", ModeSingle, &UpdateEventRequest{Title: &title}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.events.Update(ctx, e.ID, "alice", "sideways", &UpdateEventRequest{Title: &title}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected invalid mode, got %v", err)
	}

	got, _ := f.events.Get(ctx, e.ID)
	if got.Title != title || !got.Start.Equal(*at(6, 9, 0)) {
		t.Fatalf("rejected update must not change the event: %+v", got)
	}

	strict := newFixture(t, WithPolicy(StrictPolicy))
	e, _ = strict.events.Create(ctx, "alice", &CreateEventRequest{Title: "Sync", Attendees: []string{"bob"}})
	if _, err := strict.events.Update(ctx, e.ID, "bob", ModeSingle, &UpdateEventRequest{Title: &title}); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("strict policy: expected permission denied, got %v", err)
	}
}

func TestUpdateAttendeesRegeneratesInvitations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, _ := f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Sync", Attendees: []string{"bob", "carol"}})
	attendees := []string{"carol", "dave"}
	if _, err := f.events.Update(ctx, e.ID, "alice", ModeSingle, &UpdateEventRequest{Attendees: &attendees}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	active := map[string]bool{}
	invs, _ := f.invitations.ListForEvent(ctx, e.ID)
	for _, inv := range invs {
		if inv.Active() {
			active[inv.InviteeID] = true
		}
	}
	if len(active) != 2 || !active["carol"] || !active["dave"] {
		t.Fatalf("unexpected active invitees %v", active)
	}
	if len(invs) != 4 {
		t.Fatalf("cancelled invitations should be kept, got %d records", len(invs))
	}
}

func newSeries(t *testing.T, f *fixture) (*Event, []*Event) {
	t.Helper()
	ctx := context.Background()
	root, err := f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:         "Standup",
		Start:         at(6, 9, 0),
		End:           at(6, 9, 15),
		Recurring:     true,
		Recurrence:    &recurrence.Pattern{Frequency: recurrence.FrequencyDaily},
		RecurrenceEnd: at(9, 9, 0),
		Reminders:     []reminder.Spec{{Channel: reminder.ChannelInApp, MinutesBefore: 5}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	instances, _ := f.events.repo.ListInstances(ctx, root.ID)
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}
	return root, instances
}

func TestUpdateThisInstanceOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root, instances := newSeries(t, f)

	title := "Standup (demo day)"
	if _, err := f.events.Update(ctx, instances[1].ID, "alice", ModeThisInstance, &UpdateEventRequest{Title: &title}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	after, _ := f.events.repo.ListInstances(ctx, root.ID)
	for i, inst := range after {
		if (i == 1) != (inst.Title == title) {
			t.Fatalf("instance %d has title %q", i, inst.Title)
		}
	}
	gotRoot, _ := f.events.Get(ctx, root.ID)
	if gotRoot.Title != "Standup" {
		t.Fatalf("root must not change, got %q", gotRoot.Title)
	}
}

func TestUpdateEntireSeriesShiftsTimes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root, _ := newSeries(t, f)

	title := "Standup v2"
	updated, err := f.events.Update(ctx, root.ID, "alice", ModeEntireSeries, &UpdateEventRequest{
		Title: &title,
		Start: at(6, 10, 0),
		End:   at(6, 10, 30),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Start.Equal(*at(6, 10, 0)) {
		t.Fatalf("root start = %v", updated.Start)
	}

	after, _ := f.events.repo.ListInstances(ctx, root.ID)
	for i, inst := range after {
		day := 7 + i
		if inst.Title != title || !inst.Start.Equal(*at(day, 10, 0)) || !inst.End.Equal(*at(day, 10, 30)) {
			t.Fatalf("instance %d not shifted: %s %v-%v", i, inst.Title, inst.Start, inst.End)
		}
		notes, _ := f.reminders.ListForEvent(ctx, inst.ID)
		if len(notes) != 1 || !notes[0].FireAt.Equal(*at(day, 9, 55)) {
			t.Fatalf("instance %d reminder not rescheduled: %+v", i, notes)
		}
	}
}

func TestUpdateEntireSeriesFromInstance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root, instances := newSeries(t, f)

	loc := "Room 4"
	got, err := f.events.Update(ctx, instances[2].ID, "alice", ModeEntireSeries, &UpdateEventRequest{Location: &loc})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ID != instances[2].ID {
		t.Fatalf("expected the addressed instance back, got %s", got.ID)
	}
	gotRoot, _ := f.events.Get(ctx, root.ID)
	if gotRoot.Location != loc {
		t.Fatal("series update from an instance should reach the root")
	}
}

func TestUpdateCancelledDropsPendingReminders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root, instances := newSeries(t, f)

	cancelled := StatusCancelled
	if _, err := f.events.Update(ctx, root.ID, "alice", ModeEntireSeries, &UpdateEventRequest{Status: &cancelled}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	for _, id := range append([]string{root.ID}, instances[0].ID, instances[1].ID, instances[2].ID) {
		notes, _ := f.reminders.ListForEvent(ctx, id)
		if len(notes) != 0 {
			t.Fatalf("%s still has %d queued reminders", id, len(notes))
		}
	}

	title := "Standup (off)"
	if _, err := f.events.Update(ctx, instances[0].ID, "alice", ModeThisInstance, &UpdateEventRequest{Title: &title}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if notes, _ := f.reminders.ListForEvent(ctx, instances[0].ID); len(notes) != 0 {
		t.Fatalf("editing a cancelled event must not requeue reminders, got %d", len(notes))
	}

	scheduled := StatusScheduled
	if _, err := f.events.Update(ctx, instances[1].ID, "alice", ModeThisInstance, &UpdateEventRequest{Status: &scheduled}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	notes, _ := f.reminders.ListForEvent(ctx, instances[1].ID)
	if len(notes) != 1 || !notes[0].FireAt.Equal(instances[1].Start.Add(-5*time.Minute)) {
		t.Fatalf("restored instance should get its reminder back, got %+v", notes)
	}
}

func TestUpdateEntireSeriesOnPlainEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, _ := f.events.Create(ctx, "alice", &CreateEventRequest{Title: "One-off", Start: at(6, 9, 0), End: at(6, 10, 0)})
	got, err := f.events.Update(ctx, e.ID, "alice", ModeEntireSeries, &UpdateEventRequest{Start: at(6, 8, 0)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !got.Start.Equal(*at(6, 8, 0)) || !got.End.Equal(*at(6, 10, 0)) {
		t.Fatalf("expected a plain absolute update, got %v-%v", got.Start, got.End)
	}
}

func TestUpdateEntireSeriesRejectsInvertedShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root, _ := newSeries(t, f)

	_, err := f.events.Update(ctx, root.ID, "alice", ModeEntireSeries, &UpdateEventRequest{Start: at(6, 9, 30)})
	if !errors.Is(err, apperr.ErrInvalidTimeRange) {
		t.Fatalf("expected invalid time range, got %v", err)
	}
	after, _ := f.events.repo.ListInstances(ctx, root.ID)
	if !after[0].Start.Equal(*at(7, 9, 0)) {
		t.Fatal("a rejected series update must not change any instance")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, _ := f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:     "Offsite",
		Start:     at(20, 9, 0),
		Attendees: []string{"bob"},
		Reminders: []reminder.Spec{{Channel: reminder.ChannelEmail, MinutesBefore: 60}},
	})

	if err := f.events.Delete(ctx, e.ID, "bob"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("attendee delete: expected permission denied, got %v", err)
	}
	if err := f.events.Delete(ctx, e.ID, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.events.Get(ctx, e.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deleted event should be absent, got %v", err)
	}
	if err := f.events.Delete(ctx, e.ID, "alice"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}

	stored, _ := f.events.repo.GetByID(ctx, e.ID)
	if stored == nil || !stored.Deleted || stored.DeletedBy != "alice" || stored.DeletedAt == nil {
		t.Fatalf("soft delete should keep the record with metadata: %+v", stored)
	}

	invs, _ := f.invitations.ListForEvent(ctx, e.ID)
	if _, err := f.invitations.Respond(ctx, invs[0].ID, invitation.StatusAccepted, "bob"); !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Fatalf("responding to a cancelled invitation: got %v", err)
	}
	notes, _ := f.reminders.ListForEvent(ctx, e.ID)
	if len(notes) != 0 {
		t.Fatalf("unsent reminders should be dropped, got %d", len(notes))
	}
}

func TestDeleteSeriesRoot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root, instances := newSeries(t, f)

	if err := f.events.Delete(ctx, root.ID, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	for _, inst := range instances {
		if _, err := f.events.Get(ctx, inst.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("instance %s should be deleted with its root", inst.ID)
		}
	}
	_, total, _ := f.events.Query(ctx, Filter{CalendarID: f.defaultCal.ID})
	if total != 0 {
		t.Fatalf("query should exclude deleted events, got %d", total)
	}
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Untimed task", Type: TypeTask})
	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Late", Start: at(8, 15, 0), Location: "Lisbon office"})
	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Early", Start: at(6, 9, 0), Attendees: []string{"bob"}})
	f.events.Create(ctx, "carol", &CreateEventRequest{Title: "Carol's", Start: at(7, 9, 0), Status: StatusConfirmed})

	all, total, err := f.events.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if total != 4 || all[0].Title != "Early" || all[3].Title != "Untimed task" {
		t.Fatalf("expected start order with untimed last, got %d: %s..%s", total, all[0].Title, all[len(all)-1].Title)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "actor as attendee", filter: Filter{ActorID: "bob"}, want: 1},
		{name: "actor as organizer", filter: Filter{ActorID: "alice"}, want: 3},
		{name: "inclusive range", filter: Filter{From: at(7, 9, 0), To: at(8, 15, 0)}, want: 2},
		{name: "type", filter: Filter{Type: TypeTask}, want: 1},
		{name: "status", filter: Filter{Status: StatusConfirmed}, want: 1},
		{name: "text in location", filter: Filter{Text: "lisbon"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := f.events.Query(ctx, tt.filter)
			if err != nil || total != tt.want {
				t.Fatalf("got %d, %v; want %d", total, err, tt.want)
			}
		})
	}

	page, total, _ := f.events.Query(ctx, Filter{Offset: 1, Limit: 2})
	if total != 4 || len(page) != 2 || page[0].Title != "Carol's" {
		t.Fatalf("unexpected page: total %d, %d items", total, len(page))
	}

	if _, _, err := f.events.Query(ctx, Filter{From: at(8, 0, 0), To: at(7, 0, 0)}); !errors.Is(err, apperr.ErrInvalidTimeRange) {
		t.Fatalf("expected invalid time range, got %v", err)
	}
}

func TestQueryHidesWhatTheViewerCannotRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cal, _ := f.calendars.Create(ctx, "alice", &calendar.CreateCalendarRequest{Name: "Personal"})
	f.events.Create(ctx, "alice", &CreateEventRequest{CalendarID: cal.ID, Title: "Therapy", Start: at(6, 9, 0), Visibility: VisibilityPrivate})
	f.events.Create(ctx, "alice", &CreateEventRequest{CalendarID: cal.ID, Title: "Dentist", Start: at(6, 11, 0), Attendees: []string{"bob"}})
	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Doctor", Start: at(7, 9, 0), Visibility: VisibilityPrivate})
	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Lunch", Start: at(7, 12, 0)})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "owner", filter: Filter{ViewerID: "alice"}, want: []string{"Therapy", "Dentist", "Doctor", "Lunch"}},
		{name: "attendee", filter: Filter{ViewerID: "bob"}, want: []string{"Dentist", "Lunch"}},
		{name: "stranger", filter: Filter{ViewerID: "mallory"}, want: []string{"Lunch"}},
		{name: "stranger on a private calendar", filter: Filter{ViewerID: "mallory", CalendarID: cal.ID}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := f.events.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if total != len(tt.want) || len(got) != len(tt.want) {
				t.Fatalf("got %d (total %d), want %v", len(got), total, tt.want)
			}
			for i, e := range got {
				if e.Title != tt.want[i] {
					t.Fatalf("result %d = %s, want %s", i, e.Title, tt.want[i])
				}
			}
		})
	}

	page, total, _ := f.events.Query(ctx, Filter{ViewerID: "alice", Offset: 1, Limit: 2})
	if total != 4 || len(page) != 2 || page[0].Title != "Dentist" || page[1].Title != "Doctor" {
		t.Fatalf("unexpected page: total %d, %d items", total, len(page))
	}
}

func TestCalendarDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cal, _ := f.calendars.Create(ctx, "alice", &calendar.CreateCalendarRequest{Name: "Project"})
	e, _ := f.events.Create(ctx, "alice", &CreateEventRequest{
		CalendarID: cal.ID,
		Title:      "Milestone",
		Start:      at(6, 9, 0),
		Attendees:  []string{"bob"},
	})

	if err := f.calendars.Delete(ctx, cal.ID, "alice"); err != nil {
		t.Fatalf("calendar Delete() error = %v", err)
	}
	if _, err := f.events.Get(ctx, e.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("event should be gone with its calendar, got %v", err)
	}
	invs, _ := f.invitations.ListForEvent(ctx, e.ID)
	if len(invs) != 0 {
		t.Fatalf("invitations should be purged, got %d", len(invs))
	}
}

func TestCreateWaitsForCalendarDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cal, _ := f.calendars.Create(ctx, "alice", &calendar.CreateCalendarRequest{Name: "Project"})

	created := make(chan error, 1)
	f.calendars.SetCascade(func(ctx context.Context, calendarID string) error {
		go func() {
			_, err := f.events.Create(ctx, "alice", &CreateEventRequest{CalendarID: calendarID, Title: "Late", Start: at(6, 9, 0)})
			created <- err
		}()
		select {
		case err := <-created:
			return fmt.Errorf("create finished while the calendar was being deleted: %v", err)
		case <-time.After(20 * time.Millisecond):
		}
		return f.events.PurgeCalendar(ctx, calendarID)
	})

	if err := f.calendars.Delete(ctx, cal.ID, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := <-created; !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("create after delete: expected not found, got %v", err)
	}
	if _, total, _ := f.events.Query(ctx, Filter{CalendarID: cal.ID}); total != 0 {
		t.Fatalf("expected no events left in the deleted calendar, got %d", total)
	}
}

func TestView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cal, _ := f.calendars.Create(ctx, "alice", &calendar.CreateCalendarRequest{Name: "Private"})
	e, _ := f.events.Create(ctx, "alice", &CreateEventRequest{CalendarID: cal.ID, Title: "Secret", Attendees: []string{"bob"}})

	if _, err := f.events.View(ctx, e.ID, "bob"); err != nil {
		t.Fatalf("attendee should read: %v", err)
	}
	if _, err := f.events.View(ctx, e.ID, "mallory"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("stranger on a private calendar: got %v", err)
	}

	open, _ := f.events.Create(ctx, "alice", &CreateEventRequest{Title: "All hands"})
	if _, err := f.events.View(ctx, open.ID, "mallory"); err != nil {
		t.Fatalf("default calendar events are visible: %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := *at(6, 12, 0)

	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Morning", Start: at(6, 9, 0)})
	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Afternoon", Start: at(6, 15, 0), Type: TypeCall})
	f.events.Create(ctx, "alice", &CreateEventRequest{Title: "Tomorrow", Start: at(7, 9, 0), Status: StatusCancelled})
	f.events.Create(ctx, "alice", &CreateEventRequest{
		Title:         "Series",
		Start:         at(8, 9, 0),
		Recurring:     true,
		Recurrence:    &recurrence.Pattern{Frequency: recurrence.FrequencyDaily},
		RecurrenceEnd: at(9, 9, 0),
	})

	stats, err := f.events.Stats(ctx, "alice", now)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 5 || stats.RecurringSeries != 1 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.Today != 2 || stats.Upcoming != 3 {
		t.Fatalf("today %d upcoming %d", stats.Today, stats.Upcoming)
	}
	if stats.ByType[TypeCall] != 1 || stats.ByStatus[StatusCancelled] != 1 {
		t.Fatalf("unexpected breakdown %+v", stats)
	}
}

func TestPolicies(t *testing.T) {
	e := &Event{OrganizerID: "alice", Attendees: []string{"bob"}}

	tests := []struct {
		policy Policy
		actor  string
		want   Capabilities
	}{
		{DefaultPolicy, "alice", Capabilities{Read: true, Write: true, Delete: true}},
		{DefaultPolicy, "bob", Capabilities{Read: true, Write: true, Respond: true}},
		{DefaultPolicy, "carol", Capabilities{}},
		{StrictPolicy, "bob", Capabilities{Read: true, Respond: true}},
	}
	for _, tt := range tests {
		if got := tt.policy(RelationshipOf(e, tt.actor)); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.actor, got, tt.want)
		}
	}
}
