package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/calendar/pkg/apperr"
)

func newTestService(t *testing.T) (*Service, *Calendar) {
	t.Helper()
	svc := NewService(NewMemoryRepository(), nil)
	def, err := svc.EnsureDefault(context.Background(), "Company")
	if err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	return svc, def
}

func TestEnsureDefaultIsIdempotent(t *testing.T) {
	svc, def := newTestService(t)

	again, err := svc.EnsureDefault(context.Background(), "Other")
	if err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	if again.ID != def.ID {
		t.Fatalf("expected the existing default %s, got %s", def.ID, again.ID)
	}
	if !def.IsDefault || def.OwnerID != SystemOwner {
		t.Fatalf("unexpected default calendar: %+v", def)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	cal, err := svc.Create(context.Background(), "alice", &CreateCalendarRequest{
		Name:    "  Work ",
		Members: []string{"bob", "bob", ""},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cal.Name != "Work" || cal.OwnerID != "alice" {
		t.Fatalf("unexpected calendar: %+v", cal)
	}
	if cal.Kind != KindPersonal || cal.Visibility != VisibilityPrivate {
		t.Fatalf("unexpected kind/visibility: %s/%s", cal.Kind, cal.Visibility)
	}
	if cal.Settings.DefaultDurationMinutes != 60 || cal.Settings.WorkingHours != DefaultWorkingHours {
		t.Fatalf("unexpected settings: %+v", cal.Settings)
	}
	if len(cal.Members) != 1 || cal.Members[0] != "bob" {
		t.Fatalf("expected deduplicated members, got %v", cal.Members)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  CreateCalendarRequest
	}{
		{name: "missing name", req: CreateCalendarRequest{Name: " "}},
		{name: "unknown kind", req: CreateCalendarRequest{Name: "x", Kind: "galactic"}},
		{name: "unknown visibility", req: CreateCalendarRequest{Name: "x", Visibility: "secret"}},
		{name: "bad permission", req: CreateCalendarRequest{Name: "x", Permissions: map[string][]Permission{"bob": {"admin"}}}},
		{name: "inverted working hours", req: CreateCalendarRequest{Name: "x", Settings: &Settings{WorkingHours: WorkingHours{Start: "17:00", End: "09:00"}}}},
		{name: "bad timezone", req: CreateCalendarRequest{Name: "x", Settings: &Settings{Timezone: "Mars/Olympus"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "alice", &tt.req)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetMissingCalendar(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrCalendarNotFound) || !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cal, err := svc.Create(ctx, "alice", &CreateCalendarRequest{
		Name:        "Team",
		Members:     []string{"bob", "carol"},
		Permissions: map[string][]Permission{"bob": {PermissionRead, PermissionWrite}, "carol": {PermissionRead}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "Renamed"
	if _, err := svc.Update(ctx, cal.ID, "bob", &UpdateCalendarRequest{Name: &name}); err != nil {
		t.Fatalf("member with write should update: %v", err)
	}
	if _, err := svc.Update(ctx, cal.ID, "carol", &UpdateCalendarRequest{Name: &name}); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("read-only member: expected permission denied, got %v", err)
	}
	if _, err := svc.Update(ctx, cal.ID, "mallory", &UpdateCalendarRequest{Name: &name}); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("stranger: expected permission denied, got %v", err)
	}

	members := []string{"bob"}
	if _, err := svc.Update(ctx, cal.ID, "bob", &UpdateCalendarRequest{Members: &members}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("only the owner changes membership, got %v", err)
	}

	if _, err := svc.Update(ctx, "missing", "alice", &UpdateCalendarRequest{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	got, _ := svc.GetByID(ctx, cal.ID)
	if got.Name != "Renamed" {
		t.Fatalf("expected rename to persist, got %q", got.Name)
	}
}

func TestDeleteRules(t *testing.T) {
	svc, def := newTestService(t)
	ctx := context.Background()

	var cascaded []string
	svc.SetCascade(func(ctx context.Context, calendarID string) error {
		cascaded = append(cascaded, calendarID)
		return nil
	})

	if err := svc.Delete(ctx, def.ID, SystemOwner); !errors.Is(err, apperr.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation deleting default, got %v", err)
	}

	cal, _ := svc.Create(ctx, "alice", &CreateCalendarRequest{Name: "Mine"})
	if err := svc.Delete(ctx, cal.ID, "bob"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := svc.Delete(ctx, cal.ID, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(cascaded) != 1 || cascaded[0] != cal.ID {
		t.Fatalf("expected cascade for %s, got %v", cal.ID, cascaded)
	}
	if err := svc.Delete(ctx, cal.ID, "alice"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDeleteKeepsCalendarWhenCascadeFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.SetCascade(func(context.Context, string) error { return errors.New("boom") })

	cal, _ := svc.Create(ctx, "alice", &CreateCalendarRequest{Name: "Mine"})
	if err := svc.Delete(ctx, cal.ID, "alice"); err == nil {
		t.Fatal("expected cascade failure to surface")
	}
	if _, err := svc.GetByID(ctx, cal.ID); err != nil {
		t.Fatalf("calendar should survive a failed cascade: %v", err)
	}
}

func TestListIncludeShared(t *testing.T) {
	svc, def := newTestService(t)
	ctx := context.Background()

	own, _ := svc.Create(ctx, "alice", &CreateCalendarRequest{Name: "Own"})
	member, _ := svc.Create(ctx, "bob", &CreateCalendarRequest{Name: "Member", Members: []string{"alice"}})
	team, _ := svc.Create(ctx, "bob", &CreateCalendarRequest{Name: "Team", Kind: KindTeam, Visibility: VisibilityShared})
	public, _ := svc.Create(ctx, "bob", &CreateCalendarRequest{Name: "Public", Visibility: VisibilityPublic})
	hidden, _ := svc.Create(ctx, "bob", &CreateCalendarRequest{Name: "Hidden", Kind: KindShared, Visibility: VisibilityShared})

	owned, err := svc.List(ctx, "alice", false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(owned) != 1 || owned[0].ID != own.ID {
		t.Fatalf("expected only owned calendar, got %d", len(owned))
	}

	all, _ := svc.List(ctx, "alice", true)
	seen := map[string]bool{}
	for _, c := range all {
		seen[c.ID] = true
	}
	for _, want := range []*Calendar{own, member, team, public, def} {
		if !seen[want.ID] {
			t.Errorf("expected %q in shared listing", want.Name)
		}
	}
	if seen[hidden.ID] {
		t.Error("shared non-team calendar should not be listed")
	}
}

func TestAuthorizeWrite(t *testing.T) {
	svc, def := newTestService(t)
	ctx := context.Background()

	got, err := svc.AuthorizeWrite(ctx, "", "anyone")
	if err != nil || got.ID != def.ID {
		t.Fatalf("empty id should resolve to the default calendar, got %v, %v", got, err)
	}

	cal, _ := svc.Create(ctx, "alice", &CreateCalendarRequest{Name: "Mine"})
	if _, err := svc.AuthorizeWrite(ctx, cal.ID, "bob"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if _, err := svc.AuthorizeWrite(ctx, "missing", "alice"); !errors.Is(err, ErrCalendarNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWithWritableAndWithExisting(t *testing.T) {
	svc, def := newTestService(t)
	ctx := context.Background()
	cal, _ := svc.Create(ctx, "alice", &CreateCalendarRequest{Name: "Mine"})

	var seen string
	if err := svc.WithWritable(ctx, "", "anyone", func(c *Calendar) error {
		seen = c.ID
		return nil
	}); err != nil || seen != def.ID {
		t.Fatalf("WithWritable() on the default calendar = %s, %v", seen, err)
	}

	called := false
	err := svc.WithWritable(ctx, cal.ID, "bob", func(*Calendar) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrNotAuthorized) || called {
		t.Fatalf("non-writer: err = %v, fn called = %v", err, called)
	}

	boom := errors.New("boom")
	if err := svc.WithExisting(ctx, cal.ID, func(*Calendar) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("fn error should pass through, got %v", err)
	}
	if err := svc.WithExisting(ctx, "missing", func(*Calendar) error { return nil }); !errors.Is(err, ErrCalendarNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, cal.ID, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.WithWritable(ctx, cal.ID, "alice", func(*Calendar) error { return nil }); !errors.Is(err, ErrCalendarNotFound) {
		t.Fatalf("deleted calendar: expected not found, got %v", err)
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("09:30")
	if err != nil || d.Minutes() != 570 {
		t.Fatalf("ParseClock(09:30) = %v, %v", d, err)
	}
	if _, err := ParseClock("25:00"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
