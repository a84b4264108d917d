package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/availability"
	"github.com/fkhayef/calendar/internal/calendar"
	"github.com/fkhayef/calendar/internal/config"
	"github.com/fkhayef/calendar/internal/database"
	"github.com/fkhayef/calendar/internal/event"
	"github.com/fkhayef/calendar/internal/ical"
	"github.com/fkhayef/calendar/internal/invitation"
	"github.com/fkhayef/calendar/internal/notification"
	"github.com/fkhayef/calendar/internal/recurrence"
	"github.com/fkhayef/calendar/internal/reminder"
)

// app holds the wired services and handlers
type app struct {
	db *sql.DB

	dispatcher *reminder.Dispatcher

	calendarHandler     *calendar.Handler
	eventHandler        *event.Handler
	availabilityHandler *availability.Handler
	invitationHandler   *invitation.Handler
	reminderHandler     *reminder.Handler
	notificationHandler *notification.Handler
}

type repositories struct {
	calendars     calendar.Repository
	events        event.Repository
	invitations   invitation.Repository
	reminders     reminder.Repository
	notifications notification.Repository
}

func newApp(ctx context.Context, cfg *config.Config, zl *zap.Logger, migrate bool) (*app, error) {
	a := &app{}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.db = db
		zl.Info("connected to database")

		if migrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		repos = repositories{
			calendars:     calendar.NewRepository(db),
			events:        event.NewRepository(db),
			invitations:   invitation.NewRepository(db),
			reminders:     reminder.NewRepository(db),
			notifications: notification.NewRepository(db),
		}
	default:
		repos = repositories{
			calendars:     calendar.NewMemoryRepository(),
			events:        event.NewMemoryRepository(),
			invitations:   invitation.NewMemoryRepository(),
			reminders:     reminder.NewMemoryRepository(),
			notifications: notification.NewMemoryRepository(),
		}
	}

	policy, ok := event.PolicyByName(cfg.EventPolicy)
	if !ok {
		a.Close()
		return nil, fmt.Errorf("unknown event policy: %s", cfg.EventPolicy)
	}

	// Calendar feature
	calendarService := calendar.NewService(repos.calendars, zl.Named("calendar"))
	if _, err := calendarService.EnsureDefault(ctx, cfg.DefaultCalendarName); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ensure default calendar: %w", err)
	}

	// Inbox, invitation and reminder features
	inbox := notification.NewService(repos.notifications, zl.Named("notification"))
	invitationManager := invitation.NewManager(repos.invitations, zl.Named("invitation"))
	invitationManager.SetNotifier(inbox)
	scheduler := reminder.NewScheduler(repos.reminders, zl.Named("reminder"))

	// Event feature (recurrence, invitations and reminders injected)
	eventService := event.NewService(repos.events, calendarService, invitationManager, scheduler,
		event.WithExpander(recurrence.NewExpander(cfg.RecurrenceMaxInstances)),
		event.WithPolicy(policy),
		event.WithLogger(zl.Named("event")),
	)
	calendarService.SetCascade(eventService.PurgeCalendar)

	engine := availability.NewBruteForce(eventService,
		availability.WithStep(time.Duration(cfg.SlotStepMinutes)*time.Minute),
		availability.WithMaxSlots(cfg.SlotMaxResults),
		availability.WithWorkingHours(calendar.WorkingHours{Start: cfg.WorkingHoursStart, End: cfg.WorkingHoursEnd}),
		availability.WithSearchTimeout(cfg.SlotSearchTimeout),
		availability.WithLogger(zl.Named("availability")),
	)

	sender := notification.NewReminderSender(inbox, reminder.LogSender{Logger: zl.Named("delivery")})
	a.dispatcher = reminder.NewDispatcher(scheduler, sender, zl.Named("dispatcher"))

	a.calendarHandler = calendar.NewHandler(calendarService, ical.NewExporter(eventService, zl.Named("ical")))
	a.eventHandler = event.NewHandler(eventService)
	a.availabilityHandler = availability.NewHandler(engine)
	a.invitationHandler = invitation.NewHandler(invitationManager)
	a.reminderHandler = reminder.NewHandler(scheduler)
	a.notificationHandler = notification.NewHandler(inbox)

	return a, nil
}

// Close releases the database connection, if any
func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
