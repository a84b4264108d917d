// Package ical renders calendars as RFC 5545 iCalendar documents.
package ical

import (
	"context"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/calendar"
	"github.com/fkhayef/calendar/internal/event"
	"github.com/fkhayef/calendar/internal/logger"
)

const productID = "-//fkhayef//calendar//EN"

// EventLister pages through live events
type EventLister interface {
	Query(ctx context.Context, f event.Filter) ([]*event.Event, int, error)
}

// Exporter writes every live event of a calendar as a VEVENT. Generated
// instances are exported as standalone events related to their series root,
// so the root carries no RRULE.
type Exporter struct {
	events EventLister
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates a new iCalendar exporter
func NewExporter(events EventLister, log *zap.Logger) *Exporter {
	return &Exporter{
		events: events,
		logger: logger.OrNop(log),
		now:    time.Now,
	}
}

// Export writes cal and its events to w
func (x *Exporter) Export(ctx context.Context, cal *calendar.Calendar, w io.Writer) error {
	doc := ics.NewCalendar()
	doc.SetMethod(ics.MethodPublish)
	doc.SetProductId(productID)
	doc.SetName(cal.Name)
	doc.SetXWRCalName(cal.Name)
	if cal.Settings.Timezone != "" {
		doc.SetXWRTimezone(cal.Settings.Timezone)
	}

	stamp := x.now().UTC()
	count := 0
	for offset := 0; ; offset += event.MaxQueryLimit {
		page, total, err := x.events.Query(ctx, event.Filter{
			CalendarID: cal.ID,
			Offset:     offset,
			Limit:      event.MaxQueryLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list events for export: %w", err)
		}
		for _, e := range page {
			addEvent(doc, e, stamp)
			count++
		}
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}

	if _, err := io.WriteString(w, doc.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	x.logger.Debug("calendar exported", zap.String("calendar_id", cal.ID), zap.Int("events", count))
	return nil
}

func addEvent(doc *ics.Calendar, e *event.Event, stamp time.Time) {
	ve := doc.AddEvent(e.ID)
	ve.SetDtStampTime(stamp)
	ve.SetCreatedTime(e.CreatedAt)
	ve.SetModifiedAt(e.UpdatedAt)
	ve.SetStatus(status(e.Status))

	if e.Start != nil && e.End != nil {
		if e.AllDay {
			ve.SetAllDayStartAt(*e.Start)
			ve.SetAllDayEndAt(*e.End)
		} else {
			ve.SetStartAt(*e.Start)
			ve.SetEndAt(*e.End)
		}
	}

	if e.Visibility == event.VisibilityPrivate {
		ve.SetSummary("Busy")
		ve.SetClass(ics.ClassificationPrivate)
		return
	}

	ve.SetSummary(e.Title)
	if e.Description != "" {
		ve.SetDescription(e.Description)
	}
	if e.Location != "" {
		ve.SetLocation(e.Location)
	}
	if e.MeetingURL != "" {
		ve.SetURL(e.MeetingURL)
	}
	ve.SetOrganizer(e.OrganizerID)
	for _, a := range e.Attendees {
		ve.AddAttendee(a)
	}
	if e.ParentEventID != nil {
		ve.SetProperty(ics.ComponentPropertyRelatedTo, *e.ParentEventID)
	}
	for _, r := range e.Reminders {
		alarm := ve.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(fmt.Sprintf("-PT%dM", r.MinutesBefore))
	}
}

func status(s event.Status) ics.ObjectStatus {
	switch s {
	case event.StatusCancelled:
		return ics.ObjectStatusCancelled
	case event.StatusScheduled, event.StatusRescheduled:
		return ics.ObjectStatusTentative
	}
	return ics.ObjectStatusConfirmed
}
