package event

import (
	"fmt"

	"github.com/fkhayef/calendar/pkg/apperr"
)

// Common errors
var (
	ErrEventNotFound     = apperr.New(apperr.ErrNotFound, "event not found")
	ErrNotAuthorized     = apperr.New(apperr.ErrPermissionDenied, "not authorized to perform this action")
	ErrTitleRequired     = apperr.New(apperr.ErrValidation, "event title is required")
	ErrIncompleteTimes   = apperr.New(apperr.ErrValidation, "start and end must be set together")
	ErrPatternRequired   = apperr.New(apperr.ErrValidation, "recurring events need a recurrence pattern and a start time")
	ErrInvalidMode       = apperr.New(apperr.ErrValidation, "update mode must be single, this_instance or entire_series")
	ErrInvalidTimeRange  = apperr.New(apperr.ErrInvalidTimeRange, "event start must be before its end")
	ErrRecurrenceEnd     = apperr.New(apperr.ErrInvalidTimeRange, "recurrence end must be after the series start")
	ErrSeriesWithoutTime = apperr.New(apperr.ErrInvalidOperation, "cannot shift a series whose event has no start time")
)

// Step names one stage of a multi-step event operation
type Step string

const (
	StepPersist         Step = "persist_event"
	StepExpand          Step = "expand_recurrence"
	StepInvite          Step = "create_invitations"
	StepRemind          Step = "schedule_reminders"
	StepUpdate          Step = "update_event"
	StepSoftDelete      Step = "soft_delete"
	StepCancelInvites   Step = "cancel_invitations"
	StepCancelReminders Step = "cancel_reminders"
)

// PartialError reports a multi-step operation that stopped after some of its
// steps took effect. Completed steps are not rolled back; Resume retries the
// remaining creation steps.
type PartialError struct {
	EventID   string
	Completed []Step
	Failed    Step
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("event %s: %s failed after %v: %v", e.EventID, e.Failed, e.Completed, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// CompletedSteps lists the steps that took effect
func (e *PartialError) CompletedSteps() []string {
	out := make([]string, len(e.Completed))
	for i, s := range e.Completed {
		out[i] = string(s)
	}
	return out
}

// FailedStep names the step that failed
func (e *PartialError) FailedStep() string {
	return string(e.Failed)
}
