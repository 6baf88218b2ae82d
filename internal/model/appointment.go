package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
)

var (
	ErrInvalidSpec       = errors.New("invalid appointment spec")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// Status is the lifecycle tag of a persisted appointment.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
	StatusCanceled    Status = "canceled"
	StatusOther       Status = "other"
)

// CanTransitionTo reports whether moving to next is a legal status
// change. Canceled is terminal. A drag-reschedule changes only the date
// and never touches the status; "rescheduled" is set explicitly by the
// status-change flow.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusScheduled:
		return next == StatusRescheduled || next == StatusCanceled
	case StatusRescheduled:
		return next == StatusCanceled
	default:
		return false
	}
}

// ValidateTransition returns ErrInvalidTransition when the change from
// current to next is not part of the appointment state machine.
func ValidateTransition(current, next Status) error {
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}
	return nil
}

// ParseStatus maps a wire value onto a Status, defaulting unknown tags
// to StatusOther.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusScheduled, StatusRescheduled, StatusCanceled:
		return Status(s)
	default:
		return StatusOther
	}
}

// Spec is one concrete, not-yet-persisted appointment: the unit produced
// by recurrence expansion and consumed by batch creation.
type Spec struct {
	ChildID              uuid.UUID `json:"child_id"`
	TherapistID          uuid.UUID `json:"therapist_id"`
	TherapyID            uuid.UUID `json:"therapy_id"`
	Date                 time.Time `json:"date"` // date-only, midnight
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	Status               Status    `json:"status"`
	Note                 string    `json:"note,omitempty"`
	SyncExternalCalendar bool      `json:"sync_external_calendar"`
}

// Validate checks a Spec before any store call is made.
func (s Spec) Validate() error {
	if s.ChildID == uuid.Nil || s.TherapistID == uuid.Nil || s.TherapyID == uuid.Nil {
		return fmt.Errorf("%w: child, therapist and therapy are required", ErrInvalidSpec)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSpec)
	}
	sh, sm, err := calendar.ParseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	eh, em, err := calendar.ParseClock(s.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if eh*60+em <= sh*60+sm {
		return fmt.Errorf("%w: end time %s must be after start time %s", ErrInvalidSpec, s.EndTime, s.StartTime)
	}
	return nil
}

// Event is a persisted appointment as shown on the calendar: a Spec plus
// identity, denormalized display names and optional external-calendar
// linkage.
type Event struct {
	ID                   uuid.UUID `json:"id"`
	ChildID              uuid.UUID `json:"child_id"`
	TherapistID          uuid.UUID `json:"therapist_id"`
	TherapyID            uuid.UUID `json:"therapy_id"`
	ChildName            string    `json:"child_name"`
	TherapistName        string    `json:"therapist_name"`
	TherapyName          string    `json:"therapy_name"`
	Date                 time.Time `json:"date"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	Status               Status    `json:"status"`
	Note                 string    `json:"note,omitempty"`
	SyncExternalCalendar bool      `json:"sync_external_calendar"`
	ExternalEventID      *string   `json:"external_event_id,omitempty"`
}

// Patch is a partial update applied through the store. Nil fields are
// left untouched.
type Patch struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
	Note      *string
}

// EventFilters narrows a set of events. Each dimension is AND-combined;
// an empty ID list leaves that dimension unrestricted. The three status
// toggles each exclude their status when false.
type EventFilters struct {
	ChildIDs     []uuid.UUID
	TherapistIDs []uuid.UUID
	TherapyIDs   []uuid.UUID

	ShowScheduled   bool
	ShowRescheduled bool
	ShowCanceled    bool
}

// DefaultEventFilters is the required initial state: everything visible.
func DefaultEventFilters() EventFilters {
	return EventFilters{
		ShowScheduled:   true,
		ShowRescheduled: true,
		ShowCanceled:    true,
	}
}

// IsDefault reports whether f restricts nothing.
func (f EventFilters) IsDefault() bool {
	return len(f.ChildIDs) == 0 && len(f.TherapistIDs) == 0 && len(f.TherapyIDs) == 0 &&
		f.ShowScheduled && f.ShowRescheduled && f.ShowCanceled
}

// Match reports whether ev passes every filter dimension.
func (f EventFilters) Match(ev Event) bool {
	if !matchID(f.ChildIDs, ev.ChildID) {
		return false
	}
	if !matchID(f.TherapistIDs, ev.TherapistID) {
		return false
	}
	if !matchID(f.TherapyIDs, ev.TherapyID) {
		return false
	}
	switch ev.Status {
	case StatusScheduled:
		return f.ShowScheduled
	case StatusRescheduled:
		return f.ShowRescheduled
	case StatusCanceled:
		return f.ShowCanceled
	default:
		// Only the three named statuses are toggleable.
		return true
	}
}

func matchID(allowed []uuid.UUID, id uuid.UUID) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == id {
			return true
		}
	}
	return false
}
