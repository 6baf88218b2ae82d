package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validSpec() Spec {
	return Spec{
		ChildID:     uuid.New(),
		TherapistID: uuid.New(),
		TherapyID:   uuid.New(),
		Date:        time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Status:      StatusScheduled,
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Spec)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *Spec) {}},
		{name: "missing child", mutate: func(s *Spec) { s.ChildID = uuid.Nil }, wantErr: true},
		{name: "missing therapist", mutate: func(s *Spec) { s.TherapistID = uuid.Nil }, wantErr: true},
		{name: "missing therapy", mutate: func(s *Spec) { s.TherapyID = uuid.Nil }, wantErr: true},
		{name: "zero date", mutate: func(s *Spec) { s.Date = time.Time{} }, wantErr: true},
		{name: "malformed start", mutate: func(s *Spec) { s.StartTime = "10" }, wantErr: true},
		{name: "malformed end", mutate: func(s *Spec) { s.EndTime = "eleven" }, wantErr: true},
		{name: "end equals start", mutate: func(s *Spec) { s.EndTime = "10:00" }, wantErr: true},
		{name: "end before start", mutate: func(s *Spec) { s.EndTime = "09:00" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("Validate() error = %v, want ErrInvalidSpec", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusScheduled, StatusRescheduled, true},
		{StatusScheduled, StatusCanceled, true},
		{StatusRescheduled, StatusCanceled, true},
		{StatusRescheduled, StatusScheduled, false},
		{StatusCanceled, StatusScheduled, false},
		{StatusCanceled, StatusRescheduled, false},
		{StatusCanceled, StatusCanceled, false},
		{StatusOther, StatusCanceled, false},
		{StatusScheduled, StatusScheduled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
		err := ValidateTransition(tt.from, tt.to)
		if tt.allowed && err != nil {
			t.Errorf("ValidateTransition(%s, %s) error = %v", tt.from, tt.to, err)
		}
		if !tt.allowed && !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("ValidateTransition(%s, %s) = %v, want ErrInvalidTransition", tt.from, tt.to, err)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if got := ParseStatus("scheduled"); got != StatusScheduled {
		t.Errorf("ParseStatus(scheduled) = %s", got)
	}
	if got := ParseStatus("no_show"); got != StatusOther {
		t.Errorf("ParseStatus(no_show) = %s, want other", got)
	}
	if got := ParseStatus(""); got != StatusOther {
		t.Errorf("ParseStatus(empty) = %s, want other", got)
	}
}

func TestEventFiltersMatch(t *testing.T) {
	child := uuid.New()
	therapist := uuid.New()
	ev := Event{
		ChildID:     child,
		TherapistID: therapist,
		TherapyID:   uuid.New(),
		Status:      StatusScheduled,
	}

	t.Run("defaults match everything", func(t *testing.T) {
		if !DefaultEventFilters().Match(ev) {
			t.Error("default filters rejected a scheduled event")
		}
	})

	t.Run("empty id list is no restriction", func(t *testing.T) {
		f := DefaultEventFilters()
		f.TherapistIDs = []uuid.UUID{therapist}
		if !f.Match(ev) {
			t.Error("matching therapist filter rejected the event")
		}
	})

	t.Run("non-matching id excludes", func(t *testing.T) {
		f := DefaultEventFilters()
		f.ChildIDs = []uuid.UUID{uuid.New()}
		if f.Match(ev) {
			t.Error("non-matching child filter accepted the event")
		}
	})

	t.Run("dimensions are AND-combined", func(t *testing.T) {
		f := DefaultEventFilters()
		f.ChildIDs = []uuid.UUID{child}
		f.TherapistIDs = []uuid.UUID{uuid.New()}
		if f.Match(ev) {
			t.Error("event passed despite failing the therapist dimension")
		}
	})

	t.Run("status toggle excludes", func(t *testing.T) {
		f := DefaultEventFilters()
		f.ShowScheduled = false
		if f.Match(ev) {
			t.Error("scheduled event passed with ShowScheduled=false")
		}
	})

	t.Run("all toggles off hides the named statuses", func(t *testing.T) {
		f := EventFilters{}
		for _, st := range []Status{StatusScheduled, StatusRescheduled, StatusCanceled} {
			e := ev
			e.Status = st
			if f.Match(e) {
				t.Errorf("%s event passed with all toggles off", st)
			}
		}
	})

	t.Run("other status ignores toggles", func(t *testing.T) {
		f := EventFilters{}
		e := ev
		e.Status = StatusOther
		if !f.Match(e) {
			t.Error("other-status event was excluded by the toggles")
		}
	})
}

func TestEventFiltersIsDefault(t *testing.T) {
	if !DefaultEventFilters().IsDefault() {
		t.Error("DefaultEventFilters().IsDefault() = false")
	}
	f := DefaultEventFilters()
	f.ChildIDs = []uuid.UUID{uuid.New()}
	if f.IsDefault() {
		t.Error("filters with a child restriction reported as default")
	}
	g := DefaultEventFilters()
	g.ShowCanceled = false
	if g.IsDefault() {
		t.Error("filters hiding canceled reported as default")
	}
}
