package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/recurrence"
	"github.com/peyvandtech/darmana/internal/store"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// SeriesRequest describes a repeating appointment series: the recurrence
// rule plus the participants every generated instance shares.
type SeriesRequest struct {
	ChildID              uuid.UUID
	TherapistID          uuid.UUID
	TherapyID            uuid.UUID
	StartDate            time.Time
	Weekdays             []int
	StartTime            string
	EndTime              string
	WeekCount            int
	Note                 string
	SyncExternalCalendar bool
}

// FailedSpec pairs a spec that could not be created with the reason.
type FailedSpec struct {
	Spec model.Spec `json:"spec"`
	Err  error      `json:"-"`
}

// BatchResult is the terminal summary of one series creation run. The
// counts drive the user-facing message; the succeeded/failed lists keep
// per-item attribution for diagnostics.
type BatchResult struct {
	Created   int          `json:"created"`
	Failed    int          `json:"failed"`
	Succeeded []uuid.UUID  `json:"succeeded"`
	Failures  []FailedSpec `json:"failures,omitempty"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Create persists a single appointment spec.
	Create(ctx context.Context, spec model.Spec) (uuid.UUID, error)

	// ExpandSeries turns a series request into its ordered specs
	// without persisting anything.
	ExpandSeries(req SeriesRequest) ([]model.Spec, error)

	// CreateSeries persists an ordered list of specs one at a time.
	// A failed item is recorded and never aborts the batch; created
	// items are never rolled back.
	CreateSeries(ctx context.Context, specs []model.Spec) BatchResult

	// ListByDate returns the appointments on one calendar day.
	ListByDate(ctx context.Context, date time.Time, f model.EventFilters) ([]model.Event, error)

	// Reschedule moves one appointment to a new date, preserving its
	// time window. Same-date is a no-op with no store call.
	Reschedule(ctx context.Context, ev model.Event, newDate time.Time) (model.Event, error)

	// ChangeStatus moves one appointment through its status machine.
	ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	store store.Store
}

func New(st store.Store) Service {
	return &appointmentService{store: st}
}

func (s *appointmentService) Create(ctx context.Context, spec model.Spec) (uuid.UUID, error) {
	if err := spec.Validate(); err != nil {
		return uuid.Nil, err
	}
	id, err := s.store.Create(ctx, spec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create appointment: %w", err)
	}
	return id, nil
}

func (s *appointmentService) ExpandSeries(req SeriesRequest) ([]model.Spec, error) {
	occurrences, err := recurrence.Expand(recurrence.Request{
		StartDate: req.StartDate,
		Weekdays:  req.Weekdays,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		WeekCount: req.WeekCount,
	})
	if err != nil {
		return nil, err
	}

	specs := make([]model.Spec, 0, len(occurrences))
	for _, occ := range occurrences {
		specs = append(specs, model.Spec{
			ChildID:              req.ChildID,
			TherapistID:          req.TherapistID,
			TherapyID:            req.TherapyID,
			Date:                 occ.Date,
			StartTime:            occ.StartTime,
			EndTime:              occ.EndTime,
			Status:               model.StatusScheduled,
			Note:                 req.Note,
			SyncExternalCalendar: req.SyncExternalCalendar,
		})
	}
	return specs, nil
}

// CreateSeries is strictly sequential: the backend enforces
// no-double-booking per therapist and slot, so item N+1 is not issued
// until item N's result has been observed. No retries, no rollback;
// whatever succeeded stays created.
func (s *appointmentService) CreateSeries(ctx context.Context, specs []model.Spec) BatchResult {
	res := BatchResult{Succeeded: make([]uuid.UUID, 0, len(specs))}

	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			res.Failed++
			res.Failures = append(res.Failures, FailedSpec{Spec: spec, Err: err})
			slog.Warn("series item rejected before store call",
				"index", i, "date", calendar.DateKey(spec.Date), "error", err)
			continue
		}

		id, err := s.store.Create(ctx, spec)
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, FailedSpec{Spec: spec, Err: err})
			slog.Warn("series item creation failed",
				"index", i, "date", calendar.DateKey(spec.Date), "error", err)
			continue
		}

		res.Created++
		res.Succeeded = append(res.Succeeded, id)
	}

	slog.Info("series creation finished", "created", res.Created, "failed", res.Failed)
	return res
}

func (s *appointmentService) ListByDate(ctx context.Context, date time.Time, f model.EventFilters) ([]model.Event, error) {
	events, err := s.store.ListByDate(ctx, date, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return events, nil
}

func (s *appointmentService) Reschedule(ctx context.Context, ev model.Event, newDate time.Time) (model.Event, error) {
	if ev.ID == uuid.Nil {
		return model.Event{}, ErrNoEvent
	}

	// Dropping onto the same day must not issue a network call.
	if calendar.DateKey(newDate) == calendar.DateKey(ev.Date) {
		return ev, nil
	}

	date := calendar.DateOnly(newDate)
	updated, err := s.store.Update(ctx, ev.ID, model.Patch{Date: &date})
	if err != nil {
		return model.Event{}, fmt.Errorf("reschedule appointment: %w", err)
	}
	return updated, nil
}

func (s *appointmentService) ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error) {
	ev, err := s.store.ChangeStatus(ctx, id, next)
	if err != nil {
		return model.Event{}, fmt.Errorf("change appointment status: %w", err)
	}
	return ev, nil
}
