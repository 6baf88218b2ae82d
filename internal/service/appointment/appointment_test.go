package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/store"
)

// scriptedStore records every call and fails the creates whose (1-based)
// position appears in failAt. inFlight guards the sequential contract: a
// second create entering before the first returns would trip it.
type scriptedStore struct {
	createCalls []model.Spec
	updateCalls int
	failAt      map[int]bool
	inFlight    bool
	t           *testing.T

	updated model.Event
}

func (f *scriptedStore) ListByDate(ctx context.Context, date time.Time, fl model.EventFilters) ([]model.Event, error) {
	return nil, nil
}

func (f *scriptedStore) Create(ctx context.Context, s model.Spec) (uuid.UUID, error) {
	if f.inFlight {
		f.t.Fatal("overlapping store.Create calls: batch creation must be sequential")
	}
	f.inFlight = true
	defer func() { f.inFlight = false }()

	f.createCalls = append(f.createCalls, s)
	if f.failAt[len(f.createCalls)] {
		return uuid.Nil, store.ErrUnavailable
	}
	return uuid.New(), nil
}

func (f *scriptedStore) Update(ctx context.Context, id uuid.UUID, p model.Patch) (model.Event, error) {
	f.updateCalls++
	if f.updated.ID == uuid.Nil {
		return model.Event{}, store.ErrNotFound
	}
	ev := f.updated
	if p.Date != nil {
		ev.Date = *p.Date
	}
	return ev, nil
}

func (f *scriptedStore) ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error) {
	if f.updated.ID != id {
		return model.Event{}, store.ErrNotFound
	}
	if err := model.ValidateTransition(f.updated.Status, next); err != nil {
		return model.Event{}, err
	}
	ev := f.updated
	ev.Status = next
	return ev, nil
}

func date(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func spec(d int) model.Spec {
	return model.Spec{
		ChildID:     uuid.New(),
		TherapistID: uuid.New(),
		TherapyID:   uuid.New(),
		Date:        date(d),
		StartTime:   "10:00",
		EndTime:     "11:00",
	}
}

func TestCreateSeriesPartialFailure(t *testing.T) {
	st := &scriptedStore{t: t, failAt: map[int]bool{2: true, 4: true}}
	svc := New(st)

	specs := []model.Spec{spec(2), spec(3), spec(4), spec(5), spec(6)}
	res := svc.CreateSeries(context.Background(), specs)

	if res.Created != 3 || res.Failed != 2 {
		t.Errorf("result = {created:%d failed:%d}, want {created:3 failed:2}", res.Created, res.Failed)
	}
	if len(st.createCalls) != 5 {
		t.Fatalf("store received %d create calls, want 5", len(st.createCalls))
	}
	for i, call := range st.createCalls {
		if !call.Date.Equal(specs[i].Date) {
			t.Errorf("call %d was for %v, want %v: input order not preserved", i, call.Date, specs[i].Date)
		}
	}
	if len(res.Succeeded) != 3 {
		t.Errorf("succeeded list has %d ids, want 3", len(res.Succeeded))
	}
	if len(res.Failures) != 2 {
		t.Fatalf("failures list has %d items, want 2", len(res.Failures))
	}
	for _, f := range res.Failures {
		if !errors.Is(f.Err, store.ErrUnavailable) {
			t.Errorf("failure cause = %v, want ErrUnavailable", f.Err)
		}
	}
	if !res.Failures[0].Spec.Date.Equal(date(3)) || !res.Failures[1].Spec.Date.Equal(date(5)) {
		t.Errorf("failures not attributed to items 2 and 4: %v, %v",
			res.Failures[0].Spec.Date, res.Failures[1].Spec.Date)
	}
}

func TestCreateSeriesInvalidItemDoesNotReachStore(t *testing.T) {
	st := &scriptedStore{t: t}
	svc := New(st)

	bad := spec(3)
	bad.EndTime = "09:00" // before start
	res := svc.CreateSeries(context.Background(), []model.Spec{spec(2), bad, spec(4)})

	if res.Created != 2 || res.Failed != 1 {
		t.Errorf("result = {created:%d failed:%d}, want {created:2 failed:1}", res.Created, res.Failed)
	}
	if len(st.createCalls) != 2 {
		t.Errorf("store received %d create calls, want 2 (invalid item must be rejected locally)", len(st.createCalls))
	}
	if !errors.Is(res.Failures[0].Err, model.ErrInvalidSpec) {
		t.Errorf("failure cause = %v, want ErrInvalidSpec", res.Failures[0].Err)
	}
}

func TestCreateSeriesAllFail(t *testing.T) {
	st := &scriptedStore{t: t, failAt: map[int]bool{1: true, 2: true}}
	svc := New(st)

	res := svc.CreateSeries(context.Background(), []model.Spec{spec(2), spec(3)})
	if res.Created != 0 || res.Failed != 2 {
		t.Errorf("result = {created:%d failed:%d}, want {created:0 failed:2}", res.Created, res.Failed)
	}
}

func TestCreateSeriesEmpty(t *testing.T) {
	st := &scriptedStore{t: t}
	svc := New(st)

	res := svc.CreateSeries(context.Background(), nil)
	if res.Created != 0 || res.Failed != 0 || len(st.createCalls) != 0 {
		t.Errorf("empty batch touched the store or reported work: %+v", res)
	}
}

func TestExpandSeriesCarriesParticipants(t *testing.T) {
	svc := New(&scriptedStore{t: t})

	req := SeriesRequest{
		ChildID:              uuid.New(),
		TherapistID:          uuid.New(),
		TherapyID:            uuid.New(),
		StartDate:            date(4), // Wednesday
		Weekdays:             []int{1, 3},
		StartTime:            "10:00",
		EndTime:              "11:00",
		WeekCount:            2,
		Note:                 "weekly series",
		SyncExternalCalendar: true,
	}

	specs, err := svc.ExpandSeries(req)
	if err != nil {
		t.Fatalf("ExpandSeries error = %v", err)
	}
	if len(specs) != 4 {
		t.Fatalf("ExpandSeries returned %d specs, want 4", len(specs))
	}
	for i, s := range specs {
		if s.ChildID != req.ChildID || s.TherapistID != req.TherapistID || s.TherapyID != req.TherapyID {
			t.Errorf("spec %d lost participant ids", i)
		}
		if s.Status != model.StatusScheduled {
			t.Errorf("spec %d status = %s, want scheduled", i, s.Status)
		}
		if !s.SyncExternalCalendar || s.Note != "weekly series" {
			t.Errorf("spec %d lost note/sync flag", i)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("spec %d invalid: %v", i, err)
		}
	}
}

func TestRescheduleSameDateIsNoOp(t *testing.T) {
	ev := model.Event{ID: uuid.New(), Date: date(2), StartTime: "10:00", EndTime: "11:00"}
	st := &scriptedStore{t: t, updated: ev}
	svc := New(st)

	// Same calendar day at a different clock time still counts as same.
	sameDay := time.Date(2026, time.March, 2, 16, 30, 0, 0, time.UTC)
	got, err := svc.Reschedule(context.Background(), ev, sameDay)
	if err != nil {
		t.Fatalf("Reschedule error = %v", err)
	}
	if st.updateCalls != 0 {
		t.Errorf("same-date reschedule issued %d store calls, want 0", st.updateCalls)
	}
	if got.ID != ev.ID || !got.Date.Equal(ev.Date) {
		t.Errorf("same-date reschedule changed the event: %+v", got)
	}
}

func TestReschedulePreservesTimes(t *testing.T) {
	ev := model.Event{ID: uuid.New(), Date: date(2), StartTime: "10:00", EndTime: "11:00"}
	st := &scriptedStore{t: t, updated: ev}
	svc := New(st)

	got, err := svc.Reschedule(context.Background(), ev, date(5))
	if err != nil {
		t.Fatalf("Reschedule error = %v", err)
	}
	if st.updateCalls != 1 {
		t.Errorf("reschedule issued %d store calls, want 1", st.updateCalls)
	}
	if !got.Date.Equal(date(5)) {
		t.Errorf("date = %v, want %v", got.Date, date(5))
	}
	if got.StartTime != "10:00" || got.EndTime != "11:00" {
		t.Errorf("times changed: %s-%s", got.StartTime, got.EndTime)
	}
}

func TestRescheduleWithoutEvent(t *testing.T) {
	svc := New(&scriptedStore{t: t})
	_, err := svc.Reschedule(context.Background(), model.Event{}, date(5))
	if !errors.Is(err, ErrNoEvent) {
		t.Errorf("Reschedule with zero event = %v, want ErrNoEvent", err)
	}
}

func TestRescheduleStoreFailurePropagates(t *testing.T) {
	ev := model.Event{ID: uuid.New(), Date: date(2)}
	st := &scriptedStore{t: t} // updated zero -> Update returns ErrNotFound
	svc := New(st)

	_, err := svc.Reschedule(context.Background(), ev, date(5))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Reschedule error = %v, want wrapped ErrNotFound", err)
	}
}

func TestChangeStatus(t *testing.T) {
	ev := model.Event{ID: uuid.New(), Date: date(2), Status: model.StatusScheduled}
	st := &scriptedStore{t: t, updated: ev}
	svc := New(st)

	got, err := svc.ChangeStatus(context.Background(), ev.ID, model.StatusCanceled)
	if err != nil {
		t.Fatalf("ChangeStatus error = %v", err)
	}
	if got.Status != model.StatusCanceled {
		t.Errorf("status = %s, want canceled", got.Status)
	}

	st.updated.Status = model.StatusCanceled
	_, err = svc.ChangeStatus(context.Background(), ev.ID, model.StatusScheduled)
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("ChangeStatus on terminal status = %v, want ErrInvalidTransition", err)
	}
}
