package weekview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func date(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

// dayStore serves a canned event list per date key and counts queries.
type dayStore struct {
	mu      sync.Mutex
	byDay   map[string][]model.Event
	queried []string
	failOn  string
}

func (f *dayStore) ListByDate(ctx context.Context, d time.Time, fl model.EventFilters) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := calendar.DateKey(d)
	f.queried = append(f.queried, key)
	if key == f.failOn {
		return nil, errors.New("backend down")
	}
	return f.byDay[key], nil
}

func (f *dayStore) Create(ctx context.Context, s model.Spec) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

func (f *dayStore) Update(ctx context.Context, id uuid.UUID, p model.Patch) (model.Event, error) {
	return model.Event{}, errors.New("not implemented")
}

func (f *dayStore) ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error) {
	return model.Event{}, errors.New("not implemented")
}

func event(d int, start string) model.Event {
	return model.Event{
		ID:        uuid.New(),
		Date:      date(d),
		StartTime: start,
		EndTime:   "23:00",
		Status:    model.StatusScheduled,
	}
}

func TestWeekQueriesEveryVisibleDay(t *testing.T) {
	st := &dayStore{byDay: map[string][]model.Event{
		"2026-03-02": {event(2, "09:00")},
		"2026-03-04": {event(4, "10:00"), event(4, "11:00")},
	}}
	grid := calendar.New(fixedClock{t: date(4)}, nil)
	svc := New(grid, st)

	view, err := svc.Week(context.Background(), date(4), model.DefaultEventFilters())
	if err != nil {
		t.Fatalf("Week error = %v", err)
	}

	if len(st.queried) != 6 {
		t.Errorf("store queried %d times, want once per visible day (6)", len(st.queried))
	}
	if len(view.Days) != 6 || len(view.Hours) != 11 {
		t.Errorf("view shape = %d days, %d hours", len(view.Days), len(view.Hours))
	}
	if len(view.Events) != 3 {
		t.Errorf("view has %d events, want 3", len(view.Events))
	}

	// Aggregate is assembled in day order regardless of query order.
	if len(view.Events) == 3 {
		if !view.Events[0].Date.Equal(date(2)) || !view.Events[1].Date.Equal(date(4)) {
			t.Errorf("events not in day order: %v, %v", view.Events[0].Date, view.Events[1].Date)
		}
	}
	if got := len(view.ByDay["2026-03-04"]); got != 2 {
		t.Errorf("ByDay[wednesday] has %d events, want 2", got)
	}
	if got := len(view.ByDay["2026-03-07"]); got != 0 {
		t.Errorf("ByDay[saturday] has %d events, want 0", got)
	}
}

func TestWeekFailedDayFailsTheView(t *testing.T) {
	st := &dayStore{failOn: "2026-03-05"}
	grid := calendar.New(fixedClock{t: date(4)}, nil)
	svc := New(grid, st)

	_, err := svc.Week(context.Background(), date(4), model.DefaultEventFilters())
	if err == nil {
		t.Fatal("Week with a failing day returned nil error")
	}
}

func TestFilter(t *testing.T) {
	therapist := uuid.New()
	evs := []model.Event{
		{ID: uuid.New(), TherapistID: therapist, Status: model.StatusScheduled},
		{ID: uuid.New(), TherapistID: uuid.New(), Status: model.StatusScheduled},
		{ID: uuid.New(), TherapistID: therapist, Status: model.StatusCanceled},
	}

	f := model.DefaultEventFilters()
	f.TherapistIDs = []uuid.UUID{therapist}
	f.ShowCanceled = false

	got := Filter(evs, f)
	if len(got) != 1 {
		t.Fatalf("Filter returned %d events, want 1", len(got))
	}
	if got[0].ID != evs[0].ID {
		t.Error("Filter kept the wrong event")
	}
}

func TestFilterAllTogglesOff(t *testing.T) {
	evs := []model.Event{
		{ID: uuid.New(), Status: model.StatusScheduled},
		{ID: uuid.New(), Status: model.StatusRescheduled},
		{ID: uuid.New(), Status: model.StatusCanceled},
	}
	got := Filter(evs, model.EventFilters{})
	if len(got) != 0 {
		t.Errorf("all toggles off returned %d events, want 0", len(got))
	}
}

func TestGroupByDayAndOnDay(t *testing.T) {
	evs := []model.Event{event(2, "09:00"), event(2, "10:00"), event(3, "09:00")}

	groups := GroupByDay(evs)
	if len(groups["2026-03-02"]) != 2 || len(groups["2026-03-03"]) != 1 {
		t.Errorf("GroupByDay buckets wrong: %d, %d", len(groups["2026-03-02"]), len(groups["2026-03-03"]))
	}

	day := OnDay(evs, date(2))
	if len(day) != 2 {
		t.Errorf("OnDay returned %d events, want 2", len(day))
	}
	if len(OnDay(evs, date(9))) != 0 {
		t.Error("OnDay on an empty date returned events")
	}
}
