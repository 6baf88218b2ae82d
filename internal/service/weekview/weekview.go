package weekview

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/store"
)

// View is one fully loaded week: the grid columns and hour rows plus the
// events of every visible day. It is rebuilt wholesale on each reload;
// nothing patches it incrementally.
type View struct {
	Days   []calendar.DayCell       `json:"days"`
	Hours  []string                 `json:"hours"`
	Events []model.Event            `json:"events"`
	ByDay  map[string][]model.Event `json:"by_day"`
}

type Service interface {
	// Week builds the visible week around ref and loads each day's
	// events from the store.
	Week(ctx context.Context, ref time.Time, f model.EventFilters) (*View, error)
}

type weekviewService struct {
	grid  *calendar.Grid
	store store.Store
}

func New(grid *calendar.Grid, st store.Store) Service {
	return &weekviewService{grid: grid, store: st}
}

// Week queries the store once per visible day. The day queries are
// independent reads, so they fan out concurrently; the errgroup join is
// the barrier before the aggregate is assembled in day order.
func (s *weekviewService) Week(ctx context.Context, ref time.Time, f model.EventFilters) (*View, error) {
	days := s.grid.BuildWeek(ref)
	perDay := make([][]model.Event, len(days))

	g, gctx := errgroup.WithContext(ctx)
	for i, day := range days {
		g.Go(func() error {
			events, err := s.store.ListByDate(gctx, day.Date, f)
			if err != nil {
				return fmt.Errorf("load events for %s: %w", calendar.DateKey(day.Date), err)
			}
			perDay[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &View{
		Days:  days,
		Hours: calendar.HoursOfDay(),
		ByDay: make(map[string][]model.Event, len(days)),
	}
	for i, day := range days {
		key := calendar.DateKey(day.Date)
		view.ByDay[key] = perDay[i]
		view.Events = append(view.Events, perDay[i]...)
	}
	return view, nil
}

// Filter narrows an event set in memory. Stores already filter their
// listings; this is for re-filtering an existing view without a reload.
func Filter(events []model.Event, f model.EventFilters) []model.Event {
	return lo.Filter(events, func(ev model.Event, _ int) bool {
		return f.Match(ev)
	})
}

// GroupByDay buckets events by their calendar date.
func GroupByDay(events []model.Event) map[string][]model.Event {
	return lo.GroupBy(events, func(ev model.Event) string {
		return calendar.DateKey(ev.Date)
	})
}

// OnDay returns the events falling on one calendar date.
func OnDay(events []model.Event, date time.Time) []model.Event {
	key := calendar.DateKey(date)
	return lo.Filter(events, func(ev model.Event, _ int) bool {
		return calendar.DateKey(ev.Date) == key
	})
}
