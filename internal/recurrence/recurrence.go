package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/peyvandtech/darmana/internal/calendar"
)

var (
	ErrInvalidWeekCount = errors.New("week count must be at least 1")
	ErrInvalidWeekday   = errors.New("weekday must be between 1 (Monday) and 6 (Saturday)")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)

// Request is the ephemeral input of an expansion: a repeating series
// described as "these weekdays, this time window, for N weeks".
type Request struct {
	StartDate time.Time
	Weekdays  []int // ISO numbering, subset of 1..6
	StartTime string
	EndTime   string
	WeekCount int
}

// Occurrence is one concrete instance produced by expansion.
type Occurrence struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// Expand turns a Request into its ordered concrete occurrences.
//
// Week N is anchored on the Monday of the week containing
// StartDate+7N days; each selected weekday lands on that Monday plus
// (weekday-1) days. Anchoring on the Monday, rather than adding 7N days
// to StartDate and picking the day independently, keeps every occurrence
// inside its own calendar week regardless of which weekday StartDate
// falls on.
//
// The result is ordered by week ascending, then weekday ascending. The
// requested time window is carried unchanged onto every occurrence; the
// batch creator depends on this ordering for deterministic per-item
// reporting.
//
// An empty weekday set is legal and yields an empty expansion.
func Expand(req Request) ([]Occurrence, error) {
	if req.WeekCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWeekCount, req.WeekCount)
	}
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	selected := make(map[int]bool, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < 1 || wd > 6 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidWeekday, wd)
		}
		selected[wd] = true
	}

	out := make([]Occurrence, 0, req.WeekCount*len(selected))
	for week := 0; week < req.WeekCount; week++ {
		monday := calendar.WeekStart(req.StartDate.AddDate(0, 0, 7*week))
		for _, wd := range calendar.VisibleWeekdays {
			if !selected[wd] {
				continue
			}
			out = append(out, Occurrence{
				Date:      monday.AddDate(0, 0, wd-1),
				StartTime: req.StartTime,
				EndTime:   req.EndTime,
			})
		}
	}
	return out, nil
}

func validateWindow(start, end string) error {
	sh, sm, err := calendar.ParseClock(start)
	if err != nil {
		return err
	}
	eh, em, err := calendar.ParseClock(end)
	if err != nil {
		return err
	}
	if eh*60+em <= sh*60+sm {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}
	return nil
}
