package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DayStartHour and DayEndHour bound the visible hour rows of the grid.
	DayStartHour = 8
	DayEndHour   = 18

	// MinEventHeightPx keeps very short appointments visible on the grid.
	MinEventHeightPx = 30

	// DateKeyLayout is the canonical date-only format used for day
	// comparisons. Comparing formatted dates instead of instants avoids
	// timezone drift between the reference date and stored events.
	DateKeyLayout = "2006-01-02"
)

// VisibleWeekdays are the day columns of the grid, ISO-numbered
// (Monday=1). Sunday is deliberately excluded: the clinic does not book
// sessions on Sundays.
var VisibleWeekdays = []int{1, 2, 3, 4, 5, 6}

var ErrInvalidTimeFormat = errors.New("time must be formatted as HH:MM")

// Clock abstracts wall-clock access so "today" highlighting is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// DayCell is one column of the week grid. Derived, never persisted.
type DayCell struct {
	Date        time.Time `json:"date"`
	DisplayName string    `json:"display_name"`
	DayNumber   int       `json:"day_number"`
	IsToday     bool      `json:"is_today"`
}

// Grid computes week layouts. The clock and day-name table are injected
// so callers control "today" and locale.
type Grid struct {
	clock    Clock
	dayNames map[time.Weekday]string
}

func defaultDayNames() map[time.Weekday]string {
	return map[time.Weekday]string{
		time.Monday:    "Monday",
		time.Tuesday:   "Tuesday",
		time.Wednesday: "Wednesday",
		time.Thursday:  "Thursday",
		time.Friday:    "Friday",
		time.Saturday:  "Saturday",
		time.Sunday:    "Sunday",
	}
}

func New(clock Clock, dayNames map[time.Weekday]string) *Grid {
	if clock == nil {
		clock = SystemClock()
	}
	if dayNames == nil {
		dayNames = defaultDayNames()
	}
	return &Grid{clock: clock, dayNames: dayNames}
}

// WeekStart returns the Monday of the week containing ref, at midnight in
// ref's location. Go numbers Sunday as 0, so Sunday maps to the Monday
// six days earlier rather than the next day.
func WeekStart(ref time.Time) time.Time {
	var offset int
	if ref.Weekday() == time.Sunday {
		offset = -6
	} else {
		offset = 1 - int(ref.Weekday())
	}
	d := ref.AddDate(0, 0, offset)
	return DateOnly(d)
}

// BuildWeek returns one cell per visible weekday of ref's week, Monday
// through Saturday.
func (g *Grid) BuildWeek(ref time.Time) []DayCell {
	monday := WeekStart(ref)
	today := DateKey(g.clock.Now())

	cells := make([]DayCell, 0, len(VisibleWeekdays))
	for _, wd := range VisibleWeekdays {
		date := monday.AddDate(0, 0, wd-1)
		cells = append(cells, DayCell{
			Date:        date,
			DisplayName: g.dayNames[date.Weekday()],
			DayNumber:   date.Day(),
			IsToday:     DateKey(date) == today,
		})
	}
	return cells
}

// HoursOfDay returns the fixed hour-row labels, "08:00" through "18:00".
func HoursOfDay() []string {
	hours := make([]string, 0, DayEndHour-DayStartHour+1)
	for h := DayStartHour; h <= DayEndHour; h++ {
		hours = append(hours, fmt.Sprintf("%02d:00", h))
	}
	return hours
}

// PixelTop maps a wall-clock time to a vertical offset on the grid, one
// pixel per minute anchored at DayStartHour. Times before the anchor
// clamp to 0.
func PixelTop(hhmm string) (int, error) {
	mins, err := minutesOfDay(hhmm)
	if err != nil {
		return 0, err
	}
	top := mins - DayStartHour*60
	if top < 0 {
		top = 0
	}
	return top, nil
}

// PixelHeight maps an appointment duration to a block height, flooring at
// MinEventHeightPx so pathologically short appointments stay visible.
func PixelHeight(start, end string) (int, error) {
	s, err := minutesOfDay(start)
	if err != nil {
		return 0, err
	}
	e, err := minutesOfDay(end)
	if err != nil {
		return 0, err
	}
	h := e - s
	if h < MinEventHeightPx {
		h = MinEventHeightPx
	}
	return h, nil
}

// ParseClock splits an "HH:MM" string into hour and minute.
func ParseClock(hhmm string) (hour, minute int, err error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	return hour, minute, nil
}

func minutesOfDay(hhmm string) (int, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey formats t for day-equality comparisons.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}
