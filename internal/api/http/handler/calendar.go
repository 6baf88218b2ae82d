package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/service/weekview"
)

type CalendarHandler struct {
	grid  *calendar.Grid
	weeks weekview.Service
}

func NewCalendarHandler(grid *calendar.Grid, weeks weekview.Service) *CalendarHandler {
	return &CalendarHandler{grid: grid, weeks: weeks}
}

// refDate resolves the ?date= query, defaulting to today.
func (h *CalendarHandler) refDate(c fiber.Ctx) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse(calendar.DateKeyLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GET /calendar/week
func (h *CalendarHandler) Week(c fiber.Ctx) error {
	ref, valid := h.refDate(c)
	if !valid {
		return badRequest(c, "invalid date, expected YYYY-MM-DD")
	}

	return ok(c, fiber.Map{
		"days":  h.grid.BuildWeek(ref),
		"hours": calendar.HoursOfDay(),
	})
}

// GET /calendar/week/events
func (h *CalendarHandler) WeekEvents(c fiber.Ctx) error {
	ref, valid := h.refDate(c)
	if !valid {
		return badRequest(c, "invalid date, expected YYYY-MM-DD")
	}

	filters, err := filtersFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	view, err := h.weeks.Week(c.Context(), ref, filters)
	if err != nil {
		return mapEventError(c, err)
	}

	return ok(c, view)
}

// filtersFromQuery reads the optional filter toggles and ID lists.
// Absent toggles default to on, matching a fresh calendar load.
func filtersFromQuery(c fiber.Ctx) (model.EventFilters, error) {
	var q struct {
		TherapistIDs    string `query:"therapist_ids"`
		ChildIDs        string `query:"child_ids"`
		TherapyIDs      string `query:"therapy_ids"`
		ShowScheduled   *bool  `query:"show_scheduled"`
		ShowRescheduled *bool  `query:"show_rescheduled"`
		ShowCanceled    *bool  `query:"show_canceled"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return model.EventFilters{}, err
	}

	f := model.DefaultEventFilters()

	var err error
	if f.TherapistIDs, err = parseIDList(q.TherapistIDs); err != nil {
		return model.EventFilters{}, err
	}
	if f.ChildIDs, err = parseIDList(q.ChildIDs); err != nil {
		return model.EventFilters{}, err
	}
	if f.TherapyIDs, err = parseIDList(q.TherapyIDs); err != nil {
		return model.EventFilters{}, err
	}

	if q.ShowScheduled != nil {
		f.ShowScheduled = *q.ShowScheduled
	}
	if q.ShowRescheduled != nil {
		f.ShowRescheduled = *q.ShowRescheduled
	}
	if q.ShowCanceled != nil {
		f.ShowCanceled = *q.ShowCanceled
	}

	return f, nil
}

func parseIDList(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
