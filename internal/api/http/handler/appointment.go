package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/recurrence"
	"github.com/peyvandtech/darmana/internal/service/appointment"
	"github.com/peyvandtech/darmana/internal/store"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapEventError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidSpec),
		errors.Is(err, calendar.ErrInvalidTimeFormat),
		errors.Is(err, recurrence.ErrInvalidWeekCount),
		errors.Is(err, recurrence.ErrInvalidWeekday),
		errors.Is(err, recurrence.ErrInvalidTimeRange),
		errors.Is(err, appointment.ErrNoEvent):
		return badRequest(c, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, model.ErrInvalidTransition):
		return conflict(c, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		return badGateway(c, err.Error())
	default:
		return internalError(c)
	}
}

type specBody struct {
	ChildID              string `json:"child_id"`
	TherapistID          string `json:"therapist_id"`
	TherapyID            string `json:"therapy_id"`
	Date                 string `json:"date"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	Note                 string `json:"note"`
	SyncExternalCalendar bool   `json:"sync_external_calendar"`
}

func (b specBody) participants() (child, therapist, therapy uuid.UUID, err error) {
	if child, err = uuid.Parse(b.ChildID); err != nil {
		return
	}
	if therapist, err = uuid.Parse(b.TherapistID); err != nil {
		return
	}
	therapy, err = uuid.Parse(b.TherapyID)
	return
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	var body specBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	child, therapist, therapy, err := body.participants()
	if err != nil {
		return badRequest(c, "invalid participant id")
	}
	date, err := time.Parse(calendar.DateKeyLayout, body.Date)
	if err != nil {
		return badRequest(c, "invalid date, expected YYYY-MM-DD")
	}

	id, err := h.svc.Create(c.Context(), model.Spec{
		ChildID:              child,
		TherapistID:          therapist,
		TherapyID:            therapy,
		Date:                 date,
		StartTime:            body.StartTime,
		EndTime:              body.EndTime,
		Status:               model.StatusScheduled,
		Note:                 body.Note,
		SyncExternalCalendar: body.SyncExternalCalendar,
	})
	if err != nil {
		return mapEventError(c, err)
	}

	return created(c, fiber.Map{"id": id})
}

// POST /appointments/series
func (h *AppointmentHandler) CreateSeries(c fiber.Ctx) error {
	var body struct {
		specBody
		StartDate string `json:"start_date"`
		Weekdays  []int  `json:"weekdays"`
		WeekCount int    `json:"week_count"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	child, therapist, therapy, err := body.participants()
	if err != nil {
		return badRequest(c, "invalid participant id")
	}
	startDate, err := time.Parse(calendar.DateKeyLayout, body.StartDate)
	if err != nil {
		return badRequest(c, "invalid start_date, expected YYYY-MM-DD")
	}

	specs, err := h.svc.ExpandSeries(appointment.SeriesRequest{
		ChildID:              child,
		TherapistID:          therapist,
		TherapyID:            therapy,
		StartDate:            startDate,
		Weekdays:             body.Weekdays,
		StartTime:            body.StartTime,
		EndTime:              body.EndTime,
		WeekCount:            body.WeekCount,
		Note:                 body.Note,
		SyncExternalCalendar: body.SyncExternalCalendar,
	})
	if err != nil {
		return mapEventError(c, err)
	}

	res := h.svc.CreateSeries(c.Context(), specs)

	// calendar_sync echoes the request flag; it is not computed from
	// the per-item outcomes.
	payload := fiber.Map{
		"created":       res.Created,
		"failed":        res.Failed,
		"succeeded":     res.Succeeded,
		"failures":      res.Failures,
		"calendar_sync": body.SyncExternalCalendar,
	}

	// A partially failed batch is reported, not rolled back.
	if res.Failed > 0 {
		return multiStatus(c, payload)
	}
	return created(c, payload)
}

// GET /appointments?date=YYYY-MM-DD
func (h *AppointmentHandler) ListByDate(c fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return badRequest(c, "date query parameter is required")
	}
	date, err := time.Parse(calendar.DateKeyLayout, raw)
	if err != nil {
		return badRequest(c, "invalid date, expected YYYY-MM-DD")
	}

	filters, err := filtersFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := h.svc.ListByDate(c.Context(), date, filters)
	if err != nil {
		return mapEventError(c, err)
	}

	return ok(c, events)
}

// PATCH /appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Date        string `json:"date"`
		CurrentDate string `json:"current_date"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	newDate, err := time.Parse(calendar.DateKeyLayout, body.Date)
	if err != nil {
		return badRequest(c, "invalid date, expected YYYY-MM-DD")
	}

	// current_date lets a same-day drop short-circuit without a store
	// round trip. Absent, the move is always applied.
	ev := model.Event{ID: id}
	if body.CurrentDate != "" {
		cur, err := time.Parse(calendar.DateKeyLayout, body.CurrentDate)
		if err != nil {
			return badRequest(c, "invalid current_date, expected YYYY-MM-DD")
		}
		ev.Date = cur
	}

	updated, err := h.svc.Reschedule(c.Context(), ev, newDate)
	if err != nil {
		return mapEventError(c, err)
	}

	return ok(c, updated)
}

// PATCH /appointments/:id/status
func (h *AppointmentHandler) ChangeStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	next := model.ParseStatus(body.Status)
	if next == model.StatusOther {
		// "other" is a display bucket, never a transition target.
		return badRequest(c, "unknown status")
	}

	updated, err := h.svc.ChangeStatus(c.Context(), id, next)
	if err != nil {
		return mapEventError(c, err)
	}

	return ok(c, updated)
}
