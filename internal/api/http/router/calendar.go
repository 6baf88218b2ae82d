package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/peyvandtech/darmana/internal/api/http/handler"
)

func (r *Router) registerCalendarRoutes(api fiber.Router, ch *handler.CalendarHandler) {
	cal := api.Group("/calendar")

	cal.Get("/week", ch.Week)
	cal.Get("/week/events", ch.WeekEvents)
}
