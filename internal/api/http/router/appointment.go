package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/peyvandtech/darmana/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, ah *handler.AppointmentHandler) {
	appts := api.Group("/appointments")

	appts.Get("/", ah.ListByDate)
	appts.Post("/", ah.Create)
	appts.Post("/series", ah.CreateSeries)

	a := appts.Group("/:id")
	a.Patch("/reschedule", ah.Reschedule)
	a.Patch("/status", ah.ChangeStatus)
}
