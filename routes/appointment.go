package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/controllers"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointments := app.Group("/appointments", middleware.Protected())
	appointments.Get("/", controllers.GetAppointments)
	appointments.Get("/:id", controllers.GetAppointment)
	appointments.Patch("/:id/status", controllers.UpdateAppointmentStatus)
}
