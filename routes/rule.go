package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/controllers"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/middleware"
)

// SetupRuleRoutes configures all recurrence rule related routes
func SetupRuleRoutes(app *fiber.App) {
	rules := app.Group("/rules", middleware.Protected())
	rules.Post("/", controllers.CreateRule)
	rules.Get("/", controllers.GetRules)
	rules.Get("/:id", controllers.GetRule)
	rules.Patch("/:id", controllers.UpdateRule)
	rules.Patch("/:id/active", controllers.SetRuleActive)
	rules.Delete("/:id", controllers.DeleteRule)
	rules.Post("/:id/materialize", controllers.MaterializeRule)
}
