package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/cron"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/db"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/redis"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("GNACOPS Connect Hub API")
	})
	routes.SetupRuleRoutes(app)
	routes.SetupAppointmentRoutes(app)

	cron.StartCronJobs()

	app.Listen(":8000")
	fmt.Println("Server started on port 8000")
}
