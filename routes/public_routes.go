package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Tuition Admin API",
		})
	})
	app.Get("/health", handlers.Health)

	api := app.Group("/api/v1")
	api.Get("/health", handlers.Health)
}
