package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	api := app.Group("/api/v1")

	accounts := api.Group("/accounts")
	accounts.Post("/register", h.Register)
	accounts.Post("/login", h.Login)
	accounts.Post("/logout", auth.Protected(), h.Logout)
}
