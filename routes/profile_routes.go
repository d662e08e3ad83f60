package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	api := app.Group("/api/v1")

	profile := api.Group("/accounts/profile", auth.Protected())
	profile.Get("", h.GetProfile)
	profile.Put("", h.UpdateProfile)
	profile.Patch("", h.UpdateProfile)
}
