package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	api := app.Group("/api/v1")

	admin := api.Group("/accounts/admin", auth.Protected(), middleware.AdminRequired())

	admin.Get("/pending-count", h.PendingCount)

	users := admin.Group("/users")
	users.Get("", h.ListUsers)
	users.Get("/:id", h.GetUser)
	users.Put("/:id", h.UpdateUser)
	users.Patch("/:id", h.UpdateUser)
	users.Post("/:id/approve", h.ApproveUser)

	reports := api.Group("/payments/report", auth.Protected(), middleware.AdminRequired())
	reports.Get("", h.PaymentsReport)
}
