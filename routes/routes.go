package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

// Setup mounts every route group. The admin group comes before payments so
// /payments/report is not captured by /payments/:id.
func Setup(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	PublicRoutes(app)
	AuthRoutes(app, h, auth)
	ProfileRoutes(app, h, auth)
	AdminRoutes(app, h, auth)
	StudentRoutes(app, h, auth)
	FeeRoutes(app, h, auth)
	PaymentRoutes(app, h, auth)
}
