package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

func StudentRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	api := app.Group("/api/v1")

	students := api.Group("/students", auth.Protected())
	students.Get("", h.ListStudents)
	students.Post("", h.CreateStudent)
	students.Get("/search", h.SearchStudents)
	students.Get("/:id", h.GetStudent)
	students.Put("/:id", h.UpdateStudent)
	students.Patch("/:id", h.UpdateStudent)
	students.Delete("/:id", h.DeleteStudent)
	students.Get("/:id/payments", h.StudentPayments)
	students.Get("/:id/payment-summary", h.StudentPaymentSummary)
}
