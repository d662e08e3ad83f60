package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", auth.Protected())
	payments.Get("", h.ListPayments)
	payments.Post("", h.CreatePayment)
	payments.Get("/summary", h.PaymentsSummary)
	payments.Get("/:id", h.GetPayment)
	payments.Put("/:id", h.UpdatePayment)
	payments.Patch("/:id", h.UpdatePayment)
	payments.Delete("/:id", h.DeletePayment)
	payments.Get("/:id/student-summary", h.PaymentStudentSummary)
	payments.Get("/:id/receipt", h.DownloadReceipt)
	payments.Post("/:id/receipt", h.PublishReceipt)
}
