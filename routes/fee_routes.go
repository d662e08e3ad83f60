package routes

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/middleware"
	"github.com/gofiber/fiber/v2"
)

func FeeRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	api := app.Group("/api/v1")

	for _, prefix := range []string{"/fee-structures", "/fees"} {
		fees := api.Group(prefix, auth.Protected())
		fees.Get("", h.ListFeeStructures)
		fees.Post("", h.CreateFeeStructure)
		fees.Get("/by-grade-board", h.FeeStructuresByGradeBoard)
		fees.Get("/:id", h.GetFeeStructure)
		fees.Put("/:id", h.UpdateFeeStructure)
		fees.Patch("/:id", h.UpdateFeeStructure)
		fees.Delete("/:id", h.DeleteFeeStructure)
	}
}
