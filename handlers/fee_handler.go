package handlers

import (
	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const feeNotFound = "Fee structure not found"

type FeeStructureRequest struct {
	Grade     string           `json:"grade" validate:"required,grade"`
	Board     string           `json:"board" validate:"required,board"`
	FeeAmount *decimal.Decimal `json:"fee_amount"`
}

func (r FeeStructureRequest) input() (services.FeeInput, error) {
	if r.FeeAmount == nil {
		return services.FeeInput{}, services.NewValidationError("Invalid fee structure",
			services.FieldError{Field: "fee_amount", Error: "fee_amount is a required field"})
	}
	return services.FeeInput{Grade: r.Grade, Board: models.Board(r.Board), FeeAmount: *r.FeeAmount}, nil
}

func (h *Handler) ListFeeStructures(c *fiber.Ctx) error {
	fees, err := h.Fees.List(c.UserContext(), "", "")
	if err != nil {
		return err
	}
	return c.JSON(fees)
}

// FeeStructuresByGradeBoard filters on grade and board when both are given
// and lists everything otherwise.
func (h *Handler) FeeStructuresByGradeBoard(c *fiber.Ctx) error {
	fees, err := h.Fees.List(c.UserContext(), c.Query("grade"), models.Board(c.Query("board")))
	if err != nil {
		return err
	}
	return c.JSON(fees)
}

func (h *Handler) CreateFeeStructure(c *fiber.Ctx) error {
	var req FeeStructureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	fee, err := h.Fees.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fee)
}

func (h *Handler) GetFeeStructure(c *fiber.Ctx) error {
	id, err := paramID(c, feeNotFound)
	if err != nil {
		return err
	}

	fee, err := h.Fees.Get(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, feeNotFound)
	}
	return c.JSON(fee)
}

func (h *Handler) UpdateFeeStructure(c *fiber.Ctx) error {
	id, err := paramID(c, feeNotFound)
	if err != nil {
		return err
	}

	var req FeeStructureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	fee, err := h.Fees.Update(c.UserContext(), id, in)
	if err != nil {
		return orNotFound(err, feeNotFound)
	}
	return c.JSON(fee)
}

func (h *Handler) DeleteFeeStructure(c *fiber.Ctx) error {
	id, err := paramID(c, feeNotFound)
	if err != nil {
		return err
	}

	if err := h.Fees.Delete(c.UserContext(), id); err != nil {
		return orNotFound(err, feeNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
