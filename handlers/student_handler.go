package handlers

import (
	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/gofiber/fiber/v2"
)

const studentNotFound = "Student not found"

type StudentRequest struct {
	FirstName              string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName               string  `json:"last_name" validate:"required,notblank,max=100"`
	Grade                  string  `json:"grade" validate:"required,grade"`
	Board                  string  `json:"board" validate:"required,board"`
	ParentName             string  `json:"parent_name" validate:"required,notblank,max=200"`
	ParentContactPrimary   string  `json:"parent_contact_primary" validate:"required,notblank,max=15"`
	ParentContactSecondary *string `json:"parent_contact_secondary" validate:"omitempty,max=15"`
}

func (r StudentRequest) input() services.StudentInput {
	return services.StudentInput{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Grade:                  r.Grade,
		Board:                  models.Board(r.Board),
		ParentName:             r.ParentName,
		ParentContactPrimary:   r.ParentContactPrimary,
		ParentContactSecondary: r.ParentContactSecondary,
	}
}

func (h *Handler) ListStudents(c *fiber.Ctx) error {
	students, err := h.Students.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(students)
}

func (h *Handler) SearchStudents(c *fiber.Ctx) error {
	students, err := h.Students.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(students)
}

func (h *Handler) CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	student, err := h.Students.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

func (h *Handler) GetStudent(c *fiber.Ctx) error {
	id, err := paramID(c, studentNotFound)
	if err != nil {
		return err
	}

	student, err := h.Students.Get(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, studentNotFound)
	}
	return c.JSON(student)
}

func (h *Handler) UpdateStudent(c *fiber.Ctx) error {
	id, err := paramID(c, studentNotFound)
	if err != nil {
		return err
	}

	var req StudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	student, err := h.Students.Update(c.UserContext(), id, req.input())
	if err != nil {
		return orNotFound(err, studentNotFound)
	}
	return c.JSON(student)
}

func (h *Handler) DeleteStudent(c *fiber.Ctx) error {
	id, err := paramID(c, studentNotFound)
	if err != nil {
		return err
	}

	if err := h.Students.Delete(c.UserContext(), id); err != nil {
		return orNotFound(err, studentNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) StudentPayments(c *fiber.Ctx) error {
	id, err := paramID(c, studentNotFound)
	if err != nil {
		return err
	}

	payments, err := h.Students.Payments(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, studentNotFound)
	}
	return c.JSON(payments)
}

func (h *Handler) StudentPaymentSummary(c *fiber.Ctx) error {
	id, err := paramID(c, studentNotFound)
	if err != nil {
		return err
	}

	summary, err := h.Students.PaymentSummary(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, studentNotFound)
	}
	return c.JSON(summary)
}
