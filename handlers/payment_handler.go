package handlers

import (
	"fmt"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const paymentNotFound = "Payment not found"

type PaymentRequest struct {
	Student       string           `json:"student" validate:"required,uuid"`
	PaymentMode   string           `json:"payment_mode" validate:"required,payment_mode"`
	PaymentTerm   string           `json:"payment_term" validate:"required,payment_term"`
	AmountPaid    *decimal.Decimal `json:"amount_paid"`
	AmountDue     *decimal.Decimal `json:"amount_due"`
	DueDate       *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	TransactionID *string          `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         *string          `json:"notes"`
}

func (r PaymentRequest) input() services.PaymentInput {
	in := services.PaymentInput{
		StudentID:     uuid.MustParse(r.Student),
		PaymentMode:   models.PaymentMode(r.PaymentMode),
		PaymentTerm:   models.PaymentTerm(r.PaymentTerm),
		AmountPaid:    r.AmountPaid,
		AmountDue:     r.AmountDue,
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
	}
	if r.DueDate != nil {
		// format already checked by the validator
		d, _ := time.Parse("2006-01-02", *r.DueDate)
		in.DueDate = &d
	}
	return in
}

func (h *Handler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.Payments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, summary, err := h.Payments.Record(c.UserContext(), req.input())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(struct {
		*services.PaymentView
		PaymentSummary *services.PaymentSummary `json:"payment_summary"`
	}{payment, summary})
}

func (h *Handler) GetPayment(c *fiber.Ctx) error {
	id, err := paramID(c, paymentNotFound)
	if err != nil {
		return err
	}

	payment, err := h.Payments.Get(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, paymentNotFound)
	}
	return c.JSON(payment)
}

func (h *Handler) UpdatePayment(c *fiber.Ctx) error {
	id, err := paramID(c, paymentNotFound)
	if err != nil {
		return err
	}

	var req PaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, err := h.Payments.Update(c.UserContext(), id, req.input())
	if err != nil {
		return orNotFound(err, paymentNotFound)
	}
	return c.JSON(payment)
}

func (h *Handler) DeletePayment(c *fiber.Ctx) error {
	id, err := paramID(c, paymentNotFound)
	if err != nil {
		return err
	}

	if err := h.Payments.Delete(c.UserContext(), id); err != nil {
		return orNotFound(err, paymentNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) PaymentsSummary(c *fiber.Ctx) error {
	summary, err := h.Payments.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *Handler) PaymentStudentSummary(c *fiber.Ctx) error {
	id, err := paramID(c, paymentNotFound)
	if err != nil {
		return err
	}

	summary, err := h.Payments.StudentSummary(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, paymentNotFound)
	}
	return c.JSON(summary)
}

func (h *Handler) DownloadReceipt(c *fiber.Ctx) error {
	id, err := paramID(c, paymentNotFound)
	if err != nil {
		return err
	}

	pdf, payment, err := h.Receipts.PDF(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, paymentNotFound)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=\"%s.pdf\"", payment.ReceiptNumber))
	return c.Send(pdf)
}

func (h *Handler) PublishReceipt(c *fiber.Ctx) error {
	id, err := paramID(c, paymentNotFound)
	if err != nil {
		return err
	}

	payment, err := h.Receipts.Publish(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, paymentNotFound)
	}
	return c.JSON(payment)
}
