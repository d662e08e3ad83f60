package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/anjiri1684/tuition_admin/utils"
	"github.com/gofiber/fiber/v2"
)

type ApprovalRequest struct {
	Decision        string  `json:"decision" validate:"required,approval_decision"`
	RejectionReason *string `json:"rejection_reason"`
}

type AdminUpdateUserRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	Address     *string `json:"address"`
	IsActive    *bool   `json:"is_active"`
}

type statusFilter struct {
	Status string `json:"status" validate:"omitempty,approval_status"`
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	filter := statusFilter{Status: c.Query("status")}
	if err := utils.Validate.Struct(filter); err != nil {
		return err
	}

	var status *models.ApprovalStatus
	if filter.Status != "" {
		s := models.ApprovalStatus(filter.Status)
		status = &s
	}

	accounts, err := h.Accounts.List(c.UserContext(), status)
	if err != nil {
		return err
	}

	views := make([]services.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, services.NewAccountView(a))
	}
	return c.JSON(views)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "User not found")
	if err != nil {
		return err
	}

	account, err := h.Accounts.Get(c.UserContext(), id)
	if err != nil {
		return orNotFound(err, "User not found")
	}
	return c.JSON(services.NewAccountView(*account))
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "User not found")
	if err != nil {
		return err
	}

	var req AdminUpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.Accounts.AdminUpdate(c.UserContext(), id, services.AdminUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return orNotFound(err, "User not found")
	}
	return c.JSON(services.NewAccountView(*account))
}

func (h *Handler) ApproveUser(c *fiber.Ctx) error {
	id, err := paramID(c, "User not found")
	if err != nil {
		return err
	}

	var req ApprovalRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	decision := models.ApprovalStatus(req.Decision)
	account, err := h.Accounts.SubmitDecision(c.UserContext(), id, decision, currentAccount(c).ID, req.RejectionReason)
	if err != nil {
		return orNotFound(err, "User not found")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("User %s has been %s", account.Email, decision),
		"user":    services.NewAccountView(*account),
	})
}

func (h *Handler) PendingCount(c *fiber.Ctx) error {
	count, err := h.Accounts.PendingCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"pending_users_count": count})
}

// PaymentsReport streams a CSV of payments between start_date and end_date
// (inclusive, YYYY-MM-DD). The default range is the last month.
func (h *Handler) PaymentsReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD.")
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD.")
	}
	if endDate.Before(startDate) {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
	}

	payments, err := h.Payments.Between(c.UserContext(), startDate, endDate)
	if err != nil {
		return err
	}

	b := new(bytes.Buffer)
	if err := services.WritePaymentsCSV(b, payments); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"payments_%s_to_%s.csv\"",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))
	return c.Send(b.Bytes())
}
