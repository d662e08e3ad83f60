package handlers

import (
	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/anjiri1684/tuition_admin/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Locals keys set by the auth middleware.
const (
	AccountKey = "account"
	ClaimsKey  = "claims"
)

type Handler struct {
	Accounts *services.AccountService
	Students *services.StudentService
	Fees     *services.FeeService
	Payments *services.PaymentService
	Receipts *services.ReceiptService
	Log      zerolog.Logger
}

func New(accounts *services.AccountService, students *services.StudentService, fees *services.FeeService,
	payments *services.PaymentService, receipts *services.ReceiptService, log zerolog.Logger) *Handler {
	return &Handler{
		Accounts: accounts,
		Students: students,
		Fees:     fees,
		Payments: payments,
		Receipts: receipts,
		Log:      log,
	}
}

func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return utils.Validate.Struct(req)
}

// paramID parses the :id route parameter. A malformed id cannot match any
// row, so it is reported with the same not found message.
func paramID(c *fiber.Ctx, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, notFound)
	}
	return id, nil
}

// orNotFound swaps services.ErrNotFound for a 404 carrying message.
func orNotFound(err error, message string) error {
	if errors.Is(err, services.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, message)
	}
	return err
}

func currentAccount(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals(AccountKey).(*models.Account)
	return account
}

func currentClaims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(ClaimsKey).(*services.Claims)
	return claims
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"message": "API is working!",
	})
}
