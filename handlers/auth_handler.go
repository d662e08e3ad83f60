package handlers

import (
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email,max=254"`
	Username        string  `json:"username" validate:"required,notblank,max=150"`
	Password        string  `json:"password" validate:"required,min=8"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string  `json:"first_name" validate:"max=150"`
	LastName        string  `json:"last_name" validate:"max=150"`
	PhoneNumber     *string `json:"phone_number" validate:"omitempty,max=15"`
	Address         *string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.Accounts.Register(c.UserContext(), services.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful! Please wait for admin approval before logging in.",
		"user_id": account.ID,
		"email":   account.Email,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, token, err := h.Accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"user":    account,
		"message": "Login successful!",
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.Accounts.Logout(c.UserContext(), currentClaims(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logout successful"})
}
