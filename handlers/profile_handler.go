package handlers

import (
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,notblank,max=150"`
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	Address     *string `json:"address"`
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	account, err := h.Accounts.Get(c.UserContext(), currentAccount(c).ID)
	if err != nil {
		return orNotFound(err, "User not found")
	}
	return c.JSON(account)
}

// UpdateProfile applies a partial update. Approval fields, flags and
// timestamps are not accepted here.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.Accounts.UpdateProfile(c.UserContext(), currentAccount(c).ID, services.ProfileUpdate{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return orNotFound(err, "User not found")
	}
	return c.JSON(account)
}
