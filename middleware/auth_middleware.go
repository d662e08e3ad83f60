package middleware

import (
	"github.com/anjiri1684/tuition_admin/handlers"
	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Auth struct {
	tokens *services.TokenService
}

func NewAuth(tokens *services.TokenService) *Auth {
	return &Auth{tokens: tokens}
}

// Protected verifies the bearer token, then checks that it has not been
// revoked and that its account may still authenticate. The account and
// claims are stored in Locals for handlers.
func (a *Auth) Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     a.tokens.SigningKey(),
		Claims:         &services.Claims{},
		ErrorHandler:   jwtError,
		SuccessHandler: a.resolve,
	})
}

func (a *Auth) resolve(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return unauthorized(c, "Invalid or expired token")
	}
	claims, ok := token.Claims.(*services.Claims)
	if !ok {
		return unauthorized(c, "Invalid or expired token")
	}

	account, err := a.tokens.Resolve(c.UserContext(), claims)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrTokenRevoked):
		return unauthorized(c, "Invalid or expired token")
	case errors.Is(err, services.ErrAccountNotApproved), errors.Is(err, services.ErrAccountDeactivated):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"code":    fiber.StatusForbidden,
			"message": err.Error(),
		})
	default:
		return err
	}

	c.Locals(handlers.AccountKey, account)
	c.Locals(handlers.ClaimsKey, claims)
	return c.Next()
}

func jwtError(c *fiber.Ctx, err error) error {
	// gofiber/jwt/v3 returns this error message when the token is absent or malformed.
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"code":    fiber.StatusBadRequest,
			"message": "Missing or malformed token",
		})
	}
	return unauthorized(c, "Invalid or expired token")
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  "error",
		"code":    fiber.StatusUnauthorized,
		"message": message,
	})
}

// AdminRequired must run after Protected.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := c.Locals(handlers.AccountKey).(*models.Account)
		if !ok || !account.IsStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "error",
				"code":    fiber.StatusForbidden,
				"message": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}
