package handlers

import (
	"github.com/anjiri1684/tuition_admin/services"
	"github.com/anjiri1684/tuition_admin/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrorHandler renders every error returned by a handler as
// {"status":"error","code":...,"message":...,"errors":{...}}.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"
		var fields map[string]string

		var (
			verr  *services.ValidationError
			verrs validator.ValidationErrors
			ferr  *fiber.Error
		)
		switch {
		case errors.As(err, &verr):
			code, message, fields = fiber.StatusBadRequest, verr.Message, verr.FieldMap()
		case errors.As(err, &verrs):
			code, message, fields = fiber.StatusBadRequest, "Validation failed", utils.FieldErrors(verrs)
		case errors.Is(err, services.ErrInvalidCredentials),
			errors.Is(err, services.ErrAccountNotApproved),
			errors.Is(err, services.ErrAccountDeactivated):
			code, message = fiber.StatusBadRequest, err.Error()
		case errors.Is(err, services.ErrNotFound):
			code, message = fiber.StatusNotFound, "Not found"
		case errors.Is(err, services.ErrReceiptStorageDisabled):
			code, message = fiber.StatusServiceUnavailable, err.Error()
		case errors.As(err, &ferr):
			code, message = ferr.Code, ferr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}

		body := fiber.Map{
			"status":  "error",
			"code":    code,
			"message": message,
		}
		if len(fields) > 0 {
			body["errors"] = fields
		}
		return c.Status(code).JSON(body)
	}
}
