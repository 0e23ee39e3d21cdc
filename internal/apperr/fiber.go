package apperr

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every failure as the stable error envelope
// {"error":{"code","message"}}. Raw causes (driver errors, stack detail)
// are logged, never echoed to the client.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := CodeStorageError
		message := "internal error"
		status := HTTPStatus(code)

		var appErr *Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
			status = HTTPStatus(code)
		case errors.As(err, &fiberErr):
			code = CodeForStatus(fiberErr.Code)
			message = fiberErr.Message
			status = fiberErr.Code
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "error", err)
			message = "internal error"
		}

		return c.Status(status).JSON(fiber.Map{
			"error": fiber.Map{"code": code, "message": message},
		})
	}
}
