package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders unhandled errors as the JSON error envelope. Server
// errors are logged with their cause but answered with a generic message;
// upstream failures can wrap details that must not reach the caller.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed", zap.Error(err), zap.String("path", c.Path()))
			message = "Internal server error"
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
