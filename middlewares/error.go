package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Route handlers return plain errors; anything that is not a *fiber.Error
// is logged and collapsed into a 500 so no internals leak.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// Fiber errors carry their own status code + message.
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).SendString(fe.Message)
		}

		log.Error("internal error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}
}
