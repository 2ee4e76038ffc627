package logger

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"librarian_backend/internals/configs"
)

// LoggerMiddleware mencatat request dengan format dan zona waktu dari config.
// Health check tidak dicatat. Output nil berarti stdout.
func LoggerMiddleware(cfg configs.LogConfig, out io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.TimeZone,
		Format:     cfg.Format,
		Output:     out,
	})
}
