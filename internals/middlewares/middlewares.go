package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"librarian_backend/internals/configs"
	"librarian_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App, cfg configs.Config) {
	app.Use(RecoveryMiddleware(!cfg.IsProduction()))
	app.Use(RequestContext(cfg.RequestTimeout))
	app.Use(logger.LoggerMiddleware(cfg.Log, nil))
	app.Use(CorsMiddleware(cfg.CorsAllowOrigins))
	app.Use(GlobalRateLimiter())
}
