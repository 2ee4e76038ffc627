package route

import (
	userController "librarian_backend/internals/features/users/user/controller"
	rateLimiter "librarian_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

// Panggil: route.UserAdminRoutes(app.Group("/api/librarian"), userSvc)
//
//	POST /api/librarian/create_user
func UserAdminRoutes(r fiber.Router, svc userController.UserCreator) {
	userCtrl := userController.NewUserController(svc)

	r.Post("/create_user", rateLimiter.RegisterRateLimiter(), userCtrl.CreateUser)
}
