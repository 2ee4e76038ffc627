package details

import (
	"github.com/gofiber/fiber/v2"

	userController "librarian_backend/internals/features/users/user/controller"
	userRoute "librarian_backend/internals/features/users/user/route"
)

// UserRoutes mounts account management on the librarian group.
func UserRoutes(librarian fiber.Router, users userController.UserCreator) {
	userRoute.UserAdminRoutes(librarian, users)
}
