// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"librarian_backend/internals/configs"
	"librarian_backend/internals/constants"
	bookController "librarian_backend/internals/features/library/books/controller"
	borrowController "librarian_backend/internals/features/library/borrow_requests/controller"
	userController "librarian_backend/internals/features/users/user/controller"
	authMiddleware "librarian_backend/internals/middlewares/auth"
	routeDetails "librarian_backend/internals/route/details"
)

var startTime = time.Now()

type UserService interface {
	userController.UserCreator
	authMiddleware.CredentialVerifier
}

// Services are the wired feature services the route tree dispatches to.
type Services struct {
	Users   UserService
	Books   bookController.Catalog
	Borrows borrowController.BorrowService
	Ping    func() error
}

func SetupRoutes(app *fiber.App, cfg configs.Config, svc Services) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, svc.Ping, cfg.Environment)

	// ===================== GROUPS =====================

	// Every /api route needs valid Basic credentials; they are verified once
	// here and the identity is read by the role guards below.
	log.Println("[INFO] Setting up API group (BasicAuth + identity)...")
	api := app.Group("/api",
		authMiddleware.BasicAuth(cfg.BasicAuthRealm),
		authMiddleware.ResolveIdentity(svc.Users, cfg.BasicAuthRealm),
	)

	log.Println("[INFO] Setting up LIBRARIAN group (admin only)...")
	librarian := api.Group("/librarian",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("access this resource"), constants.AdminOnly),
	)

	log.Println("[INFO] Setting up USER group (any role)...")
	user := api.Group("/user",
		authMiddleware.OnlyRolesSlice("", constants.AllRoles),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(librarian, svc.Users)

	log.Println("[INFO] Mounting Library routes...")
	routeDetails.LibraryAdminRoutes(librarian, svc.Books, svc.Borrows)
	routeDetails.LibraryUserRoutes(user, svc.Books, svc.Borrows)
}
