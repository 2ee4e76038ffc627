// file: internals/features/library/books/route/book_routes.go
package route

import (
	bookController "librarian_backend/internals/features/library/books/controller"

	"github.com/gofiber/fiber/v2"
)

// Mounted under /api/librarian; the group already enforces the admin role.
//
//	POST /api/librarian/add_book
func BookAdminRoutes(r fiber.Router, svc bookController.Catalog) {
	ctrl := bookController.NewBookController(svc)

	r.Post("/add_book", ctrl.AddBook)
}

// Mounted under /api/user; any authenticated identity.
//
//	GET /api/user/books
//	GET /api/user/books/:id
func BookUserRoutes(r fiber.Router, svc bookController.Catalog) {
	ctrl := bookController.NewBookController(svc)

	r.Get("/books", ctrl.ListBooks)
	r.Get("/books/:id", ctrl.GetBook)
}
