package details

import (
	"github.com/gofiber/fiber/v2"

	bookController "librarian_backend/internals/features/library/books/controller"
	bookRoute "librarian_backend/internals/features/library/books/route"
	borrowController "librarian_backend/internals/features/library/borrow_requests/controller"
	borrowRoute "librarian_backend/internals/features/library/borrow_requests/route"
)

func LibraryAdminRoutes(librarian fiber.Router, books bookController.Catalog, borrows borrowController.BorrowService) {
	bookRoute.BookAdminRoutes(librarian, books)
	borrowRoute.BorrowRequestAdminRoutes(librarian, borrows)
}

func LibraryUserRoutes(user fiber.Router, books bookController.Catalog, borrows borrowController.BorrowService) {
	bookRoute.BookUserRoutes(user, books)
	borrowRoute.BorrowRequestUserRoutes(user, borrows)
}
