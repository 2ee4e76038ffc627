// file: internals/features/library/borrow_requests/route/borrow_request_routes.go
package route

import (
	borrowController "librarian_backend/internals/features/library/borrow_requests/controller"

	"github.com/gofiber/fiber/v2"
)

// Mounted under /api/librarian (admin only).
//
//	GET /api/librarian/borrow_requests
//	GET /api/librarian/borrow_requests/:id/history
//	PUT /api/librarian/approve_deny_request/:id
func BorrowRequestAdminRoutes(r fiber.Router, svc borrowController.BorrowService) {
	ctrl := borrowController.NewBorrowRequestController(svc)

	r.Get("/borrow_requests", ctrl.List)
	r.Get("/borrow_requests/:id/history", ctrl.Events)
	r.Put("/approve_deny_request/:id", ctrl.Decide)
}

// Mounted under /api/user (any authenticated caller).
//
//	POST /api/user/borrow_request
//	GET  /api/user/borrow_history
func BorrowRequestUserRoutes(r fiber.Router, svc borrowController.BorrowService) {
	ctrl := borrowController.NewBorrowRequestController(svc)

	r.Post("/borrow_request", ctrl.Submit)
	r.Get("/borrow_history", ctrl.BorrowHistory)
}
