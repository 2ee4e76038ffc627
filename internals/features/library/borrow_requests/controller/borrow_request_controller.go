// file: internals/features/library/borrow_requests/controller/borrow_request_controller.go
package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"librarian_backend/internals/features/library/borrow_requests/dto"
	"librarian_backend/internals/features/library/borrow_requests/model"
	helper "librarian_backend/internals/helpers"
	helperAuth "librarian_backend/internals/helpers/auth"
)

type BorrowService interface {
	SubmitRequest(ctx context.Context, caller helperAuth.Identity, req dto.SubmitBorrowRequest) (*model.BorrowRequestModel, error)
	DecideRequest(ctx context.Context, caller helperAuth.Identity, requestID uint, req dto.DecideBorrowRequest) (*model.BorrowRequestModel, error)
	ListRequests(ctx context.Context, caller helperAuth.Identity, filter model.ListFilter) ([]model.BorrowRequestModel, error)
	BorrowHistory(ctx context.Context, caller helperAuth.Identity, userID *uint) ([]model.BorrowRequestModel, error)
	History(ctx context.Context, requestID uint) ([]model.BorrowRequestEventModel, error)
}

type BorrowRequestController struct {
	svc BorrowService
}

func NewBorrowRequestController(svc BorrowService) *BorrowRequestController {
	return &BorrowRequestController{svc: svc}
}

// POST /api/user/borrow_request
func (bc *BorrowRequestController) Submit(c *fiber.Ctx) error {
	caller, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.SubmitBorrowRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	br, err := bc.svc.SubmitRequest(c.UserContext(), caller, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Borrow request submitted", dto.FromModel(br))
}

// GET /api/user/borrow_history?user_id=
func (bc *BorrowRequestController) BorrowHistory(c *fiber.Ctx) error {
	caller, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	userID, err := helper.ParseOptionalID(c.Query("user_id"), "user_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	rows, err := bc.svc.BorrowHistory(c.UserContext(), caller, userID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows))
}

// GET /api/librarian/borrow_requests?status=pending,approved&user_id=&book_id=
func (bc *BorrowRequestController) List(c *fiber.Ctx) error {
	caller, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	filter := model.ListFilter{Statuses: helper.SplitCSV(c.Query("status"))}
	if filter.UserID, err = helper.ParseOptionalID(c.Query("user_id"), "user_id"); err != nil {
		return helper.FromError(c, err)
	}
	if filter.BookID, err = helper.ParseOptionalID(c.Query("book_id"), "book_id"); err != nil {
		return helper.FromError(c, err)
	}

	rows, err := bc.svc.ListRequests(c.UserContext(), caller, filter)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows))
}

// PUT /api/librarian/approve_deny_request/:id
func (bc *BorrowRequestController) Decide(c *fiber.Ctx) error {
	caller, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	id, err := helper.ParseID(c.Params("id"), "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.DecideBorrowRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	br, err := bc.svc.DecideRequest(c.UserContext(), caller, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Borrow request "+br.BorrowRequestStatus, dto.FromModel(br))
}

// GET /api/librarian/borrow_requests/:id/history
func (bc *BorrowRequestController) Events(c *fiber.Ctx) error {
	id, err := helper.ParseID(c.Params("id"), "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	events, err := bc.svc.History(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromEventModels(events))
}
