// file: internals/features/library/books/controller/book_controller.go
package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"librarian_backend/internals/features/library/books/dto"
	"librarian_backend/internals/features/library/books/model"
	helper "librarian_backend/internals/helpers"
)

type Catalog interface {
	AddBook(ctx context.Context, req dto.BookCreateRequest) (*model.BookModel, error)
	ListBooks(ctx context.Context) ([]model.BookModel, error)
	GetBook(ctx context.Context, id uint) (*model.BookModel, error)
}

type BookController struct {
	svc Catalog
}

func NewBookController(svc Catalog) *BookController {
	return &BookController{svc: svc}
}

// POST /api/librarian/add_book
func (bc *BookController) AddBook(c *fiber.Ctx) error {
	var req dto.BookCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	book, err := bc.svc.AddBook(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Book added successfully", dto.FromModel(book))
}

// GET /api/user/books
func (bc *BookController) ListBooks(c *fiber.Ctx) error {
	books, err := bc.svc.ListBooks(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(books))
}

// GET /api/user/books/:id
func (bc *BookController) GetBook(c *fiber.Ctx) error {
	id, err := helper.ParseID(c.Params("id"), "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	book, err := bc.svc.GetBook(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(book))
}
