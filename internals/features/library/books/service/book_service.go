// file: internals/features/library/books/service/book_service.go
package service

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"librarian_backend/internals/features/library/books/dto"
	"librarian_backend/internals/features/library/books/model"
	helper "librarian_backend/internals/helpers"
)

type Repository interface {
	Create(ctx context.Context, book *model.BookModel) error
	List(ctx context.Context) ([]model.BookModel, error)
	FindByID(ctx context.Context, id uint) (*model.BookModel, error)
	Count(ctx context.Context) (int64, error)
}

type BookService struct {
	repo     Repository
	validate *validator.Validate
}

func NewBookService(repo Repository) *BookService {
	return &BookService{repo: repo, validate: helper.NewValidator()}
}

func (s *BookService) AddBook(ctx context.Context, req dto.BookCreateRequest) (*model.BookModel, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.ValidationError(err)
	}

	book := req.ToModel()
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	log.Printf("[BOOKS][CREATE] book_id=%d title=%q", book.BookID, book.BookTitle)
	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]model.BookModel, error) {
	return s.repo.List(ctx)
}

func (s *BookService) GetBook(ctx context.Context, id uint) (*model.BookModel, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BookService) CountBooks(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
