// file: internals/features/library/books/repository/book_repository.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	customerrors "librarian_backend/internals/customErrors"
	bookModel "librarian_backend/internals/features/library/books/model"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, book *bookModel.BookModel) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return customerrors.Store("create book", err)
	}
	return nil
}

// List returns the whole catalog in insertion order.
func (r *BookRepository) List(ctx context.Context) ([]bookModel.BookModel, error) {
	var books []bookModel.BookModel
	if err := r.db.WithContext(ctx).Order("book_id ASC").Find(&books).Error; err != nil {
		return nil, customerrors.Store("list books", err)
	}
	return books, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (*bookModel.BookModel, error) {
	var book bookModel.BookModel
	if err := r.db.WithContext(ctx).First(&book, "book_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.NotFound("book not found")
		}
		return nil, customerrors.Store("find book", err)
	}
	return &book, nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&bookModel.BookModel{}).Count(&n).Error; err != nil {
		return 0, customerrors.Store("count books", err)
	}
	return n, nil
}
