// file: internals/features/library/books/model/book_model.go
package model

import (
	"time"
)

type BookModel struct {
	BookID uint `gorm:"primaryKey;column:book_id" json:"book_id"`

	BookTitle  string `gorm:"type:varchar(255);not null;column:book_title" json:"book_title"`
	BookAuthor string `gorm:"type:varchar(255);not null;column:book_author" json:"book_author"`

	// Informational only; availability for a period comes from approved
	// borrow requests, never from this counter.
	BookAvailableCopies int `gorm:"not null;check:chk_books_available_copies,book_available_copies >= 0;column:book_available_copies" json:"book_available_copies"`

	BookCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:book_created_at" json:"book_created_at"`
	BookUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:book_updated_at" json:"book_updated_at"`
}

func (BookModel) TableName() string { return "books" }
