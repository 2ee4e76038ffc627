// file: internals/features/library/books/dto/book_dto.go
package dto

import (
	"strings"

	model "librarian_backend/internals/features/library/books/model"
)

/* =========================================================
   REQUEST
   ========================================================= */

type BookCreateRequest struct {
	Title           string `json:"title"            validate:"required,max=255"`
	Author          string `json:"author"           validate:"required,max=255"`
	AvailableCopies *int   `json:"available_copies" validate:"required,min=0"`
}

func (r *BookCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
}

func (r *BookCreateRequest) ToModel() *model.BookModel {
	m := &model.BookModel{
		BookTitle:  r.Title,
		BookAuthor: r.Author,
	}
	if r.AvailableCopies != nil {
		m.BookAvailableCopies = *r.AvailableCopies
	}
	return m
}

/* =========================================================
   RESPONSE
   ========================================================= */

type BookResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	AvailableCopies int    `json:"available_copies"`
}

func FromModel(m *model.BookModel) BookResponse {
	return BookResponse{
		ID:              m.BookID,
		Title:           m.BookTitle,
		Author:          m.BookAuthor,
		AvailableCopies: m.BookAvailableCopies,
	}
}

func FromModels(rows []model.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
