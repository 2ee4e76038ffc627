// file: internals/features/library/borrow_requests/dto/borrow_request_dto.go
package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"librarian_backend/internals/features/library/borrow_requests/model"
)

/* =========================================================
   REQUEST
   ========================================================= */

// SubmitBorrowRequest: user_id is optional and defaults to the caller.
type SubmitBorrowRequest struct {
	UserID    *uint  `json:"user_id"    validate:"omitempty,min=1"`
	BookID    uint   `json:"book_id"    validate:"required,min=1"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
}

func (r *SubmitBorrowRequest) Normalize() {
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

type DecideBorrowRequest struct {
	Status string `json:"status" validate:"required,oneof=approved denied"`
}

func (r *DecideBorrowRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

// ParseDate reads a fixed-width calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, time.UTC)
}

/* =========================================================
   RESPONSE
   ========================================================= */

type BorrowRequestResponse struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	BookID    uint       `json:"book_id"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Status    string     `json:"status"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	DecidedBy *uint      `json:"decided_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromModel(m *model.BorrowRequestModel) BorrowRequestResponse {
	return BorrowRequestResponse{
		ID:        m.BorrowRequestID,
		UserID:    m.BorrowRequestUserID,
		BookID:    m.BorrowRequestBookID,
		StartDate: m.Start().Format(model.DateLayout),
		EndDate:   m.End().Format(model.DateLayout),
		Status:    m.BorrowRequestStatus,
		DecidedAt: m.BorrowRequestDecidedAt,
		DecidedBy: m.BorrowRequestDecidedBy,
		CreatedAt: m.BorrowRequestCreatedAt,
	}
}

func FromModels(rows []model.BorrowRequestModel) []BorrowRequestResponse {
	out := make([]BorrowRequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type BorrowRequestEventResponse struct {
	ID          string         `json:"id"`
	RequestID   uint           `json:"request_id"`
	Type        string         `json:"type"`
	FromStatus  *string        `json:"from_status,omitempty"`
	ToStatus    string         `json:"to_status"`
	ActorUserID uint           `json:"actor_user_id"`
	Payload     datatypes.JSON `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func FromEventModels(rows []model.BorrowRequestEventModel) []BorrowRequestEventResponse {
	out := make([]BorrowRequestEventResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, BorrowRequestEventResponse{
			ID:          e.BorrowRequestEventID.String(),
			RequestID:   e.BorrowRequestEventRequestID,
			Type:        e.BorrowRequestEventType,
			FromStatus:  e.BorrowRequestEventFromStatus,
			ToStatus:    e.BorrowRequestEventToStatus,
			ActorUserID: e.BorrowRequestEventActorUserID,
			Payload:     e.BorrowRequestEventPayload,
			CreatedAt:   e.BorrowRequestEventCreatedAt,
		})
	}
	return out
}
