// file: internals/features/library/borrow_requests/model/borrow_request_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// DateLayout is the wire and storage layout of borrow dates.
const DateLayout = "2006-01-02"

func IsDecision(status string) bool {
	return status == StatusApproved || status == StatusDenied
}

func IsStatus(status string) bool {
	return status == StatusPending || IsDecision(status)
}

type BorrowRequestModel struct {
	BorrowRequestID uint `gorm:"primaryKey;column:borrow_request_id" json:"borrow_request_id"`

	BorrowRequestUserID uint `gorm:"not null;index:idx_borrow_requests_user;column:borrow_request_user_id" json:"borrow_request_user_id"`
	BorrowRequestBookID uint `gorm:"not null;index:idx_borrow_requests_book_dates,priority:1;column:borrow_request_book_id" json:"borrow_request_book_id"`

	// Closed interval [start, end], both days included.
	BorrowRequestStartDate datatypes.Date `gorm:"type:date;not null;index:idx_borrow_requests_book_dates,priority:2;column:borrow_request_start_date" json:"borrow_request_start_date"`
	BorrowRequestEndDate   datatypes.Date `gorm:"type:date;not null;index:idx_borrow_requests_book_dates,priority:3;check:chk_borrow_requests_range,borrow_request_end_date >= borrow_request_start_date;column:borrow_request_end_date" json:"borrow_request_end_date"`

	BorrowRequestStatus string `gorm:"type:varchar(16);not null;default:'pending';check:chk_borrow_requests_status,borrow_request_status IN ('pending','approved','denied');column:borrow_request_status" json:"borrow_request_status"`

	BorrowRequestDecidedAt *time.Time `gorm:"type:timestamptz;column:borrow_request_decided_at" json:"borrow_request_decided_at,omitempty"`
	BorrowRequestDecidedBy *uint      `gorm:"column:borrow_request_decided_by" json:"borrow_request_decided_by,omitempty"`

	BorrowRequestCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:borrow_request_created_at" json:"borrow_request_created_at"`
	BorrowRequestUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:borrow_request_updated_at" json:"borrow_request_updated_at"`
}

func (BorrowRequestModel) TableName() string { return "borrow_requests" }

func (m *BorrowRequestModel) Start() time.Time { return time.Time(m.BorrowRequestStartDate) }
func (m *BorrowRequestModel) End() time.Time   { return time.Time(m.BorrowRequestEndDate) }

// Overlaps reports whether the closed intervals [start, end] of m and the
// given range share at least one day. Shared endpoints overlap.
func (m *BorrowRequestModel) Overlaps(start, end time.Time) bool {
	return Overlaps(m.Start(), m.End(), start, end)
}

func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// ListFilter narrows a listing. Zero values match everything.
type ListFilter struct {
	UserID   *uint
	BookID   *uint
	Statuses []string
}

// OverlapQuery selects requests of one book whose interval overlaps
// [Start, End]. Nil Statuses means any status; ExcludeID 0 excludes nothing.
type OverlapQuery struct {
	BookID    uint
	Start     time.Time
	End       time.Time
	Statuses  []string
	ExcludeID uint
}
