package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventSubmitted = "submitted"
	EventApproved  = StatusApproved
	EventDenied    = StatusDenied
)

// BorrowRequestEventModel is an append-only audit row. Rows are never
// updated or deleted.
type BorrowRequestEventModel struct {
	BorrowRequestEventID uuid.UUID `gorm:"type:uuid;primaryKey;column:borrow_request_event_id" json:"borrow_request_event_id"`

	BorrowRequestEventRequestID uint   `gorm:"not null;index:idx_borrow_request_events_request,priority:1;column:borrow_request_event_request_id" json:"borrow_request_event_request_id"`
	BorrowRequestEventType      string `gorm:"type:varchar(16);not null;column:borrow_request_event_type" json:"borrow_request_event_type"`

	BorrowRequestEventFromStatus *string `gorm:"type:varchar(16);column:borrow_request_event_from_status" json:"borrow_request_event_from_status,omitempty"`
	BorrowRequestEventToStatus   string  `gorm:"type:varchar(16);not null;column:borrow_request_event_to_status" json:"borrow_request_event_to_status"`

	BorrowRequestEventActorUserID uint           `gorm:"not null;column:borrow_request_event_actor_user_id" json:"borrow_request_event_actor_user_id"`
	BorrowRequestEventPayload     datatypes.JSON `gorm:"type:jsonb;column:borrow_request_event_payload" json:"borrow_request_event_payload,omitempty"`

	BorrowRequestEventCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;index:idx_borrow_request_events_request,priority:2;column:borrow_request_event_created_at" json:"borrow_request_event_created_at"`
}

func (BorrowRequestEventModel) TableName() string { return "borrow_request_events" }
