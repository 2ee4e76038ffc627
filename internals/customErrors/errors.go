package customerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindDuplicateEmail
	KindNotFound
	KindConflict
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindDuplicateEmail:
		return "DuplicateEmail"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "ConflictError"
	case KindStore:
		return "StoreError"
	default:
		return "Error"
	}
}

// Error is a classified failure. Two errors are equal under errors.Is when
// their kinds match, so the sentinels below match every error of their kind.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation     = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized, Message: "invalid credentials"}
	ErrForbidden      = &Error{Kind: KindForbidden, Message: "permission denied"}
	ErrDuplicateEmail = &Error{Kind: KindDuplicateEmail, Message: "user already exists"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "book already booked for requested dates"}
	ErrStore          = &Error{Kind: KindStore, Message: "internal server error"}
)

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func ValidationFields(message string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Store wraps an unexpected persistence failure. The cause is kept for logs
// and never rendered to clients.
func Store(op string, err error) error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// Postgres SQLSTATE codes the stores react to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation || errors.Is(err, gorm.ErrDuplicatedKey)
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKeyViolation || errors.Is(err, gorm.ErrForeignKeyViolated)
}

func IsExclusionViolation(err error) bool {
	return pgCode(err) == pgExclusionViolation
}

// IsRetryable reports whether a transaction failed only because of
// concurrent contention and may succeed when run again.
func IsRetryable(err error) bool {
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}

func GetStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindDuplicateEmail, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func GetMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindStore {
		return ErrStore.Message
	}
	return e.Message
}

func GetFields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}
