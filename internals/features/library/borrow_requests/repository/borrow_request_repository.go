// file: internals/features/library/borrow_requests/repository/borrow_request_repository.go
package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerrors "librarian_backend/internals/customErrors"
	bookModel "librarian_backend/internals/features/library/books/model"
	"librarian_backend/internals/features/library/borrow_requests/model"
	userModel "librarian_backend/internals/features/users/user/model"
)

var json = jsoniter.ConfigFastest

// Tx is the ledger as seen from inside a per-book transaction. Every call
// runs on the transaction that holds the book row lock.
type Tx interface {
	UserExists(userID uint) (bool, error)
	LockRequest(id uint) (*model.BorrowRequestModel, error)
	FindOverlapping(q model.OverlapQuery) ([]model.BorrowRequestModel, error)
	Create(req *model.BorrowRequestModel) error
	SaveDecision(req *model.BorrowRequestModel) error
	AppendEvent(ev *model.BorrowRequestEventModel, payload any) error
}

type BorrowRequestRepository struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
}

type Option func(*BorrowRequestRepository)

// WithRetry bounds the reruns of a per-book transaction that failed on a
// serialization failure or deadlock.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(r *BorrowRequestRepository) {
		if maxAttempts > 0 {
			r.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			r.backoff = backoff
		}
	}
}

func NewBorrowRequestRepository(db *gorm.DB, opts ...Option) *BorrowRequestRepository {
	r := &BorrowRequestRepository{db: db, maxAttempts: 3, backoff: 20 * time.Millisecond}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithBookLock runs fn in a transaction holding SELECT ... FOR UPDATE on the
// book row, so every check-then-write for one book is serialised.
func (r *BorrowRequestRepository) WithBookLock(ctx context.Context, bookID uint, fn func(Tx) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var book bookModel.BookModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("book_id").
				Where("book_id = ?", bookID).
				Take(&book).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return customerrors.NotFound("book not found")
				}
				return customerrors.Store("lock book", err)
			}
			return fn(&gormTx{tx: tx})
		})
		if err == nil || !customerrors.IsRetryable(err) {
			return classify(err)
		}

		log.Printf("[BORROW][RETRY] book_id=%d attempt=%d/%d err=%v", bookID, attempt, r.maxAttempts, err)
		if attempt == r.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return customerrors.Store("borrow transaction", ctx.Err())
		case <-time.After(r.backoff * time.Duration(attempt)):
		}
	}
	return customerrors.Conflict("book is busy, try again")
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case customerrors.IsExclusionViolation(err):
		return customerrors.ErrConflict
	case customerrors.IsForeignKeyViolation(err):
		return customerrors.NotFound("user or book not found")
	}
	var ce *customerrors.Error
	if errors.As(err, &ce) {
		return err
	}
	return customerrors.Store("borrow transaction", err)
}

func (r *BorrowRequestRepository) FindByID(ctx context.Context, id uint) (*model.BorrowRequestModel, error) {
	var m model.BorrowRequestModel
	if err := r.db.WithContext(ctx).Where("borrow_request_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.NotFound("borrow request not found")
		}
		return nil, customerrors.Store("find borrow request", err)
	}
	return &m, nil
}

func (r *BorrowRequestRepository) List(ctx context.Context, f model.ListFilter) ([]model.BorrowRequestModel, error) {
	q := r.db.WithContext(ctx).Model(&model.BorrowRequestModel{})
	if f.UserID != nil {
		q = q.Where("borrow_request_user_id = ?", *f.UserID)
	}
	if f.BookID != nil {
		q = q.Where("borrow_request_book_id = ?", *f.BookID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("borrow_request_status = ANY(?)", pq.Array(f.Statuses))
	}

	var rows []model.BorrowRequestModel
	if err := q.Order("borrow_request_id ASC").Find(&rows).Error; err != nil {
		return nil, customerrors.Store("list borrow requests", err)
	}
	return rows, nil
}

func (r *BorrowRequestRepository) ListEvents(ctx context.Context, requestID uint) ([]model.BorrowRequestEventModel, error) {
	var rows []model.BorrowRequestEventModel
	if err := r.db.WithContext(ctx).
		Where("borrow_request_event_request_id = ?", requestID).
		Order("borrow_request_event_created_at ASC, borrow_request_event_id ASC").
		Find(&rows).Error; err != nil {
		return nil, customerrors.Store("list borrow request events", err)
	}
	return rows, nil
}

/* =========================================================
   Transaction-scoped ledger
   ========================================================= */

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) UserExists(userID uint) (bool, error) {
	var n int64
	if err := t.tx.Model(&userModel.UserModel{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return false, customerrors.Store("check user", err)
	}
	return n > 0, nil
}

func (t *gormTx) LockRequest(id uint) (*model.BorrowRequestModel, error) {
	var m model.BorrowRequestModel
	if err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("borrow_request_id = ?", id).
		Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.NotFound("borrow request not found")
		}
		return nil, customerrors.Store("lock borrow request", err)
	}
	return &m, nil
}

func (t *gormTx) FindOverlapping(q model.OverlapQuery) ([]model.BorrowRequestModel, error) {
	db := t.tx.Model(&model.BorrowRequestModel{}).
		Where("borrow_request_book_id = ?", q.BookID).
		Where("borrow_request_start_date <= ?::date AND borrow_request_end_date >= ?::date",
			q.End.Format(model.DateLayout), q.Start.Format(model.DateLayout))
	if q.Statuses != nil {
		db = db.Where("borrow_request_status = ANY(?)", pq.Array(q.Statuses))
	}
	if q.ExcludeID != 0 {
		db = db.Where("borrow_request_id <> ?", q.ExcludeID)
	}

	var rows []model.BorrowRequestModel
	if err := db.Order("borrow_request_id ASC").Find(&rows).Error; err != nil {
		return nil, customerrors.Store("find overlapping requests", err)
	}
	return rows, nil
}

func (t *gormTx) Create(req *model.BorrowRequestModel) error {
	if err := t.tx.Create(req).Error; err != nil {
		return customerrors.Store("create borrow request", err)
	}
	return nil
}

func (t *gormTx) SaveDecision(req *model.BorrowRequestModel) error {
	res := t.tx.Model(&model.BorrowRequestModel{}).
		Where("borrow_request_id = ? AND borrow_request_status = ?", req.BorrowRequestID, model.StatusPending).
		Updates(map[string]any{
			"borrow_request_status":     req.BorrowRequestStatus,
			"borrow_request_decided_at": req.BorrowRequestDecidedAt,
			"borrow_request_decided_by": req.BorrowRequestDecidedBy,
			"borrow_request_updated_at": time.Now(),
		})
	if res.Error != nil {
		return customerrors.Store("save borrow decision", res.Error)
	}
	if res.RowsAffected == 0 {
		return customerrors.Conflict("borrow request already decided")
	}
	return nil
}

func (t *gormTx) AppendEvent(ev *model.BorrowRequestEventModel, payload any) error {
	if ev.BorrowRequestEventID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return customerrors.Store("new event id", err)
		}
		ev.BorrowRequestEventID = id
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return customerrors.Store("encode event payload", err)
		}
		ev.BorrowRequestEventPayload = datatypes.JSON(raw)
	}
	if err := t.tx.Create(ev).Error; err != nil {
		return customerrors.Store("append borrow request event", err)
	}
	return nil
}
