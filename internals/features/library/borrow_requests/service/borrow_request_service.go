// file: internals/features/library/borrow_requests/service/borrow_request_service.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"librarian_backend/internals/configs"
	"librarian_backend/internals/constants"
	customerrors "librarian_backend/internals/customErrors"
	"librarian_backend/internals/features/library/borrow_requests/dto"
	"librarian_backend/internals/features/library/borrow_requests/model"
	"librarian_backend/internals/features/library/borrow_requests/repository"
	helper "librarian_backend/internals/helpers"
	helperAuth "librarian_backend/internals/helpers/auth"
)

type Ledger interface {
	WithBookLock(ctx context.Context, bookID uint, fn func(repository.Tx) error) error
	FindByID(ctx context.Context, id uint) (*model.BorrowRequestModel, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.BorrowRequestModel, error)
	ListEvents(ctx context.Context, requestID uint) ([]model.BorrowRequestEventModel, error)
}

type BorrowRequestService struct {
	ledger   Ledger
	validate *validator.Validate
	scope    string
	now      func() time.Time
}

type Option func(*BorrowRequestService)

// WithConflictScope selects which existing requests block a new one; see
// configs.ConflictScopeActive and configs.ConflictScopeAll.
func WithConflictScope(scope string) Option {
	return func(s *BorrowRequestService) { s.scope = scope }
}

func WithClock(now func() time.Time) Option {
	return func(s *BorrowRequestService) { s.now = now }
}

func NewBorrowRequestService(ledger Ledger, opts ...Option) *BorrowRequestService {
	s := &BorrowRequestService{
		ledger:   ledger,
		validate: helper.NewValidator(),
		scope:    configs.ConflictScopeActive,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// blockingStatuses returns the statuses of other requests that conflict
// with a submission or an approval. Nil means every status.
func (s *BorrowRequestService) blockingStatuses(approving bool) []string {
	if s.scope == configs.ConflictScopeAll {
		return nil
	}
	if approving {
		return []string{model.StatusApproved}
	}
	return []string{model.StatusPending, model.StatusApproved}
}

// SubmitRequest records a pending request for [start_date, end_date] when
// no blocking request of the same book overlaps it.
func (s *BorrowRequestService) SubmitRequest(ctx context.Context, caller helperAuth.Identity, req dto.SubmitBorrowRequest) (*model.BorrowRequestModel, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.ValidationError(err)
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	userID := caller.UserID
	if req.UserID != nil {
		userID = *req.UserID
	}
	if !caller.CanActFor(userID) {
		return nil, customerrors.Forbidden(constants.RoleErrorOwner("submit borrow requests for other users"))
	}

	var created *model.BorrowRequestModel
	err = s.ledger.WithBookLock(ctx, req.BookID, func(tx repository.Tx) error {
		ok, err := tx.UserExists(userID)
		if err != nil {
			return err
		}
		if !ok {
			return customerrors.NotFound("user not found")
		}

		overlaps, err := tx.FindOverlapping(model.OverlapQuery{
			BookID:   req.BookID,
			Start:    start,
			End:      end,
			Statuses: s.blockingStatuses(false),
		})
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			return customerrors.ErrConflict
		}

		br := &model.BorrowRequestModel{
			BorrowRequestUserID:    userID,
			BorrowRequestBookID:    req.BookID,
			BorrowRequestStartDate: datatypes.Date(start),
			BorrowRequestEndDate:   datatypes.Date(end),
			BorrowRequestStatus:    model.StatusPending,
		}
		if err := tx.Create(br); err != nil {
			return err
		}
		if err := tx.AppendEvent(&model.BorrowRequestEventModel{
			BorrowRequestEventRequestID:   br.BorrowRequestID,
			BorrowRequestEventType:        model.EventSubmitted,
			BorrowRequestEventToStatus:    model.StatusPending,
			BorrowRequestEventActorUserID: caller.UserID,
		}, map[string]any{
			"user_id":    userID,
			"book_id":    req.BookID,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
		}); err != nil {
			return err
		}
		created = br
		return nil
	})
	if err != nil {
		if errors.Is(err, customerrors.ErrConflict) {
			log.Printf("[BORROW][SUBMIT] conflict book_id=%d %s..%s", req.BookID, req.StartDate, req.EndDate)
		}
		return nil, err
	}

	log.Printf("[BORROW][SUBMIT] id=%d user_id=%d book_id=%d %s..%s",
		created.BorrowRequestID, userID, req.BookID, req.StartDate, req.EndDate)
	return created, nil
}

// DecideRequest moves a pending request to approved or denied. Approval
// fails with a conflict, leaving the request pending, when it would overlap
// a blocking request of the same book.
func (s *BorrowRequestService) DecideRequest(ctx context.Context, caller helperAuth.Identity, requestID uint, req dto.DecideBorrowRequest) (*model.BorrowRequestModel, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, helper.ValidationError(err)
	}
	if !caller.IsAdmin() {
		return nil, customerrors.Forbidden(constants.RoleErrorAdmin("decide borrow requests"))
	}

	current, err := s.ledger.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var decided *model.BorrowRequestModel
	err = s.ledger.WithBookLock(ctx, current.BorrowRequestBookID, func(tx repository.Tx) error {
		br, err := tx.LockRequest(requestID)
		if err != nil {
			return err
		}
		if br.BorrowRequestStatus != model.StatusPending {
			return customerrors.Conflict("borrow request already decided")
		}

		if req.Status == model.StatusApproved {
			overlaps, err := tx.FindOverlapping(model.OverlapQuery{
				BookID:    br.BorrowRequestBookID,
				Start:     br.Start(),
				End:       br.End(),
				Statuses:  s.blockingStatuses(true),
				ExcludeID: br.BorrowRequestID,
			})
			if err != nil {
				return err
			}
			if len(overlaps) > 0 {
				return customerrors.ErrConflict
			}
		}

		from := br.BorrowRequestStatus
		now := s.now().UTC()
		decidedBy := caller.UserID
		br.BorrowRequestStatus = req.Status
		br.BorrowRequestDecidedAt = &now
		br.BorrowRequestDecidedBy = &decidedBy
		if err := tx.SaveDecision(br); err != nil {
			return err
		}
		if err := tx.AppendEvent(&model.BorrowRequestEventModel{
			BorrowRequestEventRequestID:   br.BorrowRequestID,
			BorrowRequestEventType:        req.Status,
			BorrowRequestEventFromStatus:  &from,
			BorrowRequestEventToStatus:    req.Status,
			BorrowRequestEventActorUserID: caller.UserID,
		}, map[string]any{
			"decided_at": now.Format(time.RFC3339),
		}); err != nil {
			return err
		}
		decided = br
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BORROW][DECIDE] id=%d status=%s by=%d", decided.BorrowRequestID, decided.BorrowRequestStatus, caller.UserID)
	return decided, nil
}

// ListRequests lists requests ordered by id. Non-admin callers only ever
// see their own requests; an empty UserID defaults to the caller.
func (s *BorrowRequestService) ListRequests(ctx context.Context, caller helperAuth.Identity, filter model.ListFilter) ([]model.BorrowRequestModel, error) {
	if !caller.IsAdmin() {
		if filter.UserID == nil {
			id := caller.UserID
			filter.UserID = &id
		} else if !caller.CanActFor(*filter.UserID) {
			return nil, customerrors.Forbidden(constants.RoleErrorOwner("view borrow history of other users"))
		}
	}
	for _, st := range filter.Statuses {
		if !model.IsStatus(st) {
			return nil, customerrors.ValidationFields("Missing or invalid fields", map[string]string{
				"status": "status must be one of: pending, approved, denied",
			})
		}
	}
	return s.ledger.List(ctx, filter)
}

// BorrowHistory lists the requests of one user. An empty userID means the
// caller, whatever their role; only admins may name another user.
func (s *BorrowRequestService) BorrowHistory(ctx context.Context, caller helperAuth.Identity, userID *uint) ([]model.BorrowRequestModel, error) {
	if userID == nil {
		id := caller.UserID
		userID = &id
	}
	return s.ListRequests(ctx, caller, model.ListFilter{UserID: userID})
}

// History returns the audit trail of one request, oldest first.
func (s *BorrowRequestService) History(ctx context.Context, requestID uint) ([]model.BorrowRequestEventModel, error) {
	if _, err := s.ledger.FindByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.ledger.ListEvents(ctx, requestID)
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := dto.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, customerrors.ValidationFields("Missing or invalid fields", map[string]string{
			"start_date": "start_date must be a date formatted as 2006-01-02",
		})
	}
	end, err := dto.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, customerrors.ValidationFields("Missing or invalid fields", map[string]string{
			"end_date": "end_date must be a date formatted as 2006-01-02",
		})
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, customerrors.ValidationFields("Missing or invalid fields", map[string]string{
			"end_date": "end_date must not be before start_date",
		})
	}
	return start, end, nil
}
