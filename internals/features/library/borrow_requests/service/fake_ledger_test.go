package service_test

import (
	"context"
	"sync"

	customerrors "librarian_backend/internals/customErrors"
	"librarian_backend/internals/features/library/borrow_requests/model"
	"librarian_backend/internals/features/library/borrow_requests/repository"
)

// fakeLedger keeps the ledger in memory. A mutex per book plays the part of
// the book row lock, and writes staged by a transaction are applied only
// when its callback succeeds.
type fakeLedger struct {
	mu       sync.Mutex
	books    map[uint]*sync.Mutex
	users    map[uint]bool
	requests []model.BorrowRequestModel
	events   []model.BorrowRequestEventModel
	nextID   uint
}

func newFakeLedger(bookIDs []uint, userIDs []uint) *fakeLedger {
	l := &fakeLedger{books: map[uint]*sync.Mutex{}, users: map[uint]bool{}}
	for _, id := range bookIDs {
		l.books[id] = &sync.Mutex{}
	}
	for _, id := range userIDs {
		l.users[id] = true
	}
	return l
}

// seed inserts a request directly, bypassing the service checks.
func (l *fakeLedger) seed(m model.BorrowRequestModel) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	m.BorrowRequestID = l.nextID
	l.requests = append(l.requests, m)
	return m.BorrowRequestID
}

func (l *fakeLedger) snapshot() []model.BorrowRequestModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.BorrowRequestModel(nil), l.requests...)
}

func (l *fakeLedger) eventsFor(id uint) []model.BorrowRequestEventModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.BorrowRequestEventModel
	for _, e := range l.events {
		if e.BorrowRequestEventRequestID == id {
			out = append(out, e)
		}
	}
	return out
}

func (l *fakeLedger) WithBookLock(_ context.Context, bookID uint, fn func(repository.Tx) error) error {
	l.mu.Lock()
	lock, ok := l.books[bookID]
	l.mu.Unlock()
	if !ok {
		return customerrors.NotFound("book not found")
	}

	lock.Lock()
	defer lock.Unlock()

	tx := &fakeTx{l: l}
	if err := fn(tx); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, tx.created...)
	for _, u := range tx.updated {
		for i := range l.requests {
			if l.requests[i].BorrowRequestID == u.BorrowRequestID {
				l.requests[i] = u
			}
		}
	}
	l.events = append(l.events, tx.events...)
	return nil
}

func (l *fakeLedger) FindByID(_ context.Context, id uint) (*model.BorrowRequestModel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.requests {
		if r.BorrowRequestID == id {
			return &r, nil
		}
	}
	return nil, customerrors.NotFound("borrow request not found")
}

func (l *fakeLedger) List(_ context.Context, f model.ListFilter) ([]model.BorrowRequestModel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.BorrowRequestModel
	for _, r := range l.requests {
		if f.UserID != nil && r.BorrowRequestUserID != *f.UserID {
			continue
		}
		if f.BookID != nil && r.BorrowRequestBookID != *f.BookID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.BorrowRequestStatus) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (l *fakeLedger) ListEvents(ctx context.Context, requestID uint) ([]model.BorrowRequestEventModel, error) {
	return l.eventsFor(requestID), nil
}

type fakeTx struct {
	l       *fakeLedger
	created []model.BorrowRequestModel
	updated []model.BorrowRequestModel
	events  []model.BorrowRequestEventModel
}

func (t *fakeTx) UserExists(userID uint) (bool, error) {
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	return t.l.users[userID], nil
}

func (t *fakeTx) LockRequest(id uint) (*model.BorrowRequestModel, error) {
	return t.l.FindByID(context.Background(), id)
}

func (t *fakeTx) FindOverlapping(q model.OverlapQuery) ([]model.BorrowRequestModel, error) {
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	var out []model.BorrowRequestModel
	for _, r := range t.l.requests {
		if r.BorrowRequestBookID != q.BookID || r.BorrowRequestID == q.ExcludeID {
			continue
		}
		if q.Statuses != nil && !contains(q.Statuses, r.BorrowRequestStatus) {
			continue
		}
		if r.Overlaps(q.Start, q.End) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *fakeTx) Create(req *model.BorrowRequestModel) error {
	t.l.mu.Lock()
	t.l.nextID++
	req.BorrowRequestID = t.l.nextID
	t.l.mu.Unlock()
	t.created = append(t.created, *req)
	return nil
}

func (t *fakeTx) SaveDecision(req *model.BorrowRequestModel) error {
	t.updated = append(t.updated, *req)
	return nil
}

func (t *fakeTx) AppendEvent(ev *model.BorrowRequestEventModel, _ any) error {
	t.events = append(t.events, *ev)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
