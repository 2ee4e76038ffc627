package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"librarian_backend/internals/configs"
	customerrors "librarian_backend/internals/customErrors"
	"librarian_backend/internals/features/library/borrow_requests/dto"
	"librarian_backend/internals/features/library/borrow_requests/model"
	"librarian_backend/internals/features/library/borrow_requests/service"
	helperAuth "librarian_backend/internals/helpers/auth"
)

const (
	dune  uint = 1
	emma  uint = 2
	admin uint = 1
	alice uint = 2
	bob   uint = 3
)

var (
	librarian = helperAuth.Identity{UserID: admin, Email: "admin@library.local", Role: "admin"}
	aliceID   = helperAuth.Identity{UserID: alice, Email: "alice@library.local", Role: "user"}
	bobID     = helperAuth.Identity{UserID: bob, Email: "bob@library.local", Role: "user"}
)

func newTestService(scope string) (*service.BorrowRequestService, *fakeLedger) {
	ledger := newFakeLedger([]uint{dune, emma}, []uint{admin, alice, bob})
	fixed := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc := service.NewBorrowRequestService(ledger,
		service.WithConflictScope(scope),
		service.WithClock(func() time.Time { return fixed }),
	)
	return svc, ledger
}

func submit(book uint, start, end string) dto.SubmitBorrowRequest {
	return dto.SubmitBorrowRequest{BookID: book, StartDate: start, EndDate: end}
}

func decide(status string) dto.DecideBorrowRequest {
	return dto.DecideBorrowRequest{Status: status}
}

func date(s string) datatypes.Date {
	t, _ := time.Parse(model.DateLayout, s)
	return datatypes.Date(t)
}

func TestSubmitThenListByUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	before, err := svc.ListRequests(ctx, aliceID, model.ListFilter{})
	require.NoError(t, err)

	created, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-03-01", "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.BorrowRequestStatus)
	assert.Equal(t, alice, created.BorrowRequestUserID)

	after, err := svc.ListRequests(ctx, aliceID, model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	got := dto.FromModel(&after[len(after)-1])
	assert.Equal(t, "2024-03-01", got.StartDate)
	assert.Equal(t, "2024-03-04", got.EndDate)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestSubmitOverlap(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		book     uint
		start    string
		end      string
		conflict bool
	}{
		{"inside", dune, "2024-01-06", "2024-01-08", true},
		{"same range", dune, "2024-01-05", "2024-01-10", true},
		{"enclosing", dune, "2024-01-01", "2024-01-31", true},
		{"shares start day", dune, "2024-01-01", "2024-01-05", true},
		{"shares end day", dune, "2024-01-10", "2024-01-12", true},
		{"single shared day", dune, "2024-01-10", "2024-01-10", true},
		{"strictly before", dune, "2024-01-01", "2024-01-04", false},
		{"strictly after", dune, "2024-01-11", "2024-01-20", false},
		{"other book", emma, "2024-01-05", "2024-01-10", false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, ledger := newTestService(configs.ConflictScopeActive)
			ctx := context.Background()

			_, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-01-05", "2024-01-10"))
			require.NoError(t, err)

			_, err = svc.SubmitRequest(ctx, bobID, submit(tc.book, tc.start, tc.end))
			if tc.conflict {
				require.ErrorIs(t, err, customerrors.ErrConflict)
				assert.Equal(t, "book already booked for requested dates", customerrors.GetMessage(err))
				assert.Len(t, ledger.snapshot(), 1)
				return
			}
			require.NoError(t, err)
			assert.Len(t, ledger.snapshot(), 2)
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	other := bob
	testCases := []struct {
		name   string
		caller helperAuth.Identity
		req    dto.SubmitBorrowRequest
		target error
	}{
		{"end before start", aliceID, submit(dune, "2024-02-10", "2024-02-01"), customerrors.ErrValidation},
		{"not a date", aliceID, submit(dune, "2024-13-01", "2024-02-01"), customerrors.ErrValidation},
		{"not fixed width", aliceID, submit(dune, "2024-2-1", "2024-02-03"), customerrors.ErrValidation},
		{"missing book", aliceID, dto.SubmitBorrowRequest{StartDate: "2024-02-01", EndDate: "2024-02-02"}, customerrors.ErrValidation},
		{"unknown book", aliceID, submit(99, "2024-02-01", "2024-02-02"), customerrors.ErrNotFound},
		{"for another user", aliceID, dto.SubmitBorrowRequest{UserID: &other, BookID: dune, StartDate: "2024-02-01", EndDate: "2024-02-02"}, customerrors.ErrForbidden},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, ledger := newTestService(configs.ConflictScopeActive)

			_, err := svc.SubmitRequest(context.Background(), tc.caller, tc.req)

			assert.ErrorIs(t, err, tc.target)
			assert.Empty(t, ledger.snapshot())
		})
	}
}

func TestAdminSubmitsOnBehalfOfUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	target := bob
	created, err := svc.SubmitRequest(ctx, librarian, dto.SubmitBorrowRequest{
		UserID: &target, BookID: dune, StartDate: "2024-02-01", EndDate: "2024-02-02",
	})
	require.NoError(t, err)
	assert.Equal(t, bob, created.BorrowRequestUserID)

	ghost := uint(404)
	_, err = svc.SubmitRequest(ctx, librarian, dto.SubmitBorrowRequest{
		UserID: &ghost, BookID: dune, StartDate: "2024-03-01", EndDate: "2024-03-02",
	})
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestApproveConflictLeavesRequestPending(t *testing.T) {
	t.Parallel()

	svc, ledger := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	// Overlapping pending requests can predate the current submission rule.
	first := ledger.seed(model.BorrowRequestModel{
		BorrowRequestUserID: alice, BorrowRequestBookID: dune,
		BorrowRequestStartDate: date("2024-01-01"), BorrowRequestEndDate: date("2024-01-10"),
		BorrowRequestStatus: model.StatusPending,
	})
	second := ledger.seed(model.BorrowRequestModel{
		BorrowRequestUserID: bob, BorrowRequestBookID: dune,
		BorrowRequestStartDate: date("2024-01-10"), BorrowRequestEndDate: date("2024-01-12"),
		BorrowRequestStatus: model.StatusPending,
	})

	approved, err := svc.DecideRequest(ctx, librarian, first, decide(model.StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.BorrowRequestStatus)
	require.NotNil(t, approved.BorrowRequestDecidedBy)
	assert.Equal(t, admin, *approved.BorrowRequestDecidedBy)

	_, err = svc.DecideRequest(ctx, librarian, second, decide(model.StatusApproved))
	require.ErrorIs(t, err, customerrors.ErrConflict)

	still, err := ledger.FindByID(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, still.BorrowRequestStatus)
	assert.Nil(t, still.BorrowRequestDecidedAt)
	assert.Empty(t, ledger.eventsFor(second))

	denied, err := svc.DecideRequest(ctx, librarian, second, decide("DENIED"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusDenied, denied.BorrowRequestStatus)
}

func TestDecidedRequestsAreTerminal(t *testing.T) {
	t.Parallel()

	for _, first := range []string{model.StatusApproved, model.StatusDenied} {
		first := first
		t.Run(first, func(t *testing.T) {
			t.Parallel()

			svc, _ := newTestService(configs.ConflictScopeActive)
			ctx := context.Background()

			br, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-02-01", "2024-02-03"))
			require.NoError(t, err)
			_, err = svc.DecideRequest(ctx, librarian, br.BorrowRequestID, decide(first))
			require.NoError(t, err)

			for _, next := range []string{model.StatusApproved, model.StatusDenied} {
				_, err = svc.DecideRequest(ctx, librarian, br.BorrowRequestID, decide(next))
				require.ErrorIs(t, err, customerrors.ErrConflict)
				assert.Equal(t, "borrow request already decided", customerrors.GetMessage(err))
			}
		})
	}
}

func TestDecideRequestErrors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	br, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)

	_, err = svc.DecideRequest(ctx, librarian, br.BorrowRequestID, decide("maybe"))
	assert.ErrorIs(t, err, customerrors.ErrValidation)

	_, err = svc.DecideRequest(ctx, librarian, br.BorrowRequestID, decide(model.StatusPending))
	assert.ErrorIs(t, err, customerrors.ErrValidation)

	_, err = svc.DecideRequest(ctx, librarian, 999, decide(model.StatusApproved))
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	_, err = svc.DecideRequest(ctx, aliceID, br.BorrowRequestID, decide(model.StatusApproved))
	assert.ErrorIs(t, err, customerrors.ErrForbidden)
}

func TestDuneScenario(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scope          string
		resubmitErrIs  error
		resubmitStatus string
	}{
		{configs.ConflictScopeActive, nil, model.StatusPending},
		{configs.ConflictScopeAll, customerrors.ErrConflict, ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scope, func(t *testing.T) {
			t.Parallel()

			svc, _ := newTestService(tc.scope)
			ctx := context.Background()

			first, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-01-01", "2024-01-10"))
			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, first.BorrowRequestStatus)

			_, err = svc.SubmitRequest(ctx, bobID, submit(dune, "2024-01-05", "2024-01-06"))
			require.ErrorIs(t, err, customerrors.ErrConflict)

			_, err = svc.DecideRequest(ctx, librarian, first.BorrowRequestID, decide(model.StatusDenied))
			require.NoError(t, err)

			again, err := svc.SubmitRequest(ctx, bobID, submit(dune, "2024-01-05", "2024-01-06"))
			if tc.resubmitErrIs != nil {
				assert.ErrorIs(t, err, tc.resubmitErrIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.resubmitStatus, again.BorrowRequestStatus)
		})
	}
}

func TestConcurrentSubmissionsAdmitOne(t *testing.T) {
	t.Parallel()

	svc, ledger := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := aliceID
			if i%2 == 1 {
				caller = bobID
			}
			_, err := svc.SubmitRequest(ctx, caller, submit(dune, "2024-05-01", "2024-05-07"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, customerrors.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.Len(t, ledger.snapshot(), 1)
}

func TestConcurrentApprovalsNeverOverlap(t *testing.T) {
	t.Parallel()

	svc, ledger := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	starts := []string{"2024-06-01", "2024-06-03", "2024-06-05", "2024-06-09", "2024-06-10", "2024-06-20"}
	ends := []string{"2024-06-04", "2024-06-06", "2024-06-09", "2024-06-10", "2024-06-15", "2024-06-21"}
	ids := make([]uint, 0, len(starts))
	for i := range starts {
		ids = append(ids, ledger.seed(model.BorrowRequestModel{
			BorrowRequestUserID: alice, BorrowRequestBookID: dune,
			BorrowRequestStartDate: date(starts[i]), BorrowRequestEndDate: date(ends[i]),
			BorrowRequestStatus: model.StatusPending,
		}))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := svc.DecideRequest(ctx, librarian, id, decide(model.StatusApproved))
			if err != nil && !errors.Is(err, customerrors.ErrConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	var approved []model.BorrowRequestModel
	for _, r := range ledger.snapshot() {
		if r.BorrowRequestStatus == model.StatusApproved {
			approved = append(approved, r)
		}
	}
	require.NotEmpty(t, approved)
	for i := range approved {
		for j := i + 1; j < len(approved); j++ {
			assert.False(t, approved[i].Overlaps(approved[j].Start(), approved[j].End()),
				"approved %d and %d overlap", approved[i].BorrowRequestID, approved[j].BorrowRequestID)
		}
	}
}

func TestListRequests(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	a, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)
	_, err = svc.SubmitRequest(ctx, bobID, submit(emma, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)
	_, err = svc.DecideRequest(ctx, librarian, a.BorrowRequestID, decide(model.StatusApproved))
	require.NoError(t, err)

	all, err := svc.ListRequests(ctx, librarian, model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].BorrowRequestID, all[1].BorrowRequestID)

	own, err := svc.ListRequests(ctx, bobID, model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bob, own[0].BorrowRequestUserID)

	target := alice
	_, err = svc.ListRequests(ctx, bobID, model.ListFilter{UserID: &target})
	assert.ErrorIs(t, err, customerrors.ErrForbidden)

	approved, err := svc.ListRequests(ctx, librarian, model.ListFilter{Statuses: []string{model.StatusApproved}})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, a.BorrowRequestID, approved[0].BorrowRequestID)

	_, err = svc.ListRequests(ctx, librarian, model.ListFilter{Statuses: []string{"lost"}})
	assert.ErrorIs(t, err, customerrors.ErrValidation)
}

func TestBorrowHistoryDefaultsToCaller(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	a, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)
	_, err = svc.SubmitRequest(ctx, bobID, submit(emma, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)

	mine, err := svc.BorrowHistory(ctx, librarian, nil)
	require.NoError(t, err)
	assert.Empty(t, mine, "admin owns no requests")

	target := alice
	theirs, err := svc.BorrowHistory(ctx, librarian, &target)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, a.BorrowRequestID, theirs[0].BorrowRequestID)

	own, err := svc.BorrowHistory(ctx, bobID, nil)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bob, own[0].BorrowRequestUserID)

	_, err = svc.BorrowHistory(ctx, bobID, &target)
	assert.ErrorIs(t, err, customerrors.ErrForbidden)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(configs.ConflictScopeActive)
	ctx := context.Background()

	br, err := svc.SubmitRequest(ctx, aliceID, submit(dune, "2024-02-01", "2024-02-03"))
	require.NoError(t, err)
	_, err = svc.DecideRequest(ctx, librarian, br.BorrowRequestID, decide(model.StatusApproved))
	require.NoError(t, err)

	events, err := svc.History(ctx, br.BorrowRequestID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, model.EventSubmitted, events[0].BorrowRequestEventType)
	assert.Equal(t, alice, events[0].BorrowRequestEventActorUserID)
	assert.Nil(t, events[0].BorrowRequestEventFromStatus)

	assert.Equal(t, model.EventApproved, events[1].BorrowRequestEventType)
	require.NotNil(t, events[1].BorrowRequestEventFromStatus)
	assert.Equal(t, model.StatusPending, *events[1].BorrowRequestEventFromStatus)
	assert.Equal(t, admin, events[1].BorrowRequestEventActorUserID)

	_, err = svc.History(ctx, 999)
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}
