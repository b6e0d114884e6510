package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is an in-memory LoanGateway with the same conditional-update
// semantics as the GORM implementation, plus snapshot/rollback so Atomically
// behaves like a real transaction.
type fakeGateway struct {
	members   map[string]*models.Member
	books     map[string]*models.Book
	loans     map[string]*models.Loan
	penalties map[string]*models.Penalty

	createLoanErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		members:   map[string]*models.Member{},
		books:     map[string]*models.Book{},
		loans:     map[string]*models.Loan{},
		penalties: map[string]*models.Penalty{},
	}
}

func (g *fakeGateway) FindMemberByID(_ context.Context, id string, includePenalty bool) (*models.Member, error) {
	m, ok := g.members[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	if includePenalty && m.PenaltyID != nil {
		if p, ok := g.penalties[*m.PenaltyID]; ok {
			pcp := *p
			cp.Penalty = &pcp
		}
	}
	return &cp, nil
}

func (g *fakeGateway) FindBookByID(_ context.Context, id string) (*models.Book, error) {
	b, ok := g.books[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (g *fakeGateway) FindActiveLoan(_ context.Context, memberID, bookID string) (*models.Loan, error) {
	for _, l := range g.loans {
		if l.MemberID == memberID && l.BookID == bookID && l.IsActive() {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) CreateLoan(_ context.Context, loan *models.Loan) error {
	if g.createLoanErr != nil {
		return g.createLoanErr
	}
	cp := *loan
	g.loans[loan.ID] = &cp
	return nil
}

func (g *fakeGateway) CreatePenalty(_ context.Context, penalty *models.Penalty) error {
	cp := *penalty
	g.penalties[penalty.ID] = &cp
	return nil
}

func (g *fakeGateway) AttachPenalty(_ context.Context, memberID, penaltyID string) error {
	if m, ok := g.members[memberID]; ok {
		id := penaltyID
		m.PenaltyID = &id
	}
	return nil
}

func (g *fakeGateway) DecrementBookStock(_ context.Context, bookID string) (bool, error) {
	b, ok := g.books[bookID]
	if !ok || b.AvailableStocks <= 0 {
		return false, nil
	}
	b.AvailableStocks--
	b.HistoryBorrowedCounts++
	return true, nil
}

func (g *fakeGateway) RestockBook(_ context.Context, bookID string) (bool, error) {
	b, ok := g.books[bookID]
	if !ok || b.AvailableStocks >= b.TotalStocks {
		return false, nil
	}
	b.AvailableStocks++
	return true, nil
}

func (g *fakeGateway) IncrementMemberBorrows(_ context.Context, memberID string, limit int) (bool, error) {
	m, ok := g.members[memberID]
	if !ok || m.CurrentBorrowedBooks >= limit {
		return false, nil
	}
	m.CurrentBorrowedBooks++
	return true, nil
}

func (g *fakeGateway) DecrementMemberBorrows(_ context.Context, memberID string) (bool, error) {
	m, ok := g.members[memberID]
	if !ok || m.CurrentBorrowedBooks <= 0 {
		return false, nil
	}
	m.CurrentBorrowedBooks--
	return true, nil
}

func (g *fakeGateway) MarkLoanReturned(_ context.Context, loanID string, returnedAt time.Time) (bool, error) {
	l, ok := g.loans[loanID]
	if !ok || !l.IsActive() {
		return false, nil
	}
	l.Status = models.LoanStatusReturned
	at := returnedAt
	l.ReturnDate = &at
	return true, nil
}

func (g *fakeGateway) Atomically(_ context.Context, fn func(repositories.LoanGateway) error) error {
	snap := g.snapshot()
	if err := fn(g); err != nil {
		g.members, g.books, g.loans, g.penalties = snap.members, snap.books, snap.loans, snap.penalties
		return err
	}
	return nil
}

func (g *fakeGateway) snapshot() *fakeGateway {
	c := newFakeGateway()
	for id, m := range g.members {
		cp := *m
		c.members[id] = &cp
	}
	for id, b := range g.books {
		cp := *b
		c.books[id] = &cp
	}
	for id, l := range g.loans {
		cp := *l
		c.loans[id] = &cp
	}
	for id, p := range g.penalties {
		cp := *p
		c.penalties[id] = &cp
	}
	return c
}

func (g *fakeGateway) activeLoans() []*models.Loan {
	var active []*models.Loan
	for _, l := range g.loans {
		if l.IsActive() {
			active = append(active, l)
		}
	}
	return active
}

func seedMember(g *fakeGateway, borrowed int) *models.Member {
	m := &models.Member{
		ID:                   uuid.NewString(),
		Code:                 "JOTE-123",
		Name:                 "John Marston",
		Email:                "john@example.com",
		CurrentBorrowedBooks: borrowed,
		IsActive:             true,
	}
	g.members[m.ID] = m
	return m
}

func seedBook(g *fakeGateway, available, total int) *models.Book {
	b := &models.Book{
		ID:              uuid.NewString(),
		Code:            "GBUK-123",
		Title:           "Buku Prasejarah",
		Author:          "Gua",
		TotalStocks:     total,
		AvailableStocks: available,
		IsAvailable:     true,
	}
	g.books[b.ID] = b
	return b
}

func seedActivePenalty(g *fakeGateway, m *models.Member, now time.Time) *models.Penalty {
	p := &models.Penalty{
		ID:        uuid.NewString(),
		MemberID:  m.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, PenaltyPeriodDays),
		Status:    true,
		Reason:    PenaltyReasonOverdue,
	}
	g.penalties[p.ID] = p
	m.PenaltyID = &p.ID
	return p
}

func newTestLoanService(g *fakeGateway, now time.Time) *LoanService {
	svc := NewLoanService(g)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBorrowSuccess(t *testing.T) {
	g := newFakeGateway()
	member := seedMember(g, 0)
	book := seedBook(g, 3, 5)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestLoanService(g, now)

	msg, err := svc.Borrow(context.Background(), member.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book borrowed successfully", msg)

	assert.Equal(t, 2, g.books[book.ID].AvailableStocks)
	assert.Equal(t, 1, g.books[book.ID].HistoryBorrowedCounts)
	assert.Equal(t, 1, g.members[member.ID].CurrentBorrowedBooks)

	active := g.activeLoans()
	require.Len(t, active, 1)
	assert.Equal(t, member.ID, active[0].MemberID)
	assert.Equal(t, book.ID, active[0].BookID)
	assert.Equal(t, now, active[0].BorrowDate)
	assert.Equal(t, now.AddDate(0, 0, 7), active[0].DueDate)
	assert.Nil(t, active[0].ReturnDate)
}

func TestBorrowMemberNotFound(t *testing.T) {
	g := newFakeGateway()
	book := seedBook(g, 3, 5)
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Borrow(context.Background(), "missing", book.ID)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	assert.Equal(t, 3, g.books[book.ID].AvailableStocks)
}

func TestBorrowPenalizedMember(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 0)
	seedActivePenalty(g, member, now)
	book := seedBook(g, 5, 5)
	svc := newTestLoanService(g, now)

	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrMemberPenalized)
	assert.Equal(t, 5, g.books[book.ID].AvailableStocks)
	assert.Empty(t, g.activeLoans())
}

func TestBorrowPenaltyCheckedBeforeStock(t *testing.T) {
	// A penalized member is rejected as Forbidden even when the book is out
	// of stock; the penalty check comes first.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 2)
	seedActivePenalty(g, member, now)
	book := seedBook(g, 0, 5)
	svc := newTestLoanService(g, now)

	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrMemberPenalized)
}

func TestBorrowExpiredPenaltyDoesNotBlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 0)
	penalty := seedActivePenalty(g, member, now)
	penalty.Status = false
	book := seedBook(g, 1, 1)
	svc := newTestLoanService(g, now)

	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	assert.NoError(t, err)
}

func TestBorrowLimitReached(t *testing.T) {
	g := newFakeGateway()
	member := seedMember(g, MaxConcurrentLoans)
	book := seedBook(g, 3, 5)
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrBorrowLimitReached)
	assert.Equal(t, 3, g.books[book.ID].AvailableStocks)
	assert.Equal(t, MaxConcurrentLoans, g.members[member.ID].CurrentBorrowedBooks)
}

func TestBorrowBookNotFound(t *testing.T) {
	g := newFakeGateway()
	member := seedMember(g, 0)
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Borrow(context.Background(), member.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)
}

func TestBorrowOutOfStock(t *testing.T) {
	// Absent book and zero stock collapse to the same not-found outcome.
	g := newFakeGateway()
	member := seedMember(g, 0)
	book := seedBook(g, 0, 5)
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)
	assert.Equal(t, 0, g.members[member.ID].CurrentBorrowedBooks)
	assert.Empty(t, g.activeLoans())
}

func TestBorrowRollsBackOnPersistenceFailure(t *testing.T) {
	g := newFakeGateway()
	member := seedMember(g, 1)
	book := seedBook(g, 2, 5)
	g.createLoanErr = errors.New("insert failed")
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	require.Error(t, err)

	// No partial mutation is visible.
	assert.Equal(t, 2, g.books[book.ID].AvailableStocks)
	assert.Equal(t, 0, g.books[book.ID].HistoryBorrowedCounts)
	assert.Equal(t, 1, g.members[member.ID].CurrentBorrowedBooks)
	assert.Empty(t, g.loans)
}

func TestBorrowLastCopyOnlyOnce(t *testing.T) {
	g := newFakeGateway()
	first := seedMember(g, 0)
	second := seedMember(g, 0)
	book := seedBook(g, 1, 1)
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Borrow(context.Background(), first.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), second.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)

	assert.Equal(t, 0, g.books[book.ID].AvailableStocks)
	require.Len(t, g.activeLoans(), 1)
}

func TestReturnWithinPeriod(t *testing.T) {
	borrowedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 0)
	book := seedBook(g, 3, 5)

	svc := newTestLoanService(g, borrowedAt)
	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	returnedAt := borrowedAt.AddDate(0, 0, 5)
	svc.now = func() time.Time { return returnedAt }

	msg, err := svc.Return(context.Background(), member.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book returned successfully", msg)

	// Counters are back to their pre-borrow values.
	assert.Equal(t, 3, g.books[book.ID].AvailableStocks)
	assert.Equal(t, 0, g.members[member.ID].CurrentBorrowedBooks)

	// Exactly one loan remains, now Returned.
	require.Len(t, g.loans, 1)
	for _, l := range g.loans {
		assert.Equal(t, models.LoanStatusReturned, l.Status)
		require.NotNil(t, l.ReturnDate)
		assert.Equal(t, returnedAt, *l.ReturnDate)
	}

	// No penalty for a timely return.
	assert.Empty(t, g.penalties)
	assert.Nil(t, g.members[member.ID].PenaltyID)
}

func TestReturnOverdueCreatesPenalty(t *testing.T) {
	borrowedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 0)
	book := seedBook(g, 3, 5)

	svc := newTestLoanService(g, borrowedAt)
	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	returnedAt := borrowedAt.AddDate(0, 0, 8)
	svc.now = func() time.Time { return returnedAt }

	_, err = svc.Return(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	require.Len(t, g.penalties, 1)
	require.NotNil(t, g.members[member.ID].PenaltyID)

	penalty := g.penalties[*g.members[member.ID].PenaltyID]
	require.NotNil(t, penalty)
	assert.Equal(t, member.ID, penalty.MemberID)
	assert.True(t, penalty.Status)
	assert.Equal(t, PenaltyReasonOverdue, penalty.Reason)
	assert.Equal(t, returnedAt, penalty.StartDate)
	assert.Equal(t, returnedAt.AddDate(0, 0, 3), penalty.EndDate)
}

func TestReturnOverdueOverwritesPenaltyReference(t *testing.T) {
	// The engine does not check for a prior penalty; the latest one wins.
	borrowedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 0)
	old := seedActivePenalty(g, member, borrowedAt.AddDate(0, 0, -10))
	old.Status = false
	book := seedBook(g, 3, 5)

	svc := newTestLoanService(g, borrowedAt)
	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return borrowedAt.AddDate(0, 0, 9) }
	_, err = svc.Return(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	require.NotNil(t, g.members[member.ID].PenaltyID)
	assert.NotEqual(t, old.ID, *g.members[member.ID].PenaltyID)
	assert.Len(t, g.penalties, 2)
}

func TestReturnNoActiveLoan(t *testing.T) {
	g := newFakeGateway()
	member := seedMember(g, 0)
	book := seedBook(g, 3, 5)
	svc := newTestLoanService(g, time.Now())

	_, err := svc.Return(context.Background(), member.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrNoActiveLoan)

	assert.Empty(t, g.penalties)
	assert.Equal(t, 3, g.books[book.ID].AvailableStocks)
	assert.Equal(t, 0, g.members[member.ID].CurrentBorrowedBooks)
}

func TestReturnTwiceFailsSecondTime(t *testing.T) {
	borrowedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	member := seedMember(g, 0)
	book := seedBook(g, 3, 5)

	svc := newTestLoanService(g, borrowedAt)
	_, err := svc.Borrow(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return borrowedAt.AddDate(0, 0, 2) }
	_, err = svc.Return(context.Background(), member.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), member.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrNoActiveLoan)

	// Stock was restored exactly once.
	assert.Equal(t, 3, g.books[book.ID].AvailableStocks)
	assert.Equal(t, 0, g.members[member.ID].CurrentBorrowedBooks)
}

func TestCountersStayInRangeAcrossSequence(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newFakeGateway()
	first := seedMember(g, 0)
	second := seedMember(g, 0)
	book := seedBook(g, 2, 2)
	svc := newTestLoanService(g, base)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, first.ID, book.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, second.ID, book.ID)
	require.NoError(t, err)

	// Out of stock for anyone else.
	third := seedMember(g, 0)
	_, err = svc.Borrow(ctx, third.ID, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)

	_, err = svc.Return(ctx, first.ID, book.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, second.ID, book.ID)
	require.NoError(t, err)

	book2 := g.books[book.ID]
	assert.Equal(t, book2.TotalStocks, book2.AvailableStocks)
	assert.GreaterOrEqual(t, book2.AvailableStocks, 0)
	assert.Equal(t, 2, book2.HistoryBorrowedCounts)
	for _, m := range g.members {
		assert.GreaterOrEqual(t, m.CurrentBorrowedBooks, 0)
		assert.LessOrEqual(t, m.CurrentBorrowedBooks, MaxConcurrentLoans)
	}
}

func TestIsOverdue(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		elapsed time.Duration
		overdue bool
	}{
		{0, false},
		{24 * time.Hour, false},
		{7 * 24 * time.Hour, false},
		{7*24*time.Hour + time.Minute, true},
		{8 * 24 * time.Hour, true},
	}

	for _, tt := range testCases {
		assert.Equal(t, tt.overdue, isOverdue(base, base.Add(tt.elapsed)), "elapsed %v", tt.elapsed)
	}
}

func TestDueAndPenaltyDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, 7), dueDate(now))
	assert.Equal(t, now.AddDate(0, 0, 3), penaltyEndDate(now))
}
