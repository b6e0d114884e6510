package services

import (
	"context"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/core/domain"

	"github.com/google/uuid"
)

const (
	// MaxConcurrentLoans is the maximum number of active loans per member
	MaxConcurrentLoans = 2
	// LoanPeriodDays is the number of days until a loan falls due
	LoanPeriodDays = 7
	// PenaltyPeriodDays is the number of days an overdue-return penalty stays active
	PenaltyPeriodDays = 3
)

// PenaltyReasonOverdue is the reason recorded on penalties created by the engine
const PenaltyReasonOverdue = "Overdue book return"

// LoanService orchestrates borrow and return transitions. It holds no state
// between invocations; every check-then-act sequence runs inside a single
// gateway transaction, and counter mutations are conditional updates, so
// concurrent borrowers cannot drive stock negative or push a member past
// the borrow limit.
type LoanService struct {
	gateway repositories.LoanGateway
	now     func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(gateway repositories.LoanGateway) *LoanService {
	return &LoanService{
		gateway: gateway,
		now:     time.Now,
	}
}

// Borrow lends a book to a member.
//
// Eligibility checks run in order, each with a distinct failure: member
// missing, member penalized, member at the borrow limit, book missing or out
// of stock (the last two collapse to the same not-found outcome). The loan
// row and both counter updates apply atomically or not at all.
func (s *LoanService) Borrow(ctx context.Context, memberID, bookID string) (string, error) {
	err := s.gateway.Atomically(ctx, func(tx repositories.LoanGateway) error {
		member, err := tx.FindMemberByID(ctx, memberID, true)
		if err != nil {
			return err
		}
		if member == nil {
			return domain.ErrMemberNotFound
		}

		if member.Penalty != nil && member.Penalty.Status {
			return domain.ErrMemberPenalized
		}

		if member.CurrentBorrowedBooks >= MaxConcurrentLoans {
			return domain.ErrBorrowLimitReached
		}

		book, err := tx.FindBookByID(ctx, bookID)
		if err != nil {
			return err
		}
		if book == nil || book.AvailableStocks <= 0 {
			return domain.ErrBookNotAvailable
		}

		now := s.now()
		loan := &models.Loan{
			ID:         uuid.NewString(),
			MemberID:   memberID,
			BookID:     book.ID,
			Status:     models.LoanStatusActive,
			BorrowDate: now,
			DueDate:    dueDate(now),
		}
		if err := tx.CreateLoan(ctx, loan); err != nil {
			return err
		}

		// Re-validated at write time: zero rows affected means another
		// borrower got there first.
		ok, err := tx.DecrementBookStock(ctx, book.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrBookNotAvailable
		}

		ok, err = tx.IncrementMemberBorrows(ctx, memberID, MaxConcurrentLoans)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrBorrowLimitReached
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return "Book borrowed successfully", nil
}

// Return takes a borrowed book back.
//
// Locates the unique Active loan for the pair, creates and attaches a
// penalty when the return is overdue (last write wins on the member's
// penalty reference), then closes the loan and restores both counters. The
// whole transition, penalty included, applies in one transaction.
func (s *LoanService) Return(ctx context.Context, memberID, bookID string) (string, error) {
	err := s.gateway.Atomically(ctx, func(tx repositories.LoanGateway) error {
		loan, err := tx.FindActiveLoan(ctx, memberID, bookID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNoActiveLoan
		}

		now := s.now()

		if isOverdue(loan.BorrowDate, now) {
			penalty := &models.Penalty{
				ID:        uuid.NewString(),
				MemberID:  memberID,
				StartDate: now,
				EndDate:   penaltyEndDate(now),
				Status:    true,
				Reason:    PenaltyReasonOverdue,
			}
			if err := tx.CreatePenalty(ctx, penalty); err != nil {
				return err
			}
			if err := tx.AttachPenalty(ctx, memberID, penalty.ID); err != nil {
				return err
			}
		}

		ok, err := tx.MarkLoanReturned(ctx, loan.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			// The loan was closed between the read and the write.
			return domain.ErrNoActiveLoan
		}

		ok, err = tx.RestockBook(ctx, loan.BookID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrStockInconsistent
		}

		ok, err = tx.DecrementMemberBorrows(ctx, memberID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrStockInconsistent
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return "Book returned successfully", nil
}

// dueDate computes when a loan borrowed at now falls due
func dueDate(now time.Time) time.Time {
	return now.AddDate(0, 0, LoanPeriodDays)
}

// penaltyEndDate computes when a penalty issued at now stops blocking borrows
func penaltyEndDate(now time.Time) time.Time {
	return now.AddDate(0, 0, PenaltyPeriodDays)
}

// isOverdue reports whether more than the loan period has elapsed since
// borrowDate. Wall-clock elapsed time, not business days.
func isOverdue(borrowDate, now time.Time) bool {
	return now.Sub(borrowDate) > LoanPeriodDays*24*time.Hour
}
