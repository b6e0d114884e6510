package repositories

import (
	"context"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"
)

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetByCode(ctx context.Context, code string) (*models.Book, error)
	List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id string) error
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByCode(ctx context.Context, code string) (*models.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id string) error
}

// LoanGateway is the persistence surface consumed by the loan engine.
//
// Find methods return (nil, nil) when the record is absent; a non-nil error
// always means a storage failure, never a business condition. Counter
// mutations are conditional updates: the bool result reports whether a row
// matched, so callers can treat "no row" as the business failure without a
// separate read (decrement-if-positive style).
type LoanGateway interface {
	FindMemberByID(ctx context.Context, id string, includePenalty bool) (*models.Member, error)
	FindBookByID(ctx context.Context, id string) (*models.Book, error)
	FindActiveLoan(ctx context.Context, memberID, bookID string) (*models.Loan, error)

	CreateLoan(ctx context.Context, loan *models.Loan) error
	CreatePenalty(ctx context.Context, penalty *models.Penalty) error
	AttachPenalty(ctx context.Context, memberID, penaltyID string) error

	// DecrementBookStock takes one unit of stock and bumps the history
	// counter, only while stock remains.
	DecrementBookStock(ctx context.Context, bookID string) (bool, error)
	// RestockBook gives one unit back, only while below total capacity.
	RestockBook(ctx context.Context, bookID string) (bool, error)
	// IncrementMemberBorrows bumps the active-loan counter, only while
	// below limit.
	IncrementMemberBorrows(ctx context.Context, memberID string, limit int) (bool, error)
	DecrementMemberBorrows(ctx context.Context, memberID string) (bool, error)
	// MarkLoanReturned flips an Active loan to Returned; a loan that is no
	// longer Active matches no row.
	MarkLoanReturned(ctx context.Context, loanID string, returnedAt time.Time) (bool, error)

	// Atomically runs fn against a transaction-scoped gateway. All writes
	// issued through that gateway apply together or not at all; any error
	// from fn rolls the transaction back and is returned as-is.
	Atomically(ctx context.Context, fn func(LoanGateway) error) error
}
