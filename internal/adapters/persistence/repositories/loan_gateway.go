package repositories

import (
	"context"
	"errors"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanGateway implements LoanGateway on top of GORM
type loanGateway struct {
	db *gorm.DB
}

// NewLoanGateway creates a new loan gateway
func NewLoanGateway(db *gorm.DB) LoanGateway {
	return &loanGateway{db: db}
}

// Atomically runs fn inside a database transaction, handing it a gateway
// bound to that transaction so eligibility reads and grouped writes share
// one isolation scope.
func (g *loanGateway) Atomically(ctx context.Context, fn func(LoanGateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&loanGateway{db: tx})
	})
}

// FindMemberByID gets a member, optionally with its penalty record
func (g *loanGateway) FindMemberByID(ctx context.Context, id string, includePenalty bool) (*models.Member, error) {
	q := g.db.WithContext(ctx)
	if includePenalty {
		q = q.Preload("Penalty")
	}

	var member models.Member
	err := q.First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindBookByID gets a book by ID
func (g *loanGateway) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	err := g.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindActiveLoan gets the unique Active loan for a (member, book) pair
func (g *loanGateway) FindActiveLoan(ctx context.Context, memberID, bookID string) (*models.Loan, error) {
	var loan models.Loan
	err := g.db.WithContext(ctx).
		Where("member_id = ? AND book_id = ? AND status = ?", memberID, bookID, models.LoanStatusActive).
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// CreateLoan creates a new loan record
func (g *loanGateway) CreateLoan(ctx context.Context, loan *models.Loan) error {
	return g.db.WithContext(ctx).Create(loan).Error
}

// CreatePenalty creates a new penalty record
func (g *loanGateway) CreatePenalty(ctx context.Context, penalty *models.Penalty) error {
	return g.db.WithContext(ctx).Create(penalty).Error
}

// AttachPenalty points a member at a penalty record (last write wins)
func (g *loanGateway) AttachPenalty(ctx context.Context, memberID, penaltyID string) error {
	return g.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		Update("penalty_id", penaltyID).Error
}

// DecrementBookStock takes a unit of stock while any remains
func (g *loanGateway) DecrementBookStock(ctx context.Context, bookID string) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND available_stocks > 0", bookID).
		Updates(map[string]interface{}{
			"available_stocks":        gorm.Expr("available_stocks - 1"),
			"history_borrowed_counts": gorm.Expr("history_borrowed_counts + 1"),
		})
	return res.RowsAffected > 0, res.Error
}

// RestockBook returns a unit of stock while below capacity
func (g *loanGateway) RestockBook(ctx context.Context, bookID string) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND available_stocks < total_stocks", bookID).
		Update("available_stocks", gorm.Expr("available_stocks + 1"))
	return res.RowsAffected > 0, res.Error
}

// IncrementMemberBorrows bumps the active-loan counter while below limit
func (g *loanGateway) IncrementMemberBorrows(ctx context.Context, memberID string, limit int) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ? AND current_borrowed_books < ?", memberID, limit).
		Update("current_borrowed_books", gorm.Expr("current_borrowed_books + 1"))
	return res.RowsAffected > 0, res.Error
}

// DecrementMemberBorrows drops the active-loan counter while positive
func (g *loanGateway) DecrementMemberBorrows(ctx context.Context, memberID string) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ? AND current_borrowed_books > 0", memberID).
		Update("current_borrowed_books", gorm.Expr("current_borrowed_books - 1"))
	return res.RowsAffected > 0, res.Error
}

// MarkLoanReturned closes an Active loan
func (g *loanGateway) MarkLoanReturned(ctx context.Context, loanID string, returnedAt time.Time) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ?", loanID, models.LoanStatusActive).
		Updates(map[string]interface{}{
			"status":      models.LoanStatusReturned,
			"return_date": returnedAt,
		})
	return res.RowsAffected > 0, res.Error
}
