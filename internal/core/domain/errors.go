package domain

import "errors"

// Common domain errors, grouped by the transport status they map to.
// Every business failure in the loan engine resolves to exactly one of
// these so handlers never have to re-derive the reason.

// NotFound
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrBookNotFound     = errors.New("book not found")
	ErrBookNotAvailable = errors.New("book is not available for borrowing")
	ErrNoActiveLoan     = errors.New("no active loan found for this book")
	ErrPenaltyNotFound  = errors.New("penalty not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Forbidden
var (
	ErrMemberPenalized    = errors.New("member is currently penalized")
	ErrBorrowLimitReached = errors.New("member has already borrowed the maximum books")
)

// Conflict
var (
	ErrCodeConflict = errors.New("could not generate a unique code")
)

// Invalid input
var (
	ErrEmailTaken = errors.New("email is already registered")
)

// Internal
var (
	ErrStockInconsistent = errors.New("stock counters are inconsistent")
)
