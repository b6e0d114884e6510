package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Master Tables
// ============================================================

// Category groups books by subject
type Category struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// ============================================================
// Main Tables
// ============================================================

// Book represents books table
// AvailableStocks and HistoryBorrowedCounts are mutated only through the
// loan engine's grouped writes, never by the plain CRUD path.
type Book struct {
	ID                    string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code                  string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Title                 string         `gorm:"size:200;not null" json:"title"`
	Description           string         `gorm:"type:text" json:"description"`
	Author                string         `gorm:"size:100;not null" json:"author"`
	TotalStocks           int            `gorm:"not null;default:0" json:"total_stocks"`
	AvailableStocks       int            `gorm:"not null;default:0" json:"available_stocks"`
	HistoryBorrowedCounts int            `gorm:"not null;default:0" json:"history_borrowed_counts"`
	IsAvailable           bool           `gorm:"default:true" json:"is_available"`
	CategoryID            *string        `gorm:"type:varchar(36);index" json:"category_id"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// Member represents members table
type Member struct {
	ID                   string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code                 string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name                 string         `gorm:"size:100;not null" json:"name"`
	Email                string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password             string         `gorm:"size:255;not null" json:"-"`
	PhoneNumber          string         `gorm:"size:20" json:"phone_number"`
	MembershipDate       time.Time      `gorm:"autoCreateTime" json:"membership_date"`
	CurrentBorrowedBooks int            `gorm:"not null;default:0" json:"current_borrowed_books"`
	PenaltyID            *string        `gorm:"type:varchar(36);index" json:"penalty_id"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Penalty *Penalty `gorm:"foreignKey:PenaltyID" json:"penalty,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse DTO (password never leaves the persistence layer)
type MemberResponse struct {
	ID                   string    `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	PhoneNumber          string    `json:"phone_number"`
	MembershipDate       time.Time `json:"membership_date"`
	CurrentBorrowedBooks int       `json:"current_borrowed_books"`
	PenaltyID            *string   `json:"penalty_id"`
	IsActive             bool      `json:"is_active"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:                   m.ID,
		Code:                 m.Code,
		Name:                 m.Name,
		Email:                m.Email,
		PhoneNumber:          m.PhoneNumber,
		MembershipDate:       m.MembershipDate,
		CurrentBorrowedBooks: m.CurrentBorrowedBooks,
		PenaltyID:            m.PenaltyID,
		IsActive:             m.IsActive,
	}
}

// Loan statuses
const (
	LoanStatusActive   = "Active"
	LoanStatusReturned = "Returned"
)

// Loan represents loans table
// At most one Active loan exists per (member, book) pair; the return path
// relies on this to locate the loan. Loans are never deleted by the engine.
type Loan struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	MemberID   string     `gorm:"type:varchar(36);not null;index:idx_loans_member_book" json:"member_id"`
	BookID     string     `gorm:"type:varchar(36);not null;index:idx_loans_member_book" json:"book_id"`
	Status     string     `gorm:"size:20;not null;default:'Active';index" json:"status"`
	BorrowDate time.Time  `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// Penalty represents penalties table
// Created only when an overdue loan is returned. The administrative CRUD
// path may update or delete it afterwards; the engine never does.
type Penalty struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	MemberID  string    `gorm:"type:varchar(36);not null;index" json:"member_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	Status    bool      `gorm:"not null;default:true;index" json:"status"`
	Reason    string    `gorm:"size:200" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Penalty) TableName() string {
	return "penalties"
}

func (p *Penalty) IsExpired(now time.Time) bool {
	return now.After(p.EndDate)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Master
		&Category{},
		// Main
		&Book{},
		&Member{},
		&Loan{},
		&Penalty{},
	)
}
