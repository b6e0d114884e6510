package repositories

import (
	"context"

	"pustaka-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface.
// Stock counters are owned by the loan engine and are never touched here
// beyond initial creation.
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID with its category
func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByCode gets a book by its human-readable code
func (r *bookRepository) GetByCode(ctx context.Context, code string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("code = ?", code).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List lists books with pagination
func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	r.db.WithContext(ctx).Model(&models.Book{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

// Update updates a book
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete soft deletes a book
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id).Error
}
