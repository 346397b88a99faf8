package favorites

import (
	"context"
	"errors"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates favorite-book persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether the user currently favors the book.
func (r *Repository) Exists(ctx context.Context, userID uuid.UUID, isbn10 string) (bool, error) {
	var row models.FavoriteBook
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_isbn10 = ?", userID, isbn10).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Add inserts the favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID uuid.UUID, isbn10 string) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorite_books (user_id, book_isbn10) VALUES (?, ?) ON CONFLICT (user_id, book_isbn10) DO NOTHING`, userID, isbn10).
		Error
}

// Remove deletes the favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID uuid.UUID, isbn10 string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND book_isbn10 = ?", userID, isbn10).
		Delete(&models.FavoriteBook{}).
		Error
}

// ListISBNs returns the user's favorite ISBN-10s, most recent first.
func (r *Repository) ListISBNs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var isbns []string
	if err := r.db.WithContext(ctx).
		Model(&models.FavoriteBook{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("book_isbn10", &isbns).Error; err != nil {
		return nil, err
	}
	return isbns, nil
}
