package ratings

import (
	"context"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates rating persistence and the incremental
// maintenance of each book's rating aggregate.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rating repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUserAndBook loads the caller's rating for a book.
func (r *Repository) FindByUserAndBook(ctx context.Context, userID uuid.UUID, isbn10 string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_isbn10 = ?", userID, isbn10).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// Create inserts a new rating row. The unique index on (user, book)
// rejects a concurrent first rating by the same user.
func (r *Repository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// UpdateValue rewrites an existing rating in place.
func (r *Repository) UpdateValue(ctx context.Context, id uuid.UUID, value int) error {
	return r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("id = ?", id).
		Update("value", value).
		Error
}

// ApplyNewRating folds a first-time rating into the book's aggregate.
// The arithmetic runs inside the UPDATE so the read and write are one
// atomic statement; concurrent raters serialize on the row.
func (r *Repository) ApplyNewRating(ctx context.Context, isbn10 string, value int) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE books
		      SET rating_avg = (rating_avg * rating_count + ?) * 1.0 / (rating_count + 1),
		          rating_count = rating_count + 1
		      WHERE isbn10 = ?`, value, isbn10).
		Error
}

// ApplyRatingDelta shifts the aggregate after a re-rate. The count is
// unchanged, so the average moves by delta/count.
func (r *Repository) ApplyRatingDelta(ctx context.Context, isbn10 string, delta int) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE books
		      SET rating_avg = rating_avg + (? * 1.0) / rating_count
		      WHERE isbn10 = ? AND rating_count > 0`, delta, isbn10).
		Error
}
