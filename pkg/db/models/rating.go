package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a single user's star rating for a book. One row per
// (user, book) pair; re-rating updates the row in place.
type Rating struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookISBN10 string    `gorm:"column:book_isbn10;not null;uniqueIndex:idx_ratings_user_book"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_ratings_user_book"`
	Value      int       `gorm:"column:value;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
