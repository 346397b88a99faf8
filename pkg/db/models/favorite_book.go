package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteBook marks a book as a favorite of a user.
type FavoriteBook struct {
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	BookISBN10 string    `gorm:"column:book_isbn10;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
