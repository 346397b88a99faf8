package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's cart when the db backend is active.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_book"`
	BookISBN10 string    `gorm:"column:book_isbn10;not null;uniqueIndex:idx_cart_items_user_book"`
	Quantity   int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
