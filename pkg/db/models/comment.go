package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user remark attached to a book.
type Comment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookISBN10 string    `gorm:"column:book_isbn10;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Content    string    `gorm:"column:content;not null"`
	User       *User     `gorm:"foreignKey:UserID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
