package models

import (
	"time"

	"github.com/google/uuid"
)

// Genre is a normalized genre name split out of the catalog feed.
type Genre struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// BookGenre joins books to their normalized genres.
type BookGenre struct {
	BookISBN10 string    `gorm:"column:book_isbn10;primaryKey"`
	GenreID    uuid.UUID `gorm:"column:genre_id;type:uuid;primaryKey"`
}

// TableName keeps the junction table name stable.
func (BookGenre) TableName() string {
	return "book_genres"
}
