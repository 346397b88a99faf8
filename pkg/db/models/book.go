package models

import (
	"time"
)

// Book represents a catalog entry keyed by its ISBN-10.
type Book struct {
	ISBN10      string  `gorm:"column:isbn10;primaryKey"`
	ISBN13      string  `gorm:"column:isbn13;not null;uniqueIndex"`
	Title       string  `gorm:"column:title;not null"`
	Author      string  `gorm:"column:author;not null"`
	Publisher   *string `gorm:"column:publisher"`
	Description *string `gorm:"column:description"`
	CoverURL    *string `gorm:"column:cover_url"`
	PubYear     *int    `gorm:"column:pub_year"`
	PageCount   *int    `gorm:"column:page_count"`
	// Genres keeps the raw semicolon-separated feed value. The normalized
	// names live in the genres junction table.
	Genres      string    `gorm:"column:genres;not null;default:''"`
	Price       float64   `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Visible     bool      `gorm:"column:visible;not null;default:true"`
	RatingAvg   float64   `gorm:"column:rating_avg;type:numeric(4,2);not null;default:0"`
	RatingCount int       `gorm:"column:rating_count;not null;default:0"`
	GenreRefs   []Genre   `gorm:"many2many:book_genres;foreignKey:ISBN10;joinForeignKey:BookISBN10;References:ID;joinReferences:GenreID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
