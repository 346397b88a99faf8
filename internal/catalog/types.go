package catalog

import "time"

// SearchParams captures the catalog search dimensions. Within a dimension,
// semicolon-separated terms are alternatives; filled dimensions must all match.
type SearchParams struct {
	Title   string
	Author  string
	ISBN    string
	Genre   string
	Page    int
	PerPage int
}

// BookSummary is the list-view projection of a catalog entry.
type BookSummary struct {
	ISBN10      string  `json:"isbn10"`
	ISBN13      string  `json:"isbn13"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genres      string  `json:"genres"`
	Price       float64 `json:"price"`
	CoverURL    *string `json:"cover_url,omitempty"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}

// BookDetail is the full projection served for a single book. IsFavorite is
// only populated for requests carrying a valid session.
type BookDetail struct {
	BookSummary
	Publisher   *string   `json:"publisher,omitempty"`
	Description *string   `json:"description,omitempty"`
	PubYear     *int      `json:"pub_year,omitempty"`
	PageCount   *int      `json:"page_count,omitempty"`
	IsFavorite  *bool     `json:"is_favorite,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BooksPageDTO is the flat paginated search response.
type BooksPageDTO struct {
	Books      []BookSummary `json:"books"`
	TotalBooks int64         `json:"total_books"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// FeedBook is one record of an incoming catalog feed.
type FeedBook struct {
	ISBN10      string  `json:"isbn10"`
	ISBN13      string  `json:"isbn13" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Publisher   *string `json:"publisher,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
	PubYear     *int    `json:"pub_year,omitempty"`
	PageCount   *int    `json:"page_count,omitempty"`
	Genres      string  `json:"genres"`
	Price       float64 `json:"price" validate:"min=0"`
}

// SyncResult summarizes a catalog re-ingestion run.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Hidden  int `json:"hidden"`
	Shown   int `json:"shown"`
}
