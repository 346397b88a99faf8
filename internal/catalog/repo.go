package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/bookhive/bookhive-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Search returns visible books matching the given dimensions, ordered by
// title. Empty dimensions are skipped; within one, any semicolon-separated
// term may match.
func (r *Repository) Search(ctx context.Context, params SearchParams) (BooksPageDTO, error) {
	page := pagination.Params{Page: params.Page, PerPage: params.PerPage}.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("visible = ?", true)

	query = applyTermFilter(query, "title", params.Title)
	query = applyTermFilter(query, "author", params.Author)
	query = applyTermFilter(query, "genres", params.Genre)
	query = applyISBNFilter(query, params.ISBN)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return BooksPageDTO{}, err
	}

	var records []models.Book
	if err := query.
		Order("title ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&records).Error; err != nil {
		return BooksPageDTO{}, err
	}

	books := make([]BookSummary, 0, len(records))
	for _, record := range records {
		books = append(books, toSummary(record))
	}

	return BooksPageDTO{
		Books:      books,
		TotalBooks: total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: pagination.TotalPages(total, page.PerPage),
	}, nil
}

// applyTermFilter ANDs one dimension onto the query. Terms within the
// dimension are ORed, matching case-insensitive substrings.
func applyTermFilter(query *gorm.DB, column, raw string) *gorm.DB {
	terms := splitTerms(raw)
	if len(terms) == 0 {
		return query
	}

	clauses := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms))
	for _, term := range terms {
		clauses = append(clauses, "lower("+column+") LIKE lower(?)")
		args = append(args, "%"+term+"%")
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// applyISBNFilter matches either ISBN column, since feeds and clients use
// the two forms interchangeably.
func applyISBNFilter(query *gorm.DB, raw string) *gorm.DB {
	terms := splitTerms(raw)
	if len(terms) == 0 {
		return query
	}

	clauses := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)*2)
	for _, term := range terms {
		clauses = append(clauses, "(lower(isbn10) LIKE lower(?) OR lower(isbn13) LIKE lower(?))")
		pattern := "%" + term + "%"
		args = append(args, pattern, pattern)
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

func splitTerms(raw string) []string {
	parts := strings.Split(raw, ";")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}

// FindByISBN10 loads one book regardless of visibility.
func (r *Repository) FindByISBN10(ctx context.Context, isbn10 string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).
		Where("isbn10 = ?", isbn10).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindVisibleByISBN10 loads one book only if it is currently visible.
func (r *Repository) FindVisibleByISBN10(ctx context.Context, isbn10 string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).
		Where("isbn10 = ? AND visible = ?", isbn10, true).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindVisibleByISBN loads one visible book by either ISBN form.
func (r *Repository) FindVisibleByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).
		Where("(isbn10 = ? OR isbn13 = ?) AND visible = ?", isbn, isbn, true).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// ListVisibleISBNs returns the ISBN-10s of every currently visible book.
func (r *Repository) ListVisibleISBNs(ctx context.Context) ([]string, error) {
	var isbns []string
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("visible = ?", true).
		Pluck("isbn10", &isbns).Error; err != nil {
		return nil, err
	}
	return isbns, nil
}

// HideAll flips every book invisible ahead of a feed re-ingestion.
func (r *Repository) HideAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("visible = ?", true).
		Update("visible", false).Error
}

// Upsert writes the feed record, reviving visibility, and reports whether a
// new row was created.
func (r *Repository) Upsert(ctx context.Context, feed FeedBook) (created bool, err error) {
	var existing models.Book
	err = r.db.WithContext(ctx).
		Where("isbn10 = ?", feed.ISBN10).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		book := models.Book{
			ISBN10:      feed.ISBN10,
			ISBN13:      feed.ISBN13,
			Title:       feed.Title,
			Author:      feed.Author,
			Publisher:   feed.Publisher,
			Description: feed.Description,
			CoverURL:    feed.CoverURL,
			PubYear:     feed.PubYear,
			PageCount:   feed.PageCount,
			Genres:      feed.Genres,
			Price:       feed.Price,
			Visible:     true,
		}
		if err := r.db.WithContext(ctx).Create(&book).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	updates := map[string]any{
		"isbn13":      feed.ISBN13,
		"title":       feed.Title,
		"author":      feed.Author,
		"publisher":   feed.Publisher,
		"description": feed.Description,
		"cover_url":   feed.CoverURL,
		"pub_year":    feed.PubYear,
		"page_count":  feed.PageCount,
		"genres":      feed.Genres,
		"price":       feed.Price,
		"visible":     true,
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("isbn10 = ?", feed.ISBN10).
		Updates(updates).Error; err != nil {
		return false, err
	}
	return false, nil
}

// SyncGenres normalizes the semicolon-separated genre value into the genres
// and book_genres tables.
func (r *Repository) SyncGenres(ctx context.Context, isbn10, rawGenres string) error {
	names := splitTerms(rawGenres)

	if err := r.db.WithContext(ctx).
		Where("book_isbn10 = ?", isbn10).
		Delete(&models.BookGenre{}).Error; err != nil {
		return err
	}

	for _, name := range names {
		genre := models.Genre{Name: name}
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).
			Create(&genre).Error; err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).
			Where("name = ?", name).
			First(&genre).Error; err != nil {
			return err
		}
		junction := models.BookGenre{BookISBN10: isbn10, GenreID: genre.ID}
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&junction).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListGenres returns all normalized genre names in alphabetical order.
func (r *Repository) ListGenres(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&models.Genre{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Summary converts a book row into its list projection.
func Summary(book models.Book) BookSummary {
	return toSummary(book)
}

func toSummary(book models.Book) BookSummary {
	return BookSummary{
		ISBN10:      book.ISBN10,
		ISBN13:      book.ISBN13,
		Title:       book.Title,
		Author:      book.Author,
		Genres:      book.Genres,
		Price:       book.Price,
		CoverURL:    book.CoverURL,
		RatingAvg:   book.RatingAvg,
		RatingCount: book.RatingCount,
	}
}

func toDetail(book models.Book) BookDetail {
	return BookDetail{
		BookSummary: toSummary(book),
		Publisher:   book.Publisher,
		Description: book.Description,
		PubYear:     book.PubYear,
		PageCount:   book.PageCount,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}
