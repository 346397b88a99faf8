package favorites

import (
	"context"
	"errors"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoritesRepo *Repository
	CatalogRepo   *catalog.Repository
}

// Service exposes favorite-book management.
type Service interface {
	Toggle(ctx context.Context, userID uuid.UUID, isbn10 string) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]catalog.BookSummary, error)
	Status(ctx context.Context, userID uuid.UUID, isbn10 string) (bool, error)
}

type service struct {
	favoritesRepo *Repository
	catalogRepo   *catalog.Repository
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		favoritesRepo: params.FavoritesRepo,
		catalogRepo:   params.CatalogRepo,
	}, nil
}

// Toggle flips the favorite state of a visible book and returns the new
// state: true when the book is now a favorite. Either ISBN form resolves
// the book; the junction row is keyed by ISBN-10.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID, isbn string) (bool, error) {
	book, err := s.resolveVisibleBook(ctx, isbn)
	if err != nil {
		return false, err
	}

	exists, err := s.favoritesRepo.Exists(ctx, userID, book.ISBN10)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}

	if exists {
		if err := s.favoritesRepo.Remove(ctx, userID, book.ISBN10); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
		}
		return false, nil
	}

	if err := s.favoritesRepo.Add(ctx, userID, book.ISBN10); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return true, nil
}

// List returns summaries of the user's favorite books. Books hidden since
// they were favored are filtered out.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]catalog.BookSummary, error) {
	isbns, err := s.favoritesRepo.ListISBNs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	books := make([]catalog.BookSummary, 0, len(isbns))
	for _, isbn := range isbns {
		book, err := s.catalogRepo.FindVisibleByISBN10(ctx, isbn)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorite book")
		}
		books = append(books, catalog.Summary(*book))
	}
	return books, nil
}

// Status reports whether the book is currently a favorite of the user.
func (s *service) Status(ctx context.Context, userID uuid.UUID, isbn string) (bool, error) {
	book, err := s.resolveVisibleBook(ctx, isbn)
	if err != nil {
		return false, err
	}
	exists, err := s.favoritesRepo.Exists(ctx, userID, book.ISBN10)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return exists, nil
}

func (s *service) resolveVisibleBook(ctx context.Context, isbn string) (*models.Book, error) {
	if isbn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "isbn is required")
	}
	book, err := s.catalogRepo.FindVisibleByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return book, nil
}
