package ratings

import (
	"context"
	"errors"
	"math"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/pkg/db"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the rating service.
type ServiceParams struct {
	Client      catalog.TxRunner
	RatingRepo  *Repository
	CatalogRepo *catalog.Repository
}

// Service exposes star ratings on catalog books.
type Service interface {
	Rate(ctx context.Context, userID uuid.UUID, isbn10 string, input RateInput) (RatingDTO, error)
	GetOwn(ctx context.Context, userID uuid.UUID, isbn10 string) (*RatingDTO, error)
}

type service struct {
	client      catalog.TxRunner
	ratingRepo  *Repository
	catalogRepo *catalog.Repository
}

// NewService builds a rating service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.RatingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		client:      params.Client,
		ratingRepo:  params.RatingRepo,
		catalogRepo: params.CatalogRepo,
	}, nil
}

// Rate records or revises the caller's rating and folds it into the
// book's running average without rescanning the ratings table. A first
// rating grows the count; a re-rate only shifts the average.
func (s *service) Rate(ctx context.Context, userID uuid.UUID, isbn10 string, input RateInput) (RatingDTO, error) {
	if input.Value < 1 || input.Value > 5 {
		return RatingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating value must be between 1 and 5")
	}

	var dto RatingDTO
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		ratingRepo := s.ratingRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)

		if _, err := catalogRepo.FindVisibleByISBN10(ctx, isbn10); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "book not found")
			}
			return err
		}

		existing, err := ratingRepo.FindByUserAndBook(ctx, userID, isbn10)
		switch {
		case err == nil:
			if err := ratingRepo.UpdateValue(ctx, existing.ID, input.Value); err != nil {
				return err
			}
			if delta := input.Value - existing.Value; delta != 0 {
				if err := ratingRepo.ApplyRatingDelta(ctx, isbn10, delta); err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := &models.Rating{
				ID:         uuid.New(),
				BookISBN10: isbn10,
				UserID:     userID,
				Value:      input.Value,
			}
			if err := ratingRepo.Create(ctx, rating); err != nil {
				if db.IsUniqueViolation(err, "idx_ratings_user_book") {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "rating already recorded, retry")
				}
				return err
			}
			if err := ratingRepo.ApplyNewRating(ctx, isbn10, input.Value); err != nil {
				return err
			}
		default:
			return err
		}

		book, err := catalogRepo.FindByISBN10(ctx, isbn10)
		if err != nil {
			return err
		}
		dto = RatingDTO{
			Value:       input.Value,
			RatingAvg:   round2(book.RatingAvg),
			RatingCount: book.RatingCount,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return RatingDTO{}, typed
		}
		return RatingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record rating")
	}
	return dto, nil
}

// GetOwn returns the caller's rating for a book, or nil when they have
// not rated it.
func (s *service) GetOwn(ctx context.Context, userID uuid.UUID, isbn10 string) (*RatingDTO, error) {
	book, err := s.catalogRepo.FindVisibleByISBN10(ctx, isbn10)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}

	rating, err := s.ratingRepo.FindByUserAndBook(ctx, userID, isbn10)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}

	return &RatingDTO{
		Value:       rating.Value,
		RatingAvg:   round2(book.RatingAvg),
		RatingCount: book.RatingCount,
	}, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
