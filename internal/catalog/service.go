package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"gorm.io/gorm"
)

// FeedActor is the audit username recorded for feed-driven catalog changes.
const FeedActor = "catalog_feed"

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Client      TxRunner
	CatalogRepo *Repository
	AuditRepo   *audit.Repository
	Logger      *logger.Logger
}

// Service exposes business rules for catalog search and feed ingestion.
type Service interface {
	Search(ctx context.Context, params SearchParams) (BooksPageDTO, error)
	GetBook(ctx context.Context, isbn10 string) (BookDetail, error)
	ListGenres(ctx context.Context) ([]string, error)
	SyncCatalog(ctx context.Context, feed []FeedBook) (SyncResult, error)
}

type service struct {
	client      TxRunner
	catalogRepo *Repository
	auditRepo   *audit.Repository
	logg        *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.AuditRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "audit repo is required")
	}
	return &service{
		client:      params.Client,
		catalogRepo: params.CatalogRepo,
		auditRepo:   params.AuditRepo,
		logg:        params.Logger,
	}, nil
}

// Search returns the paginated, visible slice of the catalog.
func (s *service) Search(ctx context.Context, params SearchParams) (BooksPageDTO, error) {
	page, err := s.catalogRepo.Search(ctx, params)
	if err != nil {
		return BooksPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search catalog")
	}
	return page, nil
}

// GetBook returns the detail view of one visible book. Either ISBN form
// resolves it.
func (s *service) GetBook(ctx context.Context, isbn string) (BookDetail, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return BookDetail{}, pkgerrors.New(pkgerrors.CodeValidation, "isbn is required")
	}
	book, err := s.catalogRepo.FindVisibleByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookDetail{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "book not found")
		}
		return BookDetail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return toDetail(*book), nil
}

// ListGenres returns every normalized genre name.
func (s *service) ListGenres(ctx context.Context) ([]string, error) {
	genres, err := s.catalogRepo.ListGenres(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list genres")
	}
	return genres, nil
}

// SyncCatalog replaces the visible catalog with the incoming feed inside one
// transaction. Books absent from the feed go invisible, returning books come
// back, and new books are created; each visibility change lands in the audit
// log. Feed rows without an ISBN-10 are skipped. Running the same feed twice
// is a no-op the second time.
func (s *service) SyncCatalog(ctx context.Context, feed []FeedBook) (SyncResult, error) {
	var result SyncResult

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.catalogRepo.WithTx(tx)
		auditRepo := s.auditRepo.WithTx(tx)

		previouslyVisible, err := repo.ListVisibleISBNs(ctx)
		if err != nil {
			return err
		}
		wasVisible := make(map[string]bool, len(previouslyVisible))
		for _, isbn := range previouslyVisible {
			wasVisible[isbn] = true
		}

		if err := repo.HideAll(ctx); err != nil {
			return err
		}

		seen := make(map[string]bool, len(feed))
		for _, book := range feed {
			isbn := strings.TrimSpace(book.ISBN10)
			if isbn == "" || seen[isbn] {
				continue
			}
			seen[isbn] = true
			book.ISBN10 = isbn

			created, err := repo.Upsert(ctx, book)
			if err != nil {
				return err
			}
			if err := repo.SyncGenres(ctx, isbn, book.Genres); err != nil {
				return err
			}

			switch {
			case created:
				result.Created++
				if err := auditRepo.Append(ctx, enums.AuditEventBookAdd, FeedActor, &isbn, nil); err != nil {
					return err
				}
			case !wasVisible[isbn]:
				result.Updated++
				result.Shown++
				if err := auditRepo.Append(ctx, enums.AuditEventBookShow, FeedActor, &isbn, nil); err != nil {
					return err
				}
			default:
				result.Updated++
			}
		}

		for _, isbn := range previouslyVisible {
			if seen[isbn] {
				continue
			}
			result.Hidden++
			hidden := isbn
			if err := auditRepo.Append(ctx, enums.AuditEventBookHide, FeedActor, &hidden, nil); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return SyncResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync catalog")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"created": result.Created,
			"updated": result.Updated,
			"hidden":  result.Hidden,
			"shown":   result.Shown,
		})
		s.logg.Info(ctx, "catalog.sync.complete")
	}
	return result, nil
}
