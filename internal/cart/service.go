package cart

import (
	"context"
	"errors"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store       Store
	CatalogRepo *catalog.Repository
}

// Service exposes cart management on top of the configured backend.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	SetItem(ctx context.Context, userID uuid.UUID, input SetItemInput) (CartDTO, error)
	Toggle(ctx context.Context, userID uuid.UUID, isbn string) (ItemStatusDTO, error)
	Status(ctx context.Context, userID uuid.UUID, isbn string) (ItemStatusDTO, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, isbn10 string) (CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	store       Store
	catalogRepo *catalog.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		store:       params.Store,
		catalogRepo: params.CatalogRepo,
	}, nil
}

// GetCart assembles the cart view. Lines pointing at books hidden since they
// were added are dropped from the view but left in the backend, so they come
// back if the book does.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	items, err := s.store.Items(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.assemble(ctx, items)
}

// SetItem adds or updates one line and returns the refreshed cart. The book
// may be named by either ISBN form; the line is keyed by ISBN-10.
func (s *service) SetItem(ctx context.Context, userID uuid.UUID, input SetItemInput) (CartDTO, error) {
	if input.Quantity < 1 || input.Quantity > 99 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 99")
	}
	book, err := s.resolveVisibleBook(ctx, input.ISBN10)
	if err != nil {
		return CartDTO{}, err
	}

	if err := s.store.SetItem(ctx, userID, book.ISBN10, input.Quantity); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store cart item")
	}
	return s.GetCart(ctx, userID)
}

// Toggle flips cart membership of a visible book: absent lines are added
// with quantity one, present lines are removed whatever their quantity.
// The new state is returned.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID, isbn string) (ItemStatusDTO, error) {
	book, err := s.resolveVisibleBook(ctx, isbn)
	if err != nil {
		return ItemStatusDTO{}, err
	}

	current, err := s.lineOf(ctx, userID, book.ISBN10)
	if err != nil {
		return ItemStatusDTO{}, err
	}

	if current.InCart {
		if err := s.store.RemoveItem(ctx, userID, book.ISBN10); err != nil {
			return ItemStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		return ItemStatusDTO{}, nil
	}

	if err := s.store.SetItem(ctx, userID, book.ISBN10, 1); err != nil {
		return ItemStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store cart item")
	}
	return ItemStatusDTO{InCart: true, Quantity: 1}, nil
}

// Status reports whether the book currently sits in the cart and at what
// quantity. Either ISBN form resolves the book.
func (s *service) Status(ctx context.Context, userID uuid.UUID, isbn string) (ItemStatusDTO, error) {
	book, err := s.resolveVisibleBook(ctx, isbn)
	if err != nil {
		return ItemStatusDTO{}, err
	}
	return s.lineOf(ctx, userID, book.ISBN10)
}

// RemoveItem drops one line regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, isbn10 string) (CartDTO, error) {
	if isbn10 == "" {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "isbn10 is required")
	}
	if err := s.store.RemoveItem(ctx, userID, isbn10); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) assemble(ctx context.Context, items []Item) (CartDTO, error) {
	lines := make([]LineDTO, 0, len(items))
	subtotal := decimal.Zero

	for _, item := range items {
		book, err := s.catalogRepo.FindVisibleByISBN10(ctx, item.ISBN10)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart book")
		}

		lineTotal := decimal.NewFromFloat(book.Price).
			Mul(decimal.NewFromInt(int64(item.Quantity))).
			Round(2)
		lines = append(lines, LineDTO{
			Book:      catalog.Summary(*book),
			Quantity:  item.Quantity,
			LineTotal: lineTotal.InexactFloat64(),
		})
		subtotal = subtotal.Add(lineTotal)
	}

	return CartDTO{Items: lines, Subtotal: subtotal.Round(2).InexactFloat64()}, nil
}

func (s *service) lineOf(ctx context.Context, userID uuid.UUID, isbn10 string) (ItemStatusDTO, error) {
	items, err := s.store.Items(ctx, userID)
	if err != nil {
		return ItemStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	for _, item := range items {
		if item.ISBN10 == isbn10 {
			return ItemStatusDTO{InCart: true, Quantity: item.Quantity}, nil
		}
	}
	return ItemStatusDTO{}, nil
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
