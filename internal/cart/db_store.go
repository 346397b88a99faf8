package cart

import (
	"context"
	"errors"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBStore persists cart lines in the cart_items table.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore constructs a database-backed cart store.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Items(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	var records []models.CartItem
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		items = append(items, Item{ISBN10: record.BookISBN10, Quantity: record.Quantity})
	}
	return items, nil
}

func (s *DBStore) SetItem(ctx context.Context, userID uuid.UUID, isbn10 string, quantity int) error {
	var existing models.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND book_isbn10 = ?", userID, isbn10).
		First(&existing).Error
	if err == nil {
		return s.db.WithContext(ctx).
			Model(&models.CartItem{}).
			Where("id = ?", existing.ID).
			Update("quantity", quantity).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	item := models.CartItem{
		ID:         uuid.New(),
		UserID:     userID,
		BookISBN10: isbn10,
		Quantity:   quantity,
	}
	return s.db.WithContext(ctx).Create(&item).Error
}

func (s *DBStore) RemoveItem(ctx context.Context, userID uuid.UUID, isbn10 string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND book_isbn10 = ?", userID, isbn10).
		Delete(&models.CartItem{}).
		Error
}

func (s *DBStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

var _ Store = (*DBStore)(nil)
