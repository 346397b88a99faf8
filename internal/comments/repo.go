package comments

import (
	"context"
	"time"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates comment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a comment repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the comment row.
func (r *Repository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID loads one comment.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes one comment.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Comment{}).
		Error
}

type commentRecord struct {
	ID        uuid.UUID `gorm:"column:id"`
	Username  string    `gorm:"column:username"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// ListByBook returns a book's comments with their authors, newest first.
func (r *Repository) ListByBook(ctx context.Context, isbn10 string) ([]CommentDTO, error) {
	var records []commentRecord
	if err := r.db.WithContext(ctx).
		Table("comments c").
		Select("c.id, u.username, c.content, c.created_at").
		Joins("JOIN users u ON u.id = c.user_id").
		Where("c.book_isbn10 = ?", isbn10).
		Order("c.created_at DESC").
		Scan(&records).Error; err != nil {
		return nil, err
	}

	comments := make([]CommentDTO, 0, len(records))
	for _, record := range records {
		comments = append(comments, CommentDTO{
			ID:        record.ID,
			Username:  record.Username,
			Content:   record.Content,
			CreatedAt: record.CreatedAt,
		})
	}
	return comments, nil
}
