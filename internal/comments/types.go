package comments

import (
	"time"

	"github.com/google/uuid"
)

// CommentDTO is one comment as served under a book.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AddCommentInput carries a new comment body.
type AddCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
