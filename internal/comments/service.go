package comments

import (
	"context"
	"errors"
	"strings"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the comment service.
type ServiceParams struct {
	CommentRepo *Repository
	CatalogRepo *catalog.Repository
}

// Service exposes comment management under catalog books.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, isbn10 string, input AddCommentInput) (CommentDTO, error)
	ListByBook(ctx context.Context, isbn10 string) ([]CommentDTO, error)
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

type service struct {
	commentRepo *Repository
	catalogRepo *catalog.Repository
}

// NewService builds a comment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CommentRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		commentRepo: params.CommentRepo,
		catalogRepo: params.CatalogRepo,
	}, nil
}

// Add attaches a comment to a visible book.
func (s *service) Add(ctx context.Context, userID uuid.UUID, isbn10 string, input AddCommentInput) (CommentDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return CommentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if err := s.ensureVisibleBook(ctx, isbn10); err != nil {
		return CommentDTO{}, err
	}

	comment := &models.Comment{
		ID:         uuid.New(),
		BookISBN10: isbn10,
		UserID:     userID,
		Content:    content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}

	return CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// ListByBook returns a visible book's comments, newest first.
func (s *service) ListByBook(ctx context.Context, isbn10 string) ([]CommentDTO, error) {
	if err := s.ensureVisibleBook(ctx, isbn10); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByBook(ctx, isbn10)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return comments, nil
}

// Delete removes a comment, but only for its author.
func (s *service) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}
	if comment.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not the comment owner")
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	return nil
}

func (s *service) ensureVisibleBook(ctx context.Context, isbn10 string) error {
	if isbn10 == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "isbn10 is required")
	}
	if _, err := s.catalogRepo.FindVisibleByISBN10(ctx, isbn10); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "book not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return nil
}
