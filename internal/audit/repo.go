package audit

import (
	"context"
	"time"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/bookhive/bookhive-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates the append-only audit log. There are deliberately
// no update or delete methods.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append writes one audit entry.
func (r *Repository) Append(ctx context.Context, event enums.AuditEventType, username string, bookISBN10, detail *string) error {
	entry := models.AuditLog{
		EventType:  event,
		Username:   username,
		BookISBN10: bookISBN10,
		Detail:     detail,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

// List returns filtered audit entries, newest first.
func (r *Repository) List(ctx context.Context, filter Filter) (PageDTO, error) {
	page := pagination.Params{Page: filter.Page, PerPage: filter.PerPage}.Normalize()

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.Day != nil {
		day := *filter.Day
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		query = query.Where("created_at >= ? AND created_at < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}
	if filter.EventType != nil {
		query = query.Where("event_type = ?", filter.EventType.String())
	}
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.BookISBN10 != "" {
		query = query.Where("book_isbn10 = ?", filter.BookISBN10)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return PageDTO{}, err
	}

	var records []models.AuditLog
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&records).Error; err != nil {
		return PageDTO{}, err
	}

	events := make([]EntryDTO, 0, len(records))
	for _, record := range records {
		events = append(events, EntryDTO{
			ID:         record.ID,
			EventType:  record.EventType.String(),
			Username:   record.Username,
			BookISBN10: record.BookISBN10,
			Detail:     record.Detail,
			CreatedAt:  record.CreatedAt,
		})
	}

	return PageDTO{
		Events:      events,
		TotalEvents: total,
		Page:        page.Page,
		PerPage:     page.PerPage,
		TotalPages:  pagination.TotalPages(total, page.PerPage),
	}, nil
}
