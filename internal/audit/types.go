package audit

import (
	"time"

	"github.com/bookhive/bookhive-backend/pkg/enums"
)

// EntryDTO is one audit log row as served to clients.
type EntryDTO struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	Username   string    `json:"username"`
	BookISBN10 *string   `json:"book_isbn10,omitempty"`
	Detail     *string   `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows an audit log listing. All fields are optional and combine
// with AND.
type Filter struct {
	Day        *time.Time
	EventType  *enums.AuditEventType
	Username   string
	BookISBN10 string
	Page       int
	PerPage    int
}

// PageDTO is the flat paginated audit listing, newest first.
type PageDTO struct {
	Events      []EntryDTO `json:"events"`
	TotalEvents int64      `json:"total_events"`
	Page        int        `json:"page"`
	PerPage     int        `json:"per_page"`
	TotalPages  int        `json:"total_pages"`
}
