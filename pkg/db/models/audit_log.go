package models

import (
	"time"

	"github.com/bookhive/bookhive-backend/pkg/enums"
)

// AuditLog is an append-only record of notable events. Rows are never
// updated or deleted.
type AuditLog struct {
	ID         int64                `gorm:"column:id;primaryKey;autoIncrement"`
	EventType  enums.AuditEventType `gorm:"column:event_type;not null;index"`
	Username   string               `gorm:"column:username;not null;index"`
	BookISBN10 *string              `gorm:"column:book_isbn10;index"`
	Detail     *string              `gorm:"column:detail"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName keeps the conventional singular-free name.
func (AuditLog) TableName() string {
	return "audit_log"
}
