package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/bookhive/bookhive-backend/pkg/types"
)

// User represents the canonical identity entity.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username        string         `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	Name            string         `gorm:"column:name;not null"`
	Email           *string        `gorm:"column:email"`
	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb"`
	BillingAddress  *types.Address `gorm:"column:billing_address;type:jsonb"`
	Gender          *enums.Gender  `gorm:"column:gender"`
	BirthYear       *int           `gorm:"column:birth_year"`
	// FavoriteGenres keeps the same semicolon-separated shape the catalog uses.
	FavoriteGenres string     `gorm:"column:favorite_genres;not null;default:''"`
	GDPRConsent    bool       `gorm:"column:gdpr_consent;not null;default:false"`
	GDPRConsentAt  *time.Time `gorm:"column:gdpr_consent_at"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
