package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/bookhive/bookhive-backend/pkg/types"
)

// Order is a placed purchase with its items snapshotted at checkout.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Email           string              `gorm:"column:email;not null"`
	Subtotal        float64             `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Fee             float64             `gorm:"column:fee;type:numeric(10,2);not null"`
	Total           float64             `gorm:"column:total;type:numeric(10,2);not null"`
	ShippingAddress *types.Address      `gorm:"column:shipping_address;type:jsonb"`
	BillingAddress  *types.Address      `gorm:"column:billing_address;type:jsonb"`
	GDPRConsent     bool                `gorm:"column:gdpr_consent;not null;default:false"`
	ConsentAt       *time.Time          `gorm:"column:consent_at"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots title and unit price so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	BookISBN10 string    `gorm:"column:book_isbn10;not null"`
	Title      string    `gorm:"column:title;not null"`
	UnitPrice  float64   `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
}
