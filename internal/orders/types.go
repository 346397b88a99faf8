package orders

import (
	"time"

	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/bookhive/bookhive-backend/pkg/types"
	"github.com/google/uuid"
)

// CheckoutInput carries an order placement request. Contact email and the
// two addresses fall back to the profile values when omitted.
type CheckoutInput struct {
	PaymentMethod   string         `json:"payment_method" validate:"required"`
	Email           string         `json:"email,omitempty" validate:"omitempty,email"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
}

// OrderItemDTO is one snapshotted line of a placed order.
type OrderItemDTO struct {
	ISBN10    string  `json:"isbn10"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// OrderDTO is a placed order as served to its owner.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Email           string              `json:"email"`
	Subtotal        float64             `json:"subtotal"`
	Fee             float64             `json:"fee"`
	Total           float64             `json:"total"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address      `json:"billing_address,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}
