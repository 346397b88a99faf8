package orders

import (
	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

var (
	cashOnDeliveryFee = decimal.NewFromInt(50)
	cardFeeRate       = decimal.New(1, -2)
)

// feeFor prices the payment surcharge. Cash on delivery carries a flat
// handling fee, online card payments cost one percent of the subtotal
// rounded to cents, and bank transfers are free.
func feeFor(method enums.PaymentMethod, subtotal decimal.Decimal) decimal.Decimal {
	switch method {
	case enums.PaymentMethodCashOnDelivery:
		return cashOnDeliveryFee
	case enums.PaymentMethodCardOnline:
		return subtotal.Mul(cardFeeRate).Round(2)
	default:
		return decimal.Zero
	}
}
