package cart

import "github.com/bookhive/bookhive-backend/internal/catalog"

// Item is one stored cart line, backend-agnostic.
type Item struct {
	ISBN10   string `json:"isbn10"`
	Quantity int    `json:"quantity"`
}

// LineDTO joins a stored line with its catalog data.
type LineDTO struct {
	Book      catalog.BookSummary `json:"book"`
	Quantity  int                 `json:"quantity"`
	LineTotal float64             `json:"line_total"`
}

// CartDTO is the assembled cart view.
type CartDTO struct {
	Items    []LineDTO `json:"items"`
	Subtotal float64   `json:"subtotal"`
}

// ItemStatusDTO reports cart membership of a single book.
type ItemStatusDTO struct {
	InCart   bool `json:"in_cart"`
	Quantity int  `json:"quantity"`
}

// SetItemInput carries an add-or-update request for one line.
type SetItemInput struct {
	ISBN10   string `json:"isbn10" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=99"`
}
