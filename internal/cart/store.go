package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store abstracts where cart lines live. The db backend keeps them in
// Postgres so carts survive sessions; the session backend keeps them in
// Redis alongside the session and lets them expire with it. One backend is
// selected at startup and never mixed.
type Store interface {
	Items(ctx context.Context, userID uuid.UUID) ([]Item, error)
	SetItem(ctx context.Context, userID uuid.UUID, isbn10 string, quantity int) error
	RemoveItem(ctx context.Context, userID uuid.UUID, isbn10 string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
