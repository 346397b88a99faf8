package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// kvStore is the slice of the Redis client the session cart needs.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

// SessionStore keeps cart lines in Redis with a TTL, so an abandoned cart
// disappears on its own.
type SessionStore struct {
	kv  kvStore
	ttl time.Duration
}

// NewSessionStore constructs a Redis-backed cart store.
func NewSessionStore(kv kvStore, ttl time.Duration) (*SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &SessionStore{kv: kv, ttl: ttl}, nil
}

func (s *SessionStore) Items(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return []Item{}, nil
		}
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return items, nil
}

func (s *SessionStore) SetItem(ctx context.Context, userID uuid.UUID, isbn10 string, quantity int) error {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return err
	}

	updated := false
	for i := range items {
		if items[i].ISBN10 == isbn10 {
			items[i].Quantity = quantity
			updated = true
			break
		}
	}
	if !updated {
		items = append(items, Item{ISBN10: isbn10, Quantity: quantity})
	}

	return s.save(ctx, userID, items)
}

func (s *SessionStore) RemoveItem(ctx context.Context, userID uuid.UUID, isbn10 string) error {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ISBN10 != isbn10 {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return s.Clear(ctx, userID)
	}
	return s.save(ctx, userID, kept)
}

func (s *SessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.kv.Del(ctx, s.kv.CartKey(userID.String()))
}

func (s *SessionStore) save(ctx context.Context, userID uuid.UUID, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	return s.kv.Set(ctx, s.kv.CartKey(userID.String()), payload, s.ttl)
}

var _ Store = (*SessionStore)(nil)
