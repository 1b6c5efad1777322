package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fundihub/fundihub-backend/pkg/redis"
)

// Store persists cart documents in Redis as JSON keyed by user.
type Store struct {
	client *redis.Client
}

// NewStore wraps the shared redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Load reads the cart document for a user. A missing key yields nil.
func (s *Store) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(userID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding cart document: %w", err)
	}
	return &cart, nil
}

// Save writes the cart document and refreshes its TTL.
func (s *Store) Save(ctx context.Context, userID string, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart document: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(userID), raw, cartTTL); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Clear removes the cart document.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(userID)); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
