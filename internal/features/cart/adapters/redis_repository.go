package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"silistain-store/internal/core/cache"
	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/cart/domain"

	"go.uber.org/zap"
)

const cartKeyPrefix = "cart:"

// RedisCartRepository implements ports.CartRepository on the cache port.
type RedisCartRepository struct {
	cache cache.Cache
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(c cache.Cache) *RedisCartRepository {
	return &RedisCartRepository{
		cache: c,
	}
}

// Save serializes the full cart under its identity key. Carts never expire;
// clearing is an explicit delete.
func (r *RedisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.cache.Set(ctx, cartKeyPrefix+cart.Key, data, 0); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// Get retrieves the stored cart. A missing key returns nil, nil. A payload
// that no longer parses is logged, dropped, and treated as missing so the
// caller starts over with an empty cart.
func (r *RedisCartRepository) Get(ctx context.Context, key string) (*domain.Cart, error) {
	data, err := r.cache.Get(ctx, cartKeyPrefix+key)
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		logger.Get().Warn("Discarding corrupt stored cart",
			zap.String("cart_key", key),
			zap.Error(err),
		)
		if delErr := r.cache.Delete(ctx, cartKeyPrefix+key); delErr != nil {
			logger.Get().Warn("Failed to drop corrupt cart", zap.Error(delErr))
		}
		return nil, nil
	}

	return &cart, nil
}

// Delete removes the stored cart.
func (r *RedisCartRepository) Delete(ctx context.Context, key string) error {
	if err := r.cache.Delete(ctx, cartKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
