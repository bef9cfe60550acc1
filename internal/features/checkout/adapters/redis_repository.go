package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"silistain-store/internal/core/cache"
	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/checkout/domain"

	"go.uber.org/zap"
)

const (
	orderIDPrefix   = "order:id:"
	orderUserPrefix = "order:user:"
)

// RedisOrderRepository implements ports.OrderRepository on the cache port.
// Orders are stored by ID, with a per-user index of IDs for history queries.
// Guest orders have no user and are reachable by ID only.
type RedisOrderRepository struct {
	cache cache.Cache
}

// NewRedisOrderRepository creates a new RedisOrderRepository.
func NewRedisOrderRepository(c cache.Cache) *RedisOrderRepository {
	return &RedisOrderRepository{
		cache: c,
	}
}

// Insert stores a new order and, for signed-in customers, records it in the
// user's index. An index write failure after the order is stored is logged
// and swallowed: the order exists, it just won't show in history.
func (r *RedisOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	if err := r.write(ctx, order); err != nil {
		return err
	}

	if order.UserID == "" {
		return nil
	}
	if err := r.appendToUserIndex(ctx, order.UserID, order.ID); err != nil {
		logger.Get().Error("Failed to index order for user",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
			zap.Error(err),
		)
	}
	return nil
}

// Update overwrites the stored order.
func (r *RedisOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.write(ctx, order)
}

func (r *RedisOrderRepository) write(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	if err := r.cache.Set(ctx, orderIDPrefix+order.ID, data, 0); err != nil {
		return fmt.Errorf("failed to store order: %w", err)
	}
	return nil
}

// FindByID returns the order stored under the ID, or nil when absent.
func (r *RedisOrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	data, err := r.cache.Get(ctx, orderIDPrefix+orderID)
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

// ListByUser returns every order recorded in the user's index. Dangling
// index entries are skipped with a warning rather than failing the listing.
func (r *RedisOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ids, err := r.userIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			logger.Get().Warn("User index references missing order",
				zap.String("user_id", userID),
				zap.String("order_id", id),
			)
			continue
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

func (r *RedisOrderRepository) userIndex(ctx context.Context, userID string) ([]string, error) {
	data, err := r.cache.Get(ctx, orderUserPrefix+userID)
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get user order index: %w", err)
	}
	if data == nil {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user order index: %w", err)
	}
	return ids, nil
}

func (r *RedisOrderRepository) appendToUserIndex(ctx context.Context, userID, orderID string) error {
	ids, err := r.userIndex(ctx, userID)
	if err != nil {
		return err
	}

	ids = append(ids, orderID)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal user order index: %w", err)
	}

	if err := r.cache.Set(ctx, orderUserPrefix+userID, data, 0); err != nil {
		return fmt.Errorf("failed to update user order index: %w", err)
	}
	return nil
}
