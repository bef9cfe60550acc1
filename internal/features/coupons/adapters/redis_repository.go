package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"silistain-store/internal/core/cache"
	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/coupons/domain"

	"go.uber.org/zap"
)

const (
	couponCodePrefix  = "coupon:code:"
	couponOwnerPrefix = "coupon:owner:"
)

// RedisCouponRepository implements ports.CouponRepository on the cache port.
// Coupons are stored by code, with a per-owner index of codes for the list
// queries. Records carry their expiry as data and never get a storage TTL,
// so expired coupons stay visible in the history view.
type RedisCouponRepository struct {
	cache cache.Cache
}

// NewRedisCouponRepository creates a new RedisCouponRepository.
func NewRedisCouponRepository(c cache.Cache) *RedisCouponRepository {
	return &RedisCouponRepository{
		cache: c,
	}
}

// Insert stores a new coupon. The code key is written with SetNX so a
// colliding code is rejected with domain.ErrCodeTaken instead of silently
// overwriting someone else's coupon.
func (r *RedisCouponRepository) Insert(ctx context.Context, coupon *domain.Coupon) error {
	data, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("failed to marshal coupon: %w", err)
	}

	ok, err := r.cache.SetNX(ctx, couponCodePrefix+coupon.Code, data, 0)
	if err != nil {
		return fmt.Errorf("failed to store coupon: %w", err)
	}
	if !ok {
		return domain.ErrCodeTaken
	}

	if err := r.appendToOwnerIndex(ctx, coupon.OwnerUserID, coupon.Code); err != nil {
		return err
	}

	return nil
}

// FindByCode returns the coupon stored under the code, or nil when absent.
func (r *RedisCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	data, err := r.cache.Get(ctx, couponCodePrefix+code)
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var coupon domain.Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coupon: %w", err)
	}

	return &coupon, nil
}

// Update overwrites the stored coupon.
func (r *RedisCouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	data, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("failed to marshal coupon: %w", err)
	}

	if err := r.cache.Set(ctx, couponCodePrefix+coupon.Code, data, 0); err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	return nil
}

// ListByOwner returns every coupon recorded in the owner's index. Dangling
// index entries are skipped with a warning rather than failing the listing.
func (r *RedisCouponRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Coupon, error) {
	codes, err := r.ownerIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupons := make([]domain.Coupon, 0, len(codes))
	for _, code := range codes {
		coupon, err := r.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			logger.Get().Warn("Owner index references missing coupon",
				zap.String("user_id", userID),
				zap.String("code", code),
			)
			continue
		}
		coupons = append(coupons, *coupon)
	}

	return coupons, nil
}

func (r *RedisCouponRepository) ownerIndex(ctx context.Context, userID string) ([]string, error) {
	data, err := r.cache.Get(ctx, couponOwnerPrefix+userID)
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get owner index: %w", err)
	}
	if data == nil {
		return []string{}, nil
	}

	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal owner index: %w", err)
	}
	return codes, nil
}

func (r *RedisCouponRepository) appendToOwnerIndex(ctx context.Context, userID, code string) error {
	codes, err := r.ownerIndex(ctx, userID)
	if err != nil {
		return err
	}

	codes = append(codes, code)
	data, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("failed to marshal owner index: %w", err)
	}

	if err := r.cache.Set(ctx, couponOwnerPrefix+userID, data, 0); err != nil {
		return fmt.Errorf("failed to update owner index: %w", err)
	}
	return nil
}
