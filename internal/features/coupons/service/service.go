package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/coupons/domain"
	"silistain-store/internal/features/coupons/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// codeRetries bounds how often issuance regenerates on a code collision.
const codeRetries = 5

// ErrNoUniqueCode is returned when issuance keeps colliding with existing
// codes, which at 32^8 combinations indicates a storage problem.
var ErrNoUniqueCode = errors.New("could not generate a unique coupon code")

// CouponServiceImpl implements ports.CouponService.
type CouponServiceImpl struct {
	repo     ports.CouponRepository
	redeemer ports.CouponRedeemer
}

// NewCouponService creates a new CouponServiceImpl.
func NewCouponService(repo ports.CouponRepository, redeemer ports.CouponRedeemer) *CouponServiceImpl {
	return &CouponServiceImpl{
		repo:     repo,
		redeemer: redeemer,
	}
}

// Validate normalizes the submitted code and checks it for the given user.
// Found and ownership are reported as independent facts; the applicability
// checks run in a fixed order: used, expired, balance.
func (s *CouponServiceImpl) Validate(ctx context.Context, code, userID string) (*domain.Validation, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("service: failed to look up coupon: %w", err)
	}

	if coupon == nil {
		return &domain.Validation{Reason: domain.ReasonNotFound}, nil
	}

	if coupon.OwnerUserID != userID {
		return &domain.Validation{Found: true, Reason: domain.ReasonNotOwned}, nil
	}

	v := &domain.Validation{Found: true, Owned: true}

	switch {
	case coupon.IsUsed:
		v.Reason = domain.ReasonAlreadyUsed
	case !coupon.ExpiresAt.After(time.Now()):
		v.Reason = domain.ReasonExpired
	case !coupon.RemainingAmount.IsPositive():
		v.Reason = domain.ReasonZeroBalance
	default:
		v.Valid = true
		v.Coupon = coupon
	}

	return v, nil
}

// Redeem delegates to the external atomic decrement and, on success,
// reconciles the returned balance into the local record. On failure nothing
// is mutated and nothing is retried here.
func (s *CouponServiceImpl) Redeem(ctx context.Context, coupon *domain.Coupon, orderID string, amount decimal.Decimal) (*domain.RedemptionResult, error) {
	result, err := s.redeemer.Redeem(ctx, coupon.ID, orderID, amount)
	if err != nil {
		return nil, fmt.Errorf("service: redemption call failed: %w", err)
	}

	if !result.Success {
		return result, nil
	}

	coupon.RemainingAmount = result.RemainingBalance
	if result.RemainingBalance.IsZero() {
		now := time.Now()
		coupon.IsUsed = true
		coupon.UsedAt = &now
		coupon.OrderIDUsed = orderID
	}

	// The external operation is the source of truth; a stale local record is
	// logged, not turned into a redemption failure.
	if err := s.repo.Update(ctx, coupon); err != nil {
		logger.Get().Warn("Failed to reconcile coupon after redemption",
			zap.String("coupon_id", coupon.ID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	return result, nil
}

// IssueForOrder mints the reward a qualifying order total earns. A total
// below the lowest tier earns nothing and returns nil, nil.
func (s *CouponServiceImpl) IssueForOrder(ctx context.Context, userID string, orderTotal decimal.Decimal) (*domain.Coupon, error) {
	tier := domain.RewardTierFor(orderTotal)
	if tier.IsZero() {
		return nil, nil
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := domain.GenerateCode(domain.DefaultCodeLength)
		if err != nil {
			return nil, fmt.Errorf("service: failed to generate code: %w", err)
		}

		coupon := domain.NewCoupon(userID, tier, code)
		err = s.repo.Insert(ctx, coupon)
		if err == nil {
			return coupon, nil
		}
		if !errors.Is(err, domain.ErrCodeTaken) {
			return nil, fmt.Errorf("service: failed to store coupon: %w", err)
		}
	}

	return nil, ErrNoUniqueCode
}

// Available lists the user's coupons that can still be applied.
func (s *CouponServiceImpl) Available(ctx context.Context, userID string) ([]domain.Coupon, error) {
	all, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list coupons: %w", err)
	}

	now := time.Now()
	available := make([]domain.Coupon, 0, len(all))
	for _, c := range all {
		if !c.IsUsed && c.ExpiresAt.After(now) && c.RemainingAmount.IsPositive() {
			available = append(available, c)
		}
	}

	sortNewestFirst(available)
	return available, nil
}

// History lists every coupon ever issued to the user, newest first.
func (s *CouponServiceImpl) History(ctx context.Context, userID string) ([]domain.Coupon, error) {
	all, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list coupons: %w", err)
	}

	sortNewestFirst(all)
	return all, nil
}

func sortNewestFirst(coupons []domain.Coupon) {
	sort.Slice(coupons, func(i, j int) bool {
		return coupons[i].CreatedAt.After(coupons[j].CreatedAt)
	})
}
