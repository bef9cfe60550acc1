package ports

import (
	"context"

	"silistain-store/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
)

// CouponService defines the primary port for coupon operations.
type CouponService interface {
	// Validate checks a submitted code for a user and reports found,
	// ownership and applicability independently.
	Validate(ctx context.Context, code, userID string) (*domain.Validation, error)
	// Redeem runs the external atomic decrement against a specific order and
	// reconciles the returned balance into the local record.
	Redeem(ctx context.Context, coupon *domain.Coupon, orderID string, amount decimal.Decimal) (*domain.RedemptionResult, error)
	// IssueForOrder mints the tiered reward for a qualifying order total.
	// Returns nil without error when the total earns nothing.
	IssueForOrder(ctx context.Context, userID string, orderTotal decimal.Decimal) (*domain.Coupon, error)
	// Available lists the user's applicable coupons.
	Available(ctx context.Context, userID string) ([]domain.Coupon, error)
	// History lists all of the user's coupons, newest first.
	History(ctx context.Context, userID string) ([]domain.Coupon, error)
}

// CouponRepository defines the secondary port for coupon storage.
type CouponRepository interface {
	// Insert stores a new coupon; domain.ErrCodeTaken when the code exists.
	Insert(ctx context.Context, coupon *domain.Coupon) error
	// FindByCode returns the coupon, or nil when absent. Lookup is global by
	// code; ownership is the service's concern.
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	// Update overwrites the stored coupon.
	Update(ctx context.Context, coupon *domain.Coupon) error
	// ListByOwner returns every coupon issued to the user.
	ListByOwner(ctx context.Context, userID string) ([]domain.Coupon, error)
}

// CouponRedeemer defines the secondary port for the external atomic
// balance-decrement operation. On failure it must not have mutated anything.
type CouponRedeemer interface {
	Redeem(ctx context.Context, couponID, orderID string, amount decimal.Decimal) (*domain.RedemptionResult, error)
}
