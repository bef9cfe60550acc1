package ports

import (
	"context"

	"silistain-store/internal/features/checkout/domain"
	coupondomain "silistain-store/internal/features/coupons/domain"
)

// CheckoutState labels where a submission ended up.
type CheckoutState string

const (
	StateSucceeded CheckoutState = "succeeded"
	StateFailed    CheckoutState = "failed"
)

// SubmitInput carries one checkout submission.
type SubmitInput struct {
	// UserID is empty for guest checkouts.
	UserID string
	// CartKey is the identity key of the cart being checked out.
	CartKey string
	// Address is the shipping destination.
	Address domain.ShippingAddress
	// CouponCode is the code the customer typed, if any.
	CouponCode string
	// UseCoupon is the customer's toggle; an applied coupon is only
	// redeemed when this is set.
	UseCoupon bool
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	State CheckoutState `json:"state"`
	Order *domain.Order `json:"order,omitempty"`
	// DiscountApplied is true only after the external redemption succeeded
	// and the discount write landed on the order.
	DiscountApplied bool `json:"discount_applied"`
	// EarnedCoupon is the reward minted for this order, if the total
	// reached a reward tier.
	EarnedCoupon *coupondomain.Coupon `json:"earned_coupon,omitempty"`
}

// CheckoutService defines the primary port for checkout and order queries.
type CheckoutService interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	History(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error)
}

// OrderRepository defines the secondary port for order persistence.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	// FindByID returns the order, or nil when absent.
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
