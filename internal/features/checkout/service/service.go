package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"silistain-store/internal/core/logger"
	cartdomain "silistain-store/internal/features/cart/domain"
	cartports "silistain-store/internal/features/cart/ports"
	"silistain-store/internal/features/checkout/domain"
	"silistain-store/internal/features/checkout/ports"
	coupondomain "silistain-store/internal/features/coupons/domain"
	couponports "silistain-store/internal/features/coupons/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrEmptyCart is returned when a submission arrives with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// CheckoutServiceImpl implements ports.CheckoutService. It owns the
// submission sequence: validate, snapshot, persist, then coupon redemption
// as a best-effort second step so a redemption failure never loses an order.
type CheckoutServiceImpl struct {
	carts   cartports.CartService
	coupons couponports.CouponService
	orders  ports.OrderRepository
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(carts cartports.CartService, coupons couponports.CouponService, orders ports.OrderRepository) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		carts:   carts,
		coupons: coupons,
		orders:  orders,
	}
}

// Submit runs one checkout submission.
//
// Order creation strictly precedes coupon redemption, and redemption
// strictly precedes the discount write. A failure before the order is
// stored keeps the cart intact so the customer can resubmit; any failure
// after it leaves the order standing at full price and is only logged.
func (s *CheckoutServiceImpl) Submit(ctx context.Context, input ports.SubmitInput) (*ports.SubmitResult, error) {
	if err := input.Address.Validate(); err != nil {
		return &ports.SubmitResult{State: ports.StateFailed}, err
	}

	cart, err := s.carts.GetCart(ctx, input.CartKey)
	if err != nil {
		return &ports.SubmitResult{State: ports.StateFailed}, fmt.Errorf("service: failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return &ports.SubmitResult{State: ports.StateFailed}, ErrEmptyCart
	}

	subtotal := cartdomain.Subtotal(cart.Items)

	// An applied coupon is priced now but not redeemed: the discount can
	// never exceed the coupon balance or the order subtotal.
	var pending *coupondomain.Coupon
	var discount decimal.Decimal
	if input.UseCoupon && input.CouponCode != "" && input.UserID != "" {
		pending, discount = s.pendingDiscount(ctx, input.CouponCode, input.UserID, subtotal)
	}

	order := domain.NewOrder(input.UserID, snapshotItems(cart.Items), input.Address, subtotal)
	if err := s.orders.Insert(ctx, order); err != nil {
		// The cart is deliberately untouched here; resubmission is the
		// customer's retry path.
		return &ports.SubmitResult{State: ports.StateFailed}, fmt.Errorf("failed to create order: %w", err)
	}

	result := &ports.SubmitResult{
		State: ports.StateSucceeded,
		Order: order,
	}

	if pending != nil {
		result.DiscountApplied = s.applyCoupon(ctx, order, pending, discount)
	}

	if err := s.carts.Clear(ctx, input.CartKey); err != nil {
		logger.Get().Warn("Failed to clear cart after checkout",
			zap.String("cart_key", input.CartKey),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}

	if input.UserID != "" {
		result.EarnedCoupon = s.issueReward(ctx, input.UserID, order)
	}

	return result, nil
}

// pendingDiscount validates the applied coupon and computes the discount it
// would grant. Any failure here degrades to checking out without the
// coupon; it never blocks the order.
func (s *CheckoutServiceImpl) pendingDiscount(ctx context.Context, code, userID string, subtotal decimal.Decimal) (*coupondomain.Coupon, decimal.Decimal) {
	validation, err := s.coupons.Validate(ctx, code, userID)
	if err != nil {
		logger.Get().Warn("Coupon validation failed during checkout",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, decimal.Zero
	}
	if !validation.Valid {
		logger.Get().Info("Applied coupon not usable",
			zap.String("user_id", userID),
			zap.String("reason", string(validation.Reason)),
		)
		return nil, decimal.Zero
	}

	discount := decimal.Min(validation.Coupon.RemainingAmount, subtotal)
	return validation.Coupon, discount
}

// applyCoupon redeems the pending coupon against the stored order and, on
// success, writes the discount onto it. Returns whether the discount
// landed. Failures are logged, never surfaced: the order already stands.
func (s *CheckoutServiceImpl) applyCoupon(ctx context.Context, order *domain.Order, coupon *coupondomain.Coupon, discount decimal.Decimal) bool {
	redemption, err := s.coupons.Redeem(ctx, coupon, order.ID, discount)
	if err != nil {
		logger.Get().Error("Coupon redemption failed, order stands without discount",
			zap.String("order_id", order.ID),
			zap.String("coupon_id", coupon.ID),
			zap.Error(err),
		)
		return false
	}
	if !redemption.Success {
		logger.Get().Warn("Coupon redemption rejected, order stands without discount",
			zap.String("order_id", order.ID),
			zap.String("coupon_id", coupon.ID),
			zap.String("message", redemption.Message),
		)
		return false
	}

	order.ApplyDiscount(coupon.ID, discount)
	if err := s.orders.Update(ctx, order); err != nil {
		// The balance is already decremented externally; this order now
		// under-reports its discount until someone reconciles it.
		logger.Get().Error("Failed to write discount onto order after redemption",
			zap.String("order_id", order.ID),
			zap.String("coupon_id", coupon.ID),
			zap.Error(err),
		)
		return false
	}

	return true
}

// issueReward mints the tiered reward for a completed order, best effort.
func (s *CheckoutServiceImpl) issueReward(ctx context.Context, userID string, order *domain.Order) *coupondomain.Coupon {
	coupon, err := s.coupons.IssueForOrder(ctx, userID, order.Total)
	if err != nil {
		logger.Get().Warn("Failed to issue reward coupon",
			zap.String("user_id", userID),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return nil
	}
	return coupon
}

// History returns the user's orders, newest first.
func (s *CheckoutServiceImpl) History(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// GetOrder returns a single order by ID.
func (s *CheckoutServiceImpl) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus moves an order's fulfillment status (back-office only).
func (s *CheckoutServiceImpl) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("service: failed to update order: %w", err)
	}
	return order, nil
}

// UpdatePaymentStatus moves an order's payment status (back-office only).
func (s *CheckoutServiceImpl) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidPaymentStatus
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = status
	order.UpdatedAt = time.Now()

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("service: failed to update order: %w", err)
	}
	return order, nil
}

func snapshotItems(items []cartdomain.LineItem) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
			Brand:     item.Brand,
		})
	}
	return snapshot
}
