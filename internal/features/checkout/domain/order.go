package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment state of an order. It starts at
// pending and is only moved by the back-office.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Valid reports whether the payment status is one of the known values.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

var (
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	// Shipping validation errors, one per required field. Fields are checked
	// in a fixed order and the first missing one wins.
	ErrMissingName        = errors.New("name is required")
	ErrMissingPhone       = errors.New("phone is required")
	ErrMissingAddress     = errors.New("address is required")
	ErrMissingGovernorate = errors.New("governorate is required")
	ErrMissingDelegation  = errors.New("delegation is required")
)

// OrderItem is a frozen copy of a cart line item. Orders never reference
// live cart data; later cart edits must not change past orders.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`
	Brand     string          `json:"brand,omitempty"`
}

// ShippingAddress is where the order ships to.
type ShippingAddress struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address"`
	Governorate string `json:"governorate"`
	Delegation  string `json:"delegation"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

// Validate checks the required fields in a fixed order: name, phone,
// address, governorate, delegation. The first missing field determines the
// single error returned.
func (a ShippingAddress) Validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return ErrMissingName
	case strings.TrimSpace(a.Phone) == "":
		return ErrMissingPhone
	case strings.TrimSpace(a.Address) == "":
		return ErrMissingAddress
	case strings.TrimSpace(a.Governorate) == "":
		return ErrMissingGovernorate
	case strings.TrimSpace(a.Delegation) == "":
		return ErrMissingDelegation
	}
	return nil
}

// Order is one checkout submission. Subtotal and totals are fixed at
// creation time from the cart snapshot and only change through
// ApplyDiscount; fulfillment fields are mutated by the back-office.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	// UserID is empty for guest orders.
	UserID          string          `json:"user_id,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	CouponID        string          `json:"coupon_id,omitempty"`
	CouponDiscount  decimal.Decimal `json:"coupon_discount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewOrder creates a pending order from an item snapshot. The total starts
// at the subtotal; any coupon discount is applied in a later write, after
// the external redemption succeeds.
func NewOrder(userID string, items []OrderItem, address ShippingAddress, subtotal decimal.Decimal) *Order {
	now := time.Now()
	return &Order{
		ID:              uuid.NewString(),
		OrderNumber:     NewOrderNumber(now),
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		Subtotal:        subtotal,
		ShippingCost:    decimal.Zero,
		Total:           subtotal,
		CouponDiscount:  decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewOrderNumber builds a human-readable order reference.
func NewOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "ORD-" + t.Format("20060102") + "-" + suffix
}

// ApplyDiscount records the redeemed coupon on the order and lowers the
// total accordingly.
func (o *Order) ApplyDiscount(couponID string, discount decimal.Decimal) {
	o.CouponID = couponID
	o.CouponDiscount = discount
	o.Total = o.Subtotal.Sub(discount)
	o.UpdatedAt = time.Now()
}
