package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeAlphabet is the fixed 32-character set coupon codes are drawn from.
// Visually ambiguous characters (0/O, 1/I/L) are excluded so codes survive
// being read aloud or copied by hand.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultCodeLength is the standard coupon code length.
const DefaultCodeLength = 8

// ValidityDays is how long a coupon stays redeemable after issuance.
const ValidityDays = 30

// ErrCodeTaken is returned by the repository when a generated code collides
// with an existing one.
var ErrCodeTaken = errors.New("coupon code already exists")

// Coupon is a store-credit reward earned from a qualifying order.
type Coupon struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	OwnerUserID string          `json:"owner_user_id"`
	// Amount is the original value of the coupon.
	Amount decimal.Decimal `json:"amount"`
	// RemainingAmount is the unredeemed balance, always <= Amount.
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
	IsUsed          bool            `json:"is_used"`
	UsedAt          *time.Time      `json:"used_at,omitempty"`
	OrderIDUsed     string          `json:"order_id_used,omitempty"`
}

// NewCoupon creates a coupon for the given owner with a full balance and a
// 30-day validity window.
func NewCoupon(ownerUserID string, amount decimal.Decimal, code string) *Coupon {
	now := time.Now()
	return &Coupon{
		ID:              uuid.NewString(),
		Code:            code,
		OwnerUserID:     ownerUserID,
		Amount:          amount,
		RemainingAmount: amount,
		CreatedAt:       now,
		ExpiresAt:       now.AddDate(0, 0, ValidityDays),
	}
}

// RewardTierFor maps an order total to the reward value it earns, in the
// store's base currency. Zero means no reward; callers must not issue a
// coupon in that case.
func RewardTierFor(orderTotal decimal.Decimal) decimal.Decimal {
	switch {
	case orderTotal.GreaterThanOrEqual(decimal.NewFromInt(500)):
		return decimal.NewFromInt(30)
	case orderTotal.GreaterThanOrEqual(decimal.NewFromInt(300)):
		return decimal.NewFromInt(20)
	case orderTotal.GreaterThanOrEqual(decimal.NewFromInt(120)):
		return decimal.NewFromInt(10)
	default:
		return decimal.Zero
	}
}

// GenerateCode uniformly samples length characters from CodeAlphabet.
// It does not check uniqueness against existing codes; that is the
// repository's concern at insert time.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	code := make([]byte, length)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = CodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// ValidationReason explains why a coupon cannot be applied.
type ValidationReason string

const (
	ReasonNotFound    ValidationReason = "not_found"
	ReasonNotOwned    ValidationReason = "not_owned"
	ReasonAlreadyUsed ValidationReason = "already_used"
	ReasonExpired     ValidationReason = "expired"
	ReasonZeroBalance ValidationReason = "zero_balance"
)

// Validation is the outcome of checking a submitted code for a user.
// Found and Owned are reported independently so an authorization failure is
// never conflated with a missing code.
type Validation struct {
	Valid  bool             `json:"valid"`
	Found  bool             `json:"found"`
	Owned  bool             `json:"owned"`
	Reason ValidationReason `json:"reason,omitempty"`
	Coupon *Coupon          `json:"coupon,omitempty"`
}

// RedemptionResult is the response of the external atomic decrement
// operation. This service never computes it locally.
type RedemptionResult struct {
	Success          bool            `json:"success"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Message          string          `json:"message,omitempty"`
}
