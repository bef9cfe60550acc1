package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"silistain-store/internal/core/config"
	"silistain-store/internal/core/httpclient"
	"silistain-store/internal/features/coupons/domain"

	"github.com/shopspring/decimal"
)

// RedemptionHTTPAdapter implements ports.CouponRedeemer against the hosted
// backend's atomic use_coupon procedure. The procedure verifies the balance,
// decrements it, and flags the coupon used once the balance reaches zero;
// this adapter only carries the call and its result.
type RedemptionHTTPAdapter struct {
	// client is the HTTP client used for the RPC call.
	client *http.Client
	// config holds the backend endpoint and credentials.
	config config.BackendConfig
}

// NewRedemptionHTTPAdapter creates a new RedemptionHTTPAdapter.
func NewRedemptionHTTPAdapter(cfg config.BackendConfig) *RedemptionHTTPAdapter {
	return &RedemptionHTTPAdapter{
		client: httpclient.NewClient(10 * time.Second),
		config: cfg,
	}
}

type redeemRequest struct {
	CouponID string          `json:"coupon_id"`
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type redeemResponse struct {
	Success          bool            `json:"success"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Message          string          `json:"message"`
}

// Redeem invokes the use_coupon procedure and maps its result.
func (a *RedemptionHTTPAdapter) Redeem(ctx context.Context, couponID, orderID string, amount decimal.Decimal) (*domain.RedemptionResult, error) {
	payload, err := json.Marshal(redeemRequest{
		CouponID: couponID,
		OrderID:  orderID,
		Amount:   amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.config.RPCURL + "/use_coupon"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.ServiceKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("use_coupon returned status: %d", resp.StatusCode)
	}

	var out redeemResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.RedemptionResult{
		Success:          out.Success,
		RemainingBalance: out.RemainingBalance,
		Message:          out.Message,
	}, nil
}
