package handler

import (
	"errors"
	"net/http"

	"silistain-store/internal/core/logger"
	carthandler "silistain-store/internal/features/cart/handler"
	"silistain-store/internal/features/checkout/domain"
	"silistain-store/internal/features/checkout/ports"
	"silistain-store/internal/features/checkout/service"
	coupondomain "silistain-store/internal/features/coupons/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutHandler handles HTTP requests for checkout and order management.
type CheckoutHandler struct {
	service ports.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// SubmitRequest represents the request body for a checkout submission.
type SubmitRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	CouponCode      string                 `json:"coupon_code"`
	UseCoupon       bool                   `json:"use_coupon"`
}

// SubmitResponse represents a successful checkout.
type SubmitResponse struct {
	Order           *domain.Order `json:"order"`
	DiscountApplied bool          `json:"discount_applied"`
	// EarnedCoupon is the reward minted for this order, if the total
	// reached a reward tier.
	EarnedCoupon *coupondomain.Coupon `json:"earned_coupon,omitempty"`
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// Submit handles POST /checkout.
// @Summary Submit an order
// @Description Creates an order from the caller's cart, redeems an applied coupon, and clears the cart.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Authenticated user ID"
// @Param X-Guest-ID header string false "Guest identity"
// @Param body body SubmitRequest true "Shipping details"
// @Success 201 {object} SubmitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	cartKey := carthandler.IdentityKey(c)
	if cartKey == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	result, err := h.service.Submit(c.Context(), ports.SubmitInput{
		UserID:     c.Get("X-User-ID"),
		CartKey:    cartKey,
		Address:    req.ShippingAddress,
		CouponCode: req.CouponCode,
		UseCoupon:  req.UseCoupon,
	})
	if err != nil {
		if isAddressError(err) {
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID(c),
			})
		}
		if errors.Is(err, service.ErrEmptyCart) {
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Message: "Cart is empty",
				RayID:   rayID(c),
			})
		}
		logger.Get().Error("Checkout failed",
			zap.String("cart_key", cartKey),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		// The raised message goes back as-is so the storefront can show
		// the customer why their submission did not go through.
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusCreated).JSON(SubmitResponse{
		Order:           result.Order,
		DiscountApplied: result.DiscountApplied,
		EarnedCoupon:    result.EarnedCoupon,
	})
}

func isAddressError(err error) bool {
	return errors.Is(err, domain.ErrMissingName) ||
		errors.Is(err, domain.ErrMissingPhone) ||
		errors.Is(err, domain.ErrMissingAddress) ||
		errors.Is(err, domain.ErrMissingGovernorate) ||
		errors.Is(err, domain.ErrMissingDelegation)
}

// GetHistory handles GET /orders.
// @Summary List the caller's orders
// @Description Returns the authenticated user's orders, newest first.
// @Tags Checkout
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Success 200 {array} domain.Order
// @Failure 401 {object} ErrorResponse
// @Router /orders [get]
func (h *CheckoutHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Sign in to view orders",
			RayID:   rayID(c),
		})
	}

	orders, err := h.service.History(c.Context(), userID)
	if err != nil {
		logger.Get().Error("Failed to list orders",
			zap.String("user_id", userID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(orders)
}

// GetOrder handles GET /orders/:id.
// @Summary Get a single order
// @Tags Checkout
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *CheckoutHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "Order not found",
				RayID:   rayID(c),
			})
		}
		logger.Get().Error("Failed to load order",
			zap.String("order_id", c.Params("id")),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(order)
}

// UpdateStatus handles PATCH /admin/orders/:id/status.
// @Summary Update an order's fulfillment status
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Back-office API key"
// @Param id path string true "Order ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (h *CheckoutHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	order, err := h.service.UpdateStatus(c.Context(), c.Params("id"), domain.OrderStatus(req.Status))
	return h.respondStatusUpdate(c, order, err)
}

// UpdatePaymentStatus handles PATCH /admin/orders/:id/payment-status.
// @Summary Update an order's payment status
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Back-office API key"
// @Param id path string true "Order ID"
// @Param body body UpdateStatusRequest true "New payment status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/orders/{id}/payment-status [patch]
func (h *CheckoutHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	order, err := h.service.UpdatePaymentStatus(c.Context(), c.Params("id"), domain.PaymentStatus(req.Status))
	return h.respondStatusUpdate(c, order, err)
}

func (h *CheckoutHandler) respondStatusUpdate(c *fiber.Ctx, order *domain.Order, err error) error {
	switch {
	case err == nil:
		return c.Status(http.StatusOK).JSON(order)
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidPaymentStatus):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	case errors.Is(err, service.ErrOrderNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: "Order not found",
			RayID:   rayID(c),
		})
	default:
		logger.Get().Error("Failed to update order",
			zap.String("order_id", c.Params("id")),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}
}
