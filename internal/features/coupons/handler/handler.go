package handler

import (
	"net/http"

	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/coupons/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CouponHandler handles HTTP requests for coupon rewards.
type CouponHandler struct {
	service ports.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service ports.CouponService) *CouponHandler {
	return &CouponHandler{
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

// ValidateRequest represents the request body for coupon validation.
type ValidateRequest struct {
	Code string `json:"code"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Message: "Sign in to use coupons",
		RayID:   rayID(c),
	})
}

// Validate handles POST /coupons/validate.
// @Summary Validate a coupon code
// @Description Checks a submitted code against the caller's coupons.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Param body body ValidateRequest true "Coupon code"
// @Success 200 {object} domain.Validation
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /coupons/validate [post]
func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return unauthorized(c)
	}

	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}
	if req.Code == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "code is required",
			RayID:   rayID(c),
		})
	}

	validation, err := h.service.Validate(c.Context(), req.Code, userID)
	if err != nil {
		logger.Get().Error("Failed to validate coupon",
			zap.String("user_id", userID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(validation)
}

// GetAvailable handles GET /coupons.
// @Summary List applicable coupons
// @Tags Coupons
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Success 200 {array} domain.Coupon
// @Failure 401 {object} ErrorResponse
// @Router /coupons [get]
func (h *CouponHandler) GetAvailable(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return unauthorized(c)
	}

	coupons, err := h.service.Available(c.Context(), userID)
	if err != nil {
		logger.Get().Error("Failed to list available coupons",
			zap.String("user_id", userID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(coupons)
}

// GetHistory handles GET /coupons/history.
// @Summary List all of the caller's coupons, newest first
// @Tags Coupons
// @Produce json
// @Param X-User-ID header string true "Authenticated user ID"
// @Success 200 {array} domain.Coupon
// @Failure 401 {object} ErrorResponse
// @Router /coupons/history [get]
func (h *CouponHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return unauthorized(c)
	}

	coupons, err := h.service.History(c.Context(), userID)
	if err != nil {
		logger.Get().Error("Failed to list coupon history",
			zap.String("user_id", userID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(coupons)
}
