package handler

import (
	"net/http"

	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/cart/domain"
	"silistain-store/internal/features/cart/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service ports.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{
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

// AddItemRequest represents the request body for adding a cart item.
type AddItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	Brand     string          `json:"brand"`
}

// UpdateQuantityRequest represents the request body for a quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// IdentityKey resolves the cart scope for the request: authenticated users
// own "user:<id>" carts, everyone else gets a "guest:<id>" cart.
func IdentityKey(c *fiber.Ctx) string {
	if userID := c.Get("X-User-ID"); userID != "" {
		return "user:" + userID
	}
	if guestID := c.Get("X-Guest-ID"); guestID != "" {
		return "guest:" + guestID
	}
	return ""
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// GetCart handles GET /cart.
// @Summary Get the current cart
// @Description Returns the cart scoped to the caller's identity headers.
// @Tags Cart
// @Produce json
// @Param X-User-ID header string false "Authenticated user ID"
// @Param X-Guest-ID header string false "Guest identity"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	key := IdentityKey(c)
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	cart, err := h.service.GetCart(c.Context(), key)
	if err != nil {
		logger.Get().Error("Failed to load cart",
			zap.String("cart_key", key),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(cart)
}

// AddItem handles POST /cart/items.
// @Summary Add an item to the cart
// @Description Adds a product, accumulating quantity for an existing one.
// @Tags Cart
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Line item"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	key := IdentityKey(c)
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	if req.ProductID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "product_id is required",
			RayID:   rayID(c),
		})
	}
	if req.UnitPrice.IsNegative() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "unit_price must not be negative",
			RayID:   rayID(c),
		})
	}

	item := domain.LineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		ImageURL:  req.ImageURL,
		Brand:     req.Brand,
	}

	cart, err := h.service.AddItem(c.Context(), key, item, req.Quantity)
	if err != nil {
		logger.Get().Error("Failed to add cart item",
			zap.String("cart_key", key),
			zap.String("product_id", req.ProductID),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(cart)
}

// UpdateQuantity handles PUT /cart/items/:productId.
// @Summary Update a line item quantity
// @Description A quantity below 1 removes the item from the cart.
// @Tags Cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param body body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} ErrorResponse
// @Router /cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	key := IdentityKey(c)
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	cart, err := h.service.SetQuantity(c.Context(), key, c.Params("productId"), req.Quantity)
	if err != nil {
		logger.Get().Error("Failed to update cart quantity",
			zap.String("cart_key", key),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(cart)
}

// RemoveItem handles DELETE /cart/items/:productId.
// @Summary Remove an item from the cart
// @Tags Cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	key := IdentityKey(c)
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	cart, err := h.service.RemoveItem(c.Context(), key, c.Params("productId"))
	if err != nil {
		logger.Get().Error("Failed to remove cart item",
			zap.String("cart_key", key),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

// ClearCart handles DELETE /cart.
// @Summary Empty the cart
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	key := IdentityKey(c)
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	if err := h.service.Clear(c.Context(), key); err != nil {
		logger.Get().Error("Failed to clear cart",
			zap.String("cart_key", key),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// GetTotals handles GET /cart/totals.
// @Summary Get the cart pricing breakdown
// @Tags Cart
// @Produce json
// @Success 200 {object} domain.Breakdown
// @Failure 400 {object} ErrorResponse
// @Router /cart/totals [get]
func (h *CartHandler) GetTotals(c *fiber.Ctx) error {
	key := IdentityKey(c)
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "X-User-ID or X-Guest-ID header is required",
			RayID:   rayID(c),
		})
	}

	breakdown, err := h.service.Totals(c.Context(), key)
	if err != nil {
		logger.Get().Error("Failed to compute cart totals",
			zap.String("cart_key", key),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(breakdown)
}
