package handler

import (
	"errors"
	"net/http"

	"silistain-store/internal/core/logger"
	"silistain-store/internal/features/locations/ports"
	"silistain-store/internal/features/locations/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocationHandler handles HTTP requests for the delivery-location cascade.
type LocationHandler struct {
	service ports.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service ports.LocationService) *LocationHandler {
	return &LocationHandler{
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

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

func (h *LocationHandler) fail(c *fiber.Ctx, what string, err error) error {
	logger.Get().Error("Failed to resolve locations",
		zap.String("level", what),
		zap.String("ray_id", rayID(c)),
		zap.Error(err),
	)

	if errors.Is(err, service.ErrSourceUnavailable) {
		// Retryable: the reference data source is down, not this service.
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "Location data is temporarily unavailable, please retry",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal Server Error",
		RayID:   rayID(c),
	})
}

// GetGovernorates handles GET /locations/governorates.
// @Summary List governorates
// @Tags Locations
// @Produce json
// @Success 200 {array} string
// @Failure 502 {object} ErrorResponse
// @Router /locations/governorates [get]
func (h *LocationHandler) GetGovernorates(c *fiber.Ctx) error {
	governorates, err := h.service.Governorates(c.Context())
	if err != nil {
		return h.fail(c, "governorates", err)
	}
	return c.Status(http.StatusOK).JSON(governorates)
}

// GetDelegations handles GET /locations/delegations.
// @Summary List delegations of a governorate
// @Tags Locations
// @Produce json
// @Param governorate query string true "Governorate name"
// @Success 200 {array} string
// @Failure 502 {object} ErrorResponse
// @Router /locations/delegations [get]
func (h *LocationHandler) GetDelegations(c *fiber.Ctx) error {
	delegations, err := h.service.Delegations(c.Context(), c.Query("governorate"))
	if err != nil {
		return h.fail(c, "delegations", err)
	}
	return c.Status(http.StatusOK).JSON(delegations)
}

// GetCities handles GET /locations/cities.
// @Summary List cities of a governorate + delegation pair
// @Tags Locations
// @Produce json
// @Param governorate query string true "Governorate name"
// @Param delegation query string true "Delegation name"
// @Success 200 {array} domain.Municipality
// @Failure 502 {object} ErrorResponse
// @Router /locations/cities [get]
func (h *LocationHandler) GetCities(c *fiber.Ctx) error {
	cities, err := h.service.Cities(c.Context(), c.Query("governorate"), c.Query("delegation"))
	if err != nil {
		return h.fail(c, "cities", err)
	}
	return c.Status(http.StatusOK).JSON(cities)
}
