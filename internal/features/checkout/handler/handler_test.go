package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"silistain-store/internal/core/server"
	"silistain-store/internal/features/checkout/domain"
	"silistain-store/internal/features/checkout/ports"
	"silistain-store/internal/features/checkout/service"
	coupondomain "silistain-store/internal/features/coupons/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of ports.CheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, input ports.SubmitInput) (*ports.SubmitResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.SubmitResult), args.Error(1)
}

func (m *MockCheckoutService) History(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockCheckoutService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCheckoutService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCheckoutService) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func setupApp(svc *MockCheckoutService) *fiber.App {
	app := fiber.New()
	h := NewCheckoutHandler(svc)
	app.Post("/checkout", h.Submit)
	app.Get("/orders", h.GetHistory)
	app.Get("/orders/:id", h.GetOrder)
	admin := app.Group("/admin", server.RequireAPIKey("test-key"))
	admin.Patch("/orders/:id/status", h.UpdateStatus)
	admin.Patch("/orders/:id/payment-status", h.UpdatePaymentStatus)
	return app
}

func submitBody(t *testing.T, req SubmitRequest) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:        "Amira Ben Salah",
		Phone:       "21612345",
		Address:     "12 Rue de Marseille",
		Governorate: "Tunis",
		Delegation:  "La Marsa",
	}
}

func TestCheckoutHandler_Submit(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		order := domain.NewOrder("user-1", []domain.OrderItem{
			{ProductID: "watch-1", UnitPrice: decimal.NewFromInt(130), Quantity: 1},
		}, validAddress(), decimal.NewFromInt(130))

		mockService.On("Submit", mock.Anything, mock.MatchedBy(func(in ports.SubmitInput) bool {
			return in.UserID == "user-1" && in.CartKey == "user:user-1" && in.UseCoupon
		})).Return(&ports.SubmitResult{
			State: ports.StateSucceeded,
			Order: order,
		}, nil).Once()

		req := httptest.NewRequest("POST", "/checkout", submitBody(t, SubmitRequest{
			ShippingAddress: validAddress(),
			CouponCode:      "ABCD2345",
			UseCoupon:       true,
		}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var out SubmitResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, order.ID, out.Order.ID)
		assert.False(t, out.DiscountApplied)
		mockService.AssertExpectations(t)
	})

	t.Run("IncludesEarnedCoupon", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		order := domain.NewOrder("user-1", nil, validAddress(), decimal.NewFromInt(600))
		earned := coupondomain.NewCoupon("user-1", decimal.NewFromInt(30), "WXYZ6789")

		mockService.On("Submit", mock.Anything, mock.Anything).Return(&ports.SubmitResult{
			State:        ports.StateSucceeded,
			Order:        order,
			EarnedCoupon: earned,
		}, nil).Once()

		req := httptest.NewRequest("POST", "/checkout", submitBody(t, SubmitRequest{
			ShippingAddress: validAddress(),
		}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		resp, err := app.Test(req)

		require.NoError(t, err)
		var out SubmitResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.NotNil(t, out.EarnedCoupon)
		assert.Equal(t, "WXYZ6789", out.EarnedCoupon.Code)
	})

	t.Run("MissingIdentity", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		req := httptest.NewRequest("POST", "/checkout", submitBody(t, SubmitRequest{
			ShippingAddress: validAddress(),
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("IncompleteAddress", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("Submit", mock.Anything, mock.Anything).
			Return(&ports.SubmitResult{State: ports.StateFailed}, domain.ErrMissingPhone).Once()

		address := validAddress()
		address.Phone = ""
		req := httptest.NewRequest("POST", "/checkout", submitBody(t, SubmitRequest{
			ShippingAddress: address,
		}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Guest-ID", "g-1")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var out ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "phone is required", out.Message)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("Submit", mock.Anything, mock.Anything).
			Return(&ports.SubmitResult{State: ports.StateFailed}, service.ErrEmptyCart).Once()

		req := httptest.NewRequest("POST", "/checkout", submitBody(t, SubmitRequest{
			ShippingAddress: validAddress(),
		}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Guest-ID", "g-1")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("Submit", mock.Anything, mock.Anything).
			Return(&ports.SubmitResult{State: ports.StateFailed}, errors.New("redis down")).Once()

		req := httptest.NewRequest("POST", "/checkout", submitBody(t, SubmitRequest{
			ShippingAddress: validAddress(),
		}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Guest-ID", "g-1")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var out ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "redis down", out.Message)
	})
}

func TestCheckoutHandler_GetHistory(t *testing.T) {
	t.Run("RequiresUser", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		resp, err := app.Test(httptest.NewRequest("GET", "/orders", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ReturnsOrders", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("History", mock.Anything, "user-1").
			Return([]domain.Order{{ID: "o-1"}, {ID: "o-2"}}, nil).Once()

		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set("X-User-ID", "user-1")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out []domain.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Len(t, out, 2)
	})
}

func TestCheckoutHandler_GetOrder(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("GetOrder", mock.Anything, "missing").
			Return(nil, service.ErrOrderNotFound).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/orders/missing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Found", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("GetOrder", mock.Anything, "o-1").
			Return(&domain.Order{ID: "o-1"}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/orders/o-1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCheckoutHandler_UpdateStatus(t *testing.T) {
	patchStatus := func(t *testing.T, app *fiber.App, apiKey, status string) *http.Response {
		t.Helper()
		body, err := json.Marshal(UpdateStatusRequest{Status: status})
		require.NoError(t, err)
		req := httptest.NewRequest("PATCH", "/admin/orders/o-1/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("RequiresAPIKey", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		resp := patchStatus(t, app, "", "shipped")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockService.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("UpdateStatus", mock.Anything, "o-1", domain.OrderStatus("teleported")).
			Return(nil, domain.ErrInvalidStatus).Once()

		resp := patchStatus(t, app, "test-key", "teleported")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MovesStatus", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		app := setupApp(mockService)

		mockService.On("UpdateStatus", mock.Anything, "o-1", domain.OrderStatusShipped).
			Return(&domain.Order{ID: "o-1", Status: domain.OrderStatusShipped}, nil).Once()

		resp := patchStatus(t, app, "test-key", "shipped")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out domain.Order
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, domain.OrderStatusShipped, out.Status)
	})
}

func TestCheckoutHandler_UpdatePaymentStatus(t *testing.T) {
	mockService := new(MockCheckoutService)
	app := setupApp(mockService)

	mockService.On("UpdatePaymentStatus", mock.Anything, "o-1", domain.PaymentStatusPaid).
		Return(&domain.Order{ID: "o-1", PaymentStatus: domain.PaymentStatusPaid}, nil).Once()

	body, err := json.Marshal(UpdateStatusRequest{Status: "paid"})
	require.NoError(t, err)
	req := httptest.NewRequest("PATCH", "/admin/orders/o-1/payment-status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "test-key")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockService.AssertExpectations(t)
}
