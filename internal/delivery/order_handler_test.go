package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type mockOrderUseCase struct {
	order  *domain.Order
	orders []domain.Order
	err    error

	paidOrderID   int64
	paidByUserID  int64
	updatedStatus domain.OrderStatus
}

func (m *mockOrderUseCase) Checkout(_ context.Context, _ int64) (*domain.Order, error) {
	return m.order, m.err
}

func (m *mockOrderUseCase) PayOrder(_ context.Context, userID, orderID int64) (*domain.Order, error) {
	m.paidByUserID = userID
	m.paidOrderID = orderID
	return m.order, m.err
}

func (m *mockOrderUseCase) UpdateStatus(_ context.Context, _ int64, status domain.OrderStatus) (*domain.Order, error) {
	m.updatedStatus = status
	return m.order, m.err
}

func (m *mockOrderUseCase) ListMyOrders(_ int64) ([]domain.Order, error) {
	return m.orders, m.err
}

func (m *mockOrderUseCase) ListAllOrders() ([]domain.Order, error) {
	return m.orders, m.err
}

// stubIdentity plays the role of the auth middleware so handler tests
// exercise only the handler.
func stubIdentity(userID int64, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserIDKey, userID)
		c.Set(ctxRoleKey, role)
		c.Next()
	}
}

func orderTestRouter(uc domain.OrderUseCase, userID int64, role domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewOrderHandler(uc, testLogger())
	api := router.Group("/api")
	handler.RegisterRoutes(api, stubIdentity(userID, role), RequireAdmin(testLogger()))
	return router
}

func TestCheckoutEndpoint_Success(t *testing.T) {
	uc := &mockOrderUseCase{
		order: &domain.Order{
			ID:     1,
			UserID: 7,
			Total:  decimal.RequireFromString("25.50"),
			Status: domain.StatusPending,
			Items:  []domain.OrderItem{{ID: 1, ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("10.00")}},
		},
	}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body SuccessBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Order placed successfully", body.Message)
}

func TestCheckoutEndpoint_EmptyCart(t *testing.T) {
	uc := &mockOrderUseCase{err: domain.ErrEmptyCart}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"cart is empty"}`, w.Body.String())
}

func TestCheckoutEndpoint_InsufficientStockNamesProduct(t *testing.T) {
	uc := &mockOrderUseCase{err: &domain.InsufficientStockError{ProductName: "Laptop"}}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Laptop")
}

func TestCheckoutEndpoint_StorageFailureIsOpaque(t *testing.T) {
	uc := &mockOrderUseCase{err: errors.New("pq: connection refused")}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestPayEndpoint_PassesCallerAndOrder(t *testing.T) {
	uc := &mockOrderUseCase{
		order: &domain.Order{ID: 5, UserID: 7, Status: domain.StatusPaid},
	}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/5/pay", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), uc.paidByUserID)
	assert.Equal(t, int64(5), uc.paidOrderID)
}

func TestPayEndpoint_InvalidTransitionCitesStatus(t *testing.T) {
	uc := &mockOrderUseCase{err: &domain.InvalidTransitionError{Current: domain.StatusPaid}}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/5/pay", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PAID")
}

func TestPayEndpoint_ForeignOrderForbidden(t *testing.T) {
	uc := &mockOrderUseCase{err: domain.ErrForbidden}
	router := orderTestRouter(uc, 8, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/5/pay", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAllOrdersEndpoint_CustomerForbidden(t *testing.T) {
	uc := &mockOrderUseCase{}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/all", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateStatusEndpoint_AdminOnly(t *testing.T) {
	uc := &mockOrderUseCase{}
	router := orderTestRouter(uc, 7, domain.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/5/status", strings.NewReader(`{"status":"SHIPPED"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, uc.updatedStatus)
}

func TestUpdateStatusEndpoint_Admin(t *testing.T) {
	uc := &mockOrderUseCase{
		order: &domain.Order{ID: 5, UserID: 7, Status: domain.StatusShipped},
	}
	router := orderTestRouter(uc, 1, domain.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/5/status", strings.NewReader(`{"status":"SHIPPED"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusShipped, uc.updatedStatus)
}

func TestUpdateStatusEndpoint_BadStatusValue(t *testing.T) {
	uc := &mockOrderUseCase{err: &domain.ValidationError{Message: "invalid order status: SHIPPING"}}
	router := orderTestRouter(uc, 1, domain.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/5/status", strings.NewReader(`{"status":"SHIPPING"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
