package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-manager/internal/domain"
	"github.com/jcmexdev/retail-manager/internal/httpx"
	"github.com/jcmexdev/retail-manager/internal/store/sqlite"
)

// newTestRouter builds the full router over an in-memory database seeded
// with one category, one customer and two products (ids 1 and 2).
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctx := context.Background()
	require.NoError(t, db.Categories.Save(ctx, domain.NewCategory("Drinks", "")))
	require.NoError(t, db.Customers.Save(ctx, domain.NewCustomer("Ada", "Lovelace", "ada@example.com")))
	require.NoError(t, db.Products.Save(ctx,
		domain.NewProduct("Espresso", "ESP-01", decimal.RequireFromString("10.00"), 100, 1)))
	require.NoError(t, db.Products.Save(ctx,
		domain.NewProduct("Latte", "LAT-01", decimal.RequireFromString("12.00"), 100, 1)))

	h := httpx.NewHandler(db.Orders, db.Products, db.Customers, db.Categories, db.Payments, nil)
	return httpx.NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createOrder(t *testing.T, router http.Handler) httpx.OrderResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/orders", httpx.CreateOrderRequest{
		CustomerID:     1,
		TaxAmount:      "3.65",
		DiscountAmount: "5.00",
		Items: []httpx.OrderItemRequest{
			{ProductID: 1, Quantity: 2, UnitPrice: "10.00"},
			{ProductID: 2, Quantity: 3, UnitPrice: "5.50"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpx.OrderResponse](t, rec)
}

func TestCreateOrderComputesTotals(t *testing.T) {
	router := newTestRouter(t)

	order := createOrder(t, router)
	assert.NotZero(t, order.ID)
	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, "36.50", order.Subtotal)
	assert.Equal(t, "35.15", order.TotalAmount)
	assert.Equal(t, 5, order.TotalItemCount)
	assert.True(t, order.CanBeCancelled)
}

func TestCreateOrderUsesCatalogPriceWhenOmitted(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/orders", httpx.CreateOrderRequest{
		CustomerID: 1,
		Items: []httpx.OrderItemRequest{
			{ProductID: 2, Quantity: 4}, // Latte, 12.00 in the catalog
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decode[httpx.OrderResponse](t, rec)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "12.00", order.Items[0].UnitPrice)
	assert.Equal(t, "48.00", order.Items[0].LineTotal)
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/orders", httpx.CreateOrderRequest{
		CustomerID: 1,
		Items:      []httpx.OrderItemRequest{{ProductID: 1, Quantity: 0, UnitPrice: "10.00"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quantity", decode[httpx.ErrorResponse](t, rec).Error)
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrderFlow(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodPost, "/orders/1/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CANCELLED", decode[httpx.OrderResponse](t, rec).Status)

	// A cancelled order cannot be cancelled again.
	rec = doJSON(t, router, http.MethodPost, "/orders/1/cancel", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[httpx.ErrorResponse](t, rec)
	assert.Equal(t, "invalid_state_transition", resp.Error)
	assert.Contains(t, resp.Message, "CANCELLED")
}

func TestCancelShippedOrderRejected(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodPatch, "/orders/1/status",
		httpx.UpdateStatusRequest{Status: "SHIPPED"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders/1/cancel", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[httpx.ErrorResponse](t, rec).Message, "SHIPPED")

	// Status is unchanged after the failed cancel.
	rec = doJSON(t, router, http.MethodGet, "/orders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SHIPPED", decode[httpx.OrderResponse](t, rec).Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodPatch, "/orders/1/status",
		httpx.UpdateStatusRequest{Status: "TELEPORTED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplaceOrderItems(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodPut, "/orders/1/items", httpx.ReplaceItemsRequest{
		Items: []httpx.OrderItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: "10.00"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	order := decode[httpx.OrderResponse](t, rec)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "10.00", order.Subtotal)
	// Tax and discount survive an item replacement: 10.00 − 5.00 + 3.65.
	assert.Equal(t, "8.65", order.TotalAmount)
}

func TestDeleteOrder(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/orders/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersByStatus(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodPatch, "/orders/2/status",
		httpx.UpdateStatusRequest{Status: "CONFIRMED"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/orders?status=CONFIRMED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]httpx.OrderResponse](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2), orders[0].ID)
}

func TestPaymentLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	// Charge the order total by default.
	rec := doJSON(t, router, http.MethodPost, "/orders/1/payments",
		httpx.CreatePaymentRequest{Method: "CREDIT_CARD"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	payment := decode[httpx.PaymentResponse](t, rec)
	assert.Equal(t, "PENDING", payment.Status)
	assert.Equal(t, "35.15", payment.Amount)
	assert.NotEmpty(t, payment.Reference)

	// Refunding before completion is a state error.
	rec = doJSON(t, router, http.MethodPost, "/payments/1/refund",
		httpx.RefundPaymentRequest{Amount: "35.15"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/payments/1/complete",
		httpx.CompletePaymentRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	payment = decode[httpx.PaymentResponse](t, rec)
	assert.Equal(t, "COMPLETED", payment.Status)
	assert.NotEmpty(t, payment.TransactionID)

	// Over-refund rejected.
	rec = doJSON(t, router, http.MethodPost, "/payments/1/refund",
		httpx.RefundPaymentRequest{Amount: "99.00"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_refund_amount", decode[httpx.ErrorResponse](t, rec).Error)

	// Partial refund.
	rec = doJSON(t, router, http.MethodPost, "/payments/1/refund",
		httpx.RefundPaymentRequest{Amount: "10.00"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PARTIAL_REFUND", decode[httpx.PaymentResponse](t, rec).Status)

	rec = doJSON(t, router, http.MethodGet, "/orders/1/payments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpx.PaymentResponse](t, rec), 1)
}

func TestPaymentUnknownMethodRejected(t *testing.T) {
	router := newTestRouter(t)
	createOrder(t, router)

	rec := doJSON(t, router, http.MethodPost, "/orders/1/payments",
		httpx.CreatePaymentRequest{Method: "BARTER"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/products", httpx.ProductRequest{
		Name:       "Mocha",
		SKU:        "MOC-01",
		Price:      "11.25",
		StockQty:   4,
		CategoryID: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[httpx.ProductResponse](t, rec)
	assert.Equal(t, "11.25", created.Price)

	rec = doJSON(t, router, http.MethodGet, "/products/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/products/3/stock",
		httpx.UpdateStockRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[httpx.ProductResponse](t, rec).InStock)

	rec = doJSON(t, router, http.MethodGet, "/products/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	low := decode[[]httpx.ProductResponse](t, rec)
	require.Len(t, low, 1)
	assert.Equal(t, "MOC-01", low[0].SKU)

	rec = doJSON(t, router, http.MethodDelete, "/products/3", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpx.ProductResponse](t, rec), 2)
}

func TestCustomerEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customers", httpx.CustomerRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		City:      "Arlington",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[httpx.CustomerResponse](t, rec)
	assert.Equal(t, "Grace Hopper", created.FullName)

	rec = doJSON(t, router, http.MethodGet, "/customers?search=hopp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpx.CustomerResponse](t, rec), 1)

	rec = doJSON(t, router, http.MethodDelete, "/customers/2", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpx.CustomerResponse](t, rec), 1)
}

func TestCategoryEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/categories",
		httpx.CategoryRequest{Name: "Snacks"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]httpx.CategoryResponse](t, rec), 2)

	rec = doJSON(t, router, http.MethodDelete, "/categories/2", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
