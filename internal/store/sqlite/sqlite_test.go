package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-manager/internal/domain"
	"github.com/jcmexdev/retail-manager/internal/store"
)

// setupDB opens an in-memory database seeded with one category, one
// customer and two products.
func setupDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctx := context.Background()

	cat := domain.NewCategory("Drinks", "Hot and cold drinks")
	require.NoError(t, db.Categories.Save(ctx, cat))

	cust := domain.NewCustomer("Ada", "Lovelace", "ada@example.com")
	require.NoError(t, db.Customers.Save(ctx, cust))

	espresso := domain.NewProduct("Espresso", "ESP-01", decimal.RequireFromString("10.00"), 100, cat.ID)
	require.NoError(t, db.Products.Save(ctx, espresso))

	latte := domain.NewProduct("Latte", "LAT-01", decimal.RequireFromString("5.50"), 100, cat.ID)
	require.NoError(t, db.Products.Save(ctx, latte))

	return db
}

func itemRowCount(t *testing.T, db *DB, orderID int64) int {
	t.Helper()
	var n int
	err := db.db.QueryRow(
		`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, orderID).Scan(&n)
	require.NoError(t, err)
	return n
}

func buildOrder(t *testing.T, customerID int64) *domain.Order {
	t.Helper()
	o := domain.NewOrder(customerID)

	first, err := domain.NewOrderItem(1, 2, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	second, err := domain.NewOrderItem(2, 3, decimal.RequireFromString("5.50"))
	require.NoError(t, err)

	o.AddItem(first)
	o.AddItem(second)
	o.SetTaxAmount(decimal.RequireFromString("3.65"))
	o.SetDiscountAmount(decimal.RequireFromString("5.00"))
	return o
}

func TestOrderSaveAndReload(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	o := buildOrder(t, 1)
	require.NoError(t, db.Orders.Save(ctx, o))
	require.NotZero(t, o.ID)
	for _, it := range o.Items {
		assert.NotZero(t, it.ID)
		assert.Equal(t, o.ID, it.OrderID)
	}

	got, err := db.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.CustomerID, got.CustomerID)
	assert.Equal(t, domain.OrderPending, got.Status)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("36.50")))
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("35.15")))
	assert.Equal(t, 5, got.TotalItemCount())
}

func TestOrderUpdateReplacesItems(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	o := buildOrder(t, 1)
	require.NoError(t, db.Orders.Save(ctx, o))

	// Drop one line, resize the other, save again.
	o.RemoveItem(o.Items[1])
	require.NoError(t, o.Items[0].SetQuantity(5))
	o.RecalculateTotals()
	require.NoError(t, db.Orders.Save(ctx, o))

	got, err := db.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, 1, itemRowCount(t, db, o.ID))
}

func TestOrderDeleteCascadesToItems(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	o := buildOrder(t, 1)
	require.NoError(t, db.Orders.Save(ctx, o))
	require.Equal(t, 2, itemRowCount(t, db, o.ID))

	require.NoError(t, db.Orders.Delete(ctx, o.ID))

	_, err := db.Orders.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, itemRowCount(t, db, o.ID))
}

func TestOrderListsAndStatusFilter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first := buildOrder(t, 1)
	require.NoError(t, db.Orders.Save(ctx, first))

	second := buildOrder(t, 1)
	second.SetStatus(domain.OrderShipped)
	require.NoError(t, db.Orders.Save(ctx, second))

	all, err := db.Orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	shipped, err := db.Orders.ListByStatus(ctx, domain.OrderShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, second.ID, shipped[0].ID)

	byCustomer, err := db.Orders.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	require.NoError(t, db.Orders.UpdateStatus(ctx, first.ID, domain.OrderConfirmed))
	got, err := db.Orders.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, got.Status)
}

func TestOrderListByDateRange(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	old := buildOrder(t, 1)
	old.OrderDate = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Orders.Save(ctx, old))

	recent := buildOrder(t, 1)
	require.NoError(t, db.Orders.Save(ctx, recent))

	january, err := db.Orders.ListByDateRange(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, january, 1)
	assert.Equal(t, old.ID, january[0].ID)

	everything, err := db.Orders.ListByDateRange(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, everything, 2)
}

func TestOrderNotFound(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := db.Orders.GetByID(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, db.Orders.UpdateStatus(ctx, 999, domain.OrderShipped), store.ErrNotFound)
	assert.ErrorIs(t, db.Orders.Delete(ctx, 999), store.ErrNotFound)
}

func TestProductQueries(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	p, err := db.Products.GetBySKU(ctx, "ESP-01")
	require.NoError(t, err)
	assert.Equal(t, "Espresso", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("10.00")))

	found, err := db.Products.SearchByName(ctx, "spres")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	require.NoError(t, db.Products.UpdateStock(ctx, p.ID, 2))
	p, err = db.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQty)

	// min_stock_level defaults to 0; stock 2 is not low yet.
	low, err := db.Products.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	p.MinStockQty = 5
	require.NoError(t, db.Products.Save(ctx, p))
	low, err = db.Products.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, p.ID, low[0].ID)

	require.NoError(t, db.Products.Deactivate(ctx, p.ID))
	active, err := db.Products.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1) // only the latte remains active
}

func TestCustomerQueries(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	c, err := db.Customers.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c.FullName())

	c.City = "London"
	require.NoError(t, db.Customers.Save(ctx, c))

	got, err := db.Customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "London", got.City)

	found, err := db.Customers.SearchByName(ctx, "love")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, db.Customers.Deactivate(ctx, c.ID))
	active, err := db.Customers.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCategoryQueries(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	c, err := db.Categories.GetByName(ctx, "Drinks")
	require.NoError(t, err)

	all, err := db.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = db.Categories.GetByID(ctx, c.ID)
	require.NoError(t, err)

	_, err = db.Categories.GetByName(ctx, "Snacks")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPaymentRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	o := buildOrder(t, 1)
	require.NoError(t, db.Orders.Save(ctx, o))

	p := domain.NewPayment(o.ID, domain.MethodCreditCard, o.TotalAmount)
	require.NoError(t, db.Payments.Save(ctx, p))
	require.NotZero(t, p.ID)

	has, err := db.Payments.OrderHasPayments(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, has)

	p.MarkCompleted("tx-42")
	require.NoError(t, db.Payments.Save(ctx, p))

	got, err := db.Payments.GetByTransactionID(ctx, "tx-42")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("35.15")))

	byOrder, err := db.Payments.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, byOrder, 1)

	completed, err := db.Payments.ListByStatus(ctx, domain.PaymentCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}
