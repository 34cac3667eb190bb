package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

func mustItem(t *testing.T, productID int64, quantity int, price string) *domain.OrderItem {
	t.Helper()
	it, err := domain.NewOrderItem(productID, quantity, decimal.RequireFromString(price))
	require.NoError(t, err)
	return it
}

func TestNewOrderStartsEmptyAndPending(t *testing.T) {
	o := domain.NewOrder(7)

	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, int64(7), o.CustomerID)
	assert.Empty(t, o.Items)
	assert.True(t, o.Subtotal.IsZero())
	assert.True(t, o.TotalAmount.IsZero())
	assert.False(t, o.CreatedAt.IsZero())
}

func TestOrderTotalsScenario(t *testing.T) {
	o := domain.NewOrder(1)
	o.AddItem(mustItem(t, 10, 2, "10.00"))
	o.AddItem(mustItem(t, 11, 3, "5.50"))

	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("36.50")),
		"subtotal = %s", o.Subtotal)

	o.SetTaxAmount(decimal.RequireFromString("3.65"))
	o.SetDiscountAmount(decimal.RequireFromString("5.00"))

	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("35.15")),
		"total = %s", o.TotalAmount)
}

func TestSubtotalTracksEveryItemMutation(t *testing.T) {
	o := domain.NewOrder(1)
	a := mustItem(t, 1, 2, "3.33")
	b := mustItem(t, 2, 1, "7.25")
	c := mustItem(t, 1, 4, "3.33") // same product twice stays distinct

	sum := func() decimal.Decimal {
		s := decimal.Zero
		for _, it := range o.Items {
			s = s.Add(it.LineTotal)
		}
		return s
	}

	for _, it := range []*domain.OrderItem{a, b, c} {
		o.AddItem(it)
		assert.True(t, o.Subtotal.Equal(sum()))
	}
	assert.Len(t, o.Items, 3)

	o.RemoveItem(b)
	assert.True(t, o.Subtotal.Equal(sum()))
	assert.Len(t, o.Items, 2)

	// Removing an absent item is a no-op.
	o.RemoveItem(b)
	assert.Len(t, o.Items, 2)
	assert.True(t, o.Subtotal.Equal(sum()))

	o.RemoveItem(a)
	o.RemoveItem(c)
	assert.True(t, o.Subtotal.IsZero())
	assert.True(t, o.TotalAmount.Equal(o.TaxAmount.Sub(o.DiscountAmount)))
}

func TestRecalculateTotalsIsIdempotent(t *testing.T) {
	o := domain.NewOrder(1)
	o.AddItem(mustItem(t, 1, 3, "9.99"))
	o.SetDiscountAmount(decimal.RequireFromString("2.50"))
	o.SetTaxAmount(decimal.RequireFromString("1.75"))

	total := o.TotalAmount
	subtotal := o.Subtotal

	o.RecalculateTotals()
	o.RecalculateTotals()

	assert.True(t, o.TotalAmount.Equal(total))
	assert.True(t, o.Subtotal.Equal(subtotal))
}

func TestSetItemsReplacesCollection(t *testing.T) {
	o := domain.NewOrder(1)
	o.AddItem(mustItem(t, 1, 1, "100.00"))

	o.SetItems([]*domain.OrderItem{
		mustItem(t, 2, 2, "4.00"),
		mustItem(t, 3, 1, "6.00"),
	})

	assert.Len(t, o.Items, 2)
	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("14.00")))
}

func TestTotalItemCountSumsQuantities(t *testing.T) {
	o := domain.NewOrder(1)
	o.AddItem(mustItem(t, 1, 2, "1.00"))
	o.AddItem(mustItem(t, 2, 3, "1.00"))
	o.AddItem(mustItem(t, 3, 1, "1.00"))

	assert.Equal(t, 6, o.TotalItemCount())
}

func TestCancelAllowedFromPendingAndConfirmed(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderPending, domain.OrderConfirmed} {
		t.Run(string(status), func(t *testing.T) {
			o := domain.NewOrder(1)
			o.SetStatus(status)

			require.True(t, o.CanBeCancelled())
			require.NoError(t, o.Cancel())
			assert.Equal(t, domain.OrderCancelled, o.Status)
		})
	}
}

func TestCancelRejectedFromOtherStatuses(t *testing.T) {
	statuses := []domain.OrderStatus{
		domain.OrderProcessing,
		domain.OrderShipped,
		domain.OrderDelivered,
		domain.OrderCancelled,
		domain.OrderRefunded,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			o := domain.NewOrder(1)
			o.SetStatus(status)

			err := o.Cancel()
			require.Error(t, err)

			var transErr *domain.InvalidTransitionError
			require.ErrorAs(t, err, &transErr)
			assert.Equal(t, string(status), transErr.Status)
			assert.Equal(t, status, o.Status, "status must be unchanged after a failed cancel")
		})
	}
}

func TestIsCompletedOnlyWhenDelivered(t *testing.T) {
	o := domain.NewOrder(1)
	assert.False(t, o.IsCompleted())

	o.SetStatus(domain.OrderDelivered)
	assert.True(t, o.IsCompleted())

	o.SetStatus(domain.OrderShipped)
	assert.False(t, o.IsCompleted())
}

func TestMutationsTouchUpdatedAt(t *testing.T) {
	o := domain.NewOrder(1)
	before := o.UpdatedAt

	o.AddItem(mustItem(t, 1, 1, "2.00"))
	assert.False(t, o.UpdatedAt.Before(before))

	before = o.UpdatedAt
	o.SetNotes("gift wrap")
	assert.False(t, o.UpdatedAt.Before(before))
}
