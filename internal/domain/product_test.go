package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

func TestProductStockHelpers(t *testing.T) {
	p := domain.NewProduct("Beans", "BEAN-01", decimal.RequireFromString("8.50"), 10, 1)
	p.MinStockQty = 3

	assert.True(t, p.IsInStock())
	assert.False(t, p.IsLowStock())

	require.NoError(t, p.ReduceStock(7))
	assert.Equal(t, 3, p.StockQty)
	assert.True(t, p.IsLowStock())

	err := p.ReduceStock(4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, p.StockQty)

	p.AddStock(5)
	assert.Equal(t, 8, p.StockQty)
}

func TestProductProfitMargin(t *testing.T) {
	p := domain.NewProduct("Beans", "BEAN-01", decimal.RequireFromString("8.50"), 10, 1)
	p.CostPrice = decimal.RequireFromString("5.00")

	assert.True(t, p.ProfitMargin().Equal(decimal.RequireFromString("3.50")))
}
