package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price and CostPrice are decimal amounts;
// stock levels are plain integers maintained through the stock helpers so
// stock can never go negative.
type Product struct {
	ID          int64
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
	StockQty    int
	MinStockQty int
	CategoryID  int64
	// Category is an optional denormalized snapshot for display.
	Category  *Category
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Active    bool
}

// NewProduct returns an active product with audit timestamps set.
func NewProduct(name, sku string, price decimal.Decimal, stockQty int, categoryID int64) *Product {
	now := time.Now()
	return &Product{
		Name:       name,
		SKU:        sku,
		Price:      price,
		CostPrice:  decimal.Zero,
		StockQty:   stockQty,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
		Active:     true,
	}
}

// IsInStock reports whether any units are on hand.
func (p *Product) IsInStock() bool {
	return p.StockQty > 0
}

// IsLowStock reports whether the stock has fallen to or below the minimum
// level that should trigger a reorder.
func (p *Product) IsLowStock() bool {
	return p.StockQty <= p.MinStockQty
}

// ProfitMargin is Price − CostPrice.
func (p *Product) ProfitMargin() decimal.Decimal {
	return p.Price.Sub(p.CostPrice)
}

// ReduceStock removes quantity units from stock. Taking more than is on
// hand is rejected with ErrInsufficientStock.
func (p *Product) ReduceStock(quantity int) error {
	if quantity > p.StockQty {
		return ErrInsufficientStock
	}
	p.StockQty -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// AddStock returns quantity units to stock.
func (p *Product) AddStock(quantity int) {
	p.StockQty += quantity
	p.UpdatedAt = time.Now()
}
