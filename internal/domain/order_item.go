package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one product-quantity-price line within an order. LineTotal
// is derived (UnitPrice × Quantity) and recomputed on every quantity or
// price change. It is never set independently.
//
// Quantity is at least 1 at all times; any mutation that would drive it to
// zero or below is rejected with ErrInvalidQuantity and leaves the item
// unchanged.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	// Product is an optional denormalized snapshot for display, attached
	// via AttachProduct. ProductID is the reference.
	Product   *Product
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	CreatedAt time.Time
}

// NewOrderItem builds a line item and computes its line total.
// Quantity must be at least 1.
func NewOrderItem(productID int64, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	it := &OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: time.Now(),
	}
	it.recalculate()
	return it, nil
}

// SetQuantity replaces the quantity. Values below 1 are rejected.
func (it *OrderItem) SetQuantity(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	it.Quantity = quantity
	it.recalculate()
	return nil
}

// IncreaseQuantity adds delta to the quantity. Delta may be negative; if
// the result would drop below 1 the item is left unchanged and
// ErrInvalidQuantity is returned.
func (it *OrderItem) IncreaseQuantity(delta int) error {
	if it.Quantity+delta < 1 {
		return ErrInvalidQuantity
	}
	it.Quantity += delta
	it.recalculate()
	return nil
}

// DecreaseQuantity subtracts delta from the quantity. Removing the whole
// quantity (or more) is rejected; remove the item from its order instead.
func (it *OrderItem) DecreaseQuantity(delta int) error {
	if delta >= it.Quantity {
		return ErrInvalidQuantity
	}
	it.Quantity -= delta
	it.recalculate()
	return nil
}

// SetUnitPrice replaces the unit price and recomputes the line total.
func (it *OrderItem) SetUnitPrice(price decimal.Decimal) {
	it.UnitPrice = price
	it.recalculate()
}

// AttachProduct attaches a product snapshot and copies its current price
// into UnitPrice. This is price-at-attachment: later changes to the
// product's own price do not flow back into the line item.
func (it *OrderItem) AttachProduct(p *Product) {
	it.Product = p
	if p != nil {
		it.ProductID = p.ID
		it.UnitPrice = p.Price
		it.recalculate()
	}
}

func (it *OrderItem) recalculate() {
	it.LineTotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
