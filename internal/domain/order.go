// Package domain holds the retail entities and the business rules they
// enforce. The Order aggregate is the heart of it: an order owns its line
// items exclusively, and its monetary totals are derived state that is
// recomputed synchronously on every mutation, so callers never observe a
// stale subtotal or total.
//
// All money fields use decimal arithmetic (shopspring/decimal), never
// binary floating point. Amounts are kept exact internally and rounded
// half-up to 2 fractional digits at the persistence/display boundary.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// Order is the aggregate root for a customer order. It owns Items: line
// items have no identity or lifecycle outside their order, and deleting an
// order deletes its items with it.
//
// Subtotal is always the sum of the items' line totals, and TotalAmount is
// always Subtotal − DiscountAmount + TaxAmount. Mutate items, tax and
// discount through the methods below to keep those invariants; Status is
// deliberately a plain field so service-level workflows (e.g. admin
// overrides) can move an order anywhere; Cancel is the only transition
// the aggregate itself guards.
type Order struct {
	ID         int64
	CustomerID int64
	// Customer is an optional denormalized snapshot loaded by the caller
	// for display. Never written back; CustomerID is the reference.
	Customer       *Customer
	OrderDate      time.Time
	Status         OrderStatus
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []*OrderItem
}

// NewOrder returns an empty PENDING order for the given customer with all
// amounts zero.
func NewOrder(customerID int64) *Order {
	now := time.Now()
	return &Order{
		CustomerID:     customerID,
		OrderDate:      now,
		Status:         OrderPending,
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddItem appends item to the order and recomputes totals. Two items for
// the same product are allowed and stay distinct entries.
func (o *Order) AddItem(item *OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.RecalculateTotals()
	o.touch()
}

// RemoveItem removes the first entry that is item (pointer identity) and
// recomputes totals. Removing an item that is not present is a no-op.
func (o *Order) RemoveItem(item *OrderItem) {
	for i, it := range o.Items {
		if it == item {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotals()
			o.touch()
			return
		}
	}
}

// SetItems replaces the whole line item collection, typically when
// rehydrating an order from storage, and recomputes totals.
func (o *Order) SetItems(items []*OrderItem) {
	o.Items = items
	o.RecalculateTotals()
	o.touch()
}

// SetTaxAmount updates the tax amount and recomputes the total.
func (o *Order) SetTaxAmount(amount decimal.Decimal) {
	o.TaxAmount = amount
	o.RecalculateTotals()
	o.touch()
}

// SetDiscountAmount updates the discount amount and recomputes the total.
func (o *Order) SetDiscountAmount(amount decimal.Decimal) {
	o.DiscountAmount = amount
	o.RecalculateTotals()
	o.touch()
}

// SetStatus moves the order to status unconditionally. See the type doc:
// only Cancel is guarded.
func (o *Order) SetStatus(status OrderStatus) {
	o.Status = status
	o.touch()
}

// SetNotes replaces the free-form notes.
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.touch()
}

// SetCustomer attaches a denormalized customer snapshot and aligns
// CustomerID with it.
func (o *Order) SetCustomer(c *Customer) {
	o.Customer = c
	if c != nil {
		o.CustomerID = c.ID
	}
	o.touch()
}

// RecalculateTotals rederives Subtotal and TotalAmount from the current
// items, discount and tax. Idempotent: with no intervening mutation a
// second call yields identical amounts.
func (o *Order) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount)
}

// TotalItemCount is the sum of quantities across all items, not the number
// of distinct lines.
func (o *Order) TotalItemCount() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// CanBeCancelled reports whether Cancel would succeed right now.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

// IsCompleted reports whether the order reached its terminal success state.
func (o *Order) IsCompleted() bool {
	return o.Status == OrderDelivered
}

// Cancel moves the order to CANCELLED. It succeeds only from PENDING or
// CONFIRMED; from any other status it returns an InvalidTransitionError
// carrying the current status and leaves the order untouched.
func (o *Order) Cancel() error {
	if !o.CanBeCancelled() {
		return &InvalidTransitionError{Op: "cancel order", Status: string(o.Status)}
	}
	o.Status = OrderCancelled
	o.touch()
	return nil
}

// touch records the mutation time. Every mutating method calls it exactly
// once, at the end.
func (o *Order) touch() {
	o.UpdatedAt = time.Now()
}
