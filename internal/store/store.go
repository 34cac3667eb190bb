// Package store defines the persistence ports for the retail domain.
// The HTTP layer depends on these interfaces, not on SQLite directly,
// so the implementation can be swapped (in-memory for tests, Postgres
// later) without touching the handlers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// OrderStore persists orders together with their line items. Save writes
// the order row and all item rows in one transaction: an order's totals
// are meaningless without matching items, so the pair is all-or-nothing.
type OrderStore interface {
	// Save inserts the order when ID is zero, otherwise updates it.
	// The order's items are replaced wholesale in the same transaction
	// and the generated IDs are written back into the aggregate.
	Save(ctx context.Context, order *domain.Order) error
	// GetByID loads the order and rehydrates its line items.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	// Delete removes the order; its line items go with it (cascade).
	Delete(ctx context.Context, id int64) error
}

// ProductStore persists catalog products.
type ProductStore interface {
	Save(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	ListLowStock(ctx context.Context) ([]*domain.Product, error)
	SearchByName(ctx context.Context, term string) ([]*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
	// Deactivate soft-deletes: the product stays referencable by old
	// orders but drops out of the active catalog.
	Deactivate(ctx context.Context, id int64) error
}

// CustomerStore persists customer records.
type CustomerStore interface {
	Save(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	ListActive(ctx context.Context) ([]*domain.Customer, error)
	SearchByName(ctx context.Context, term string) ([]*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

// CategoryStore persists product categories.
type CategoryStore interface {
	Save(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListActive(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentStore persists payments taken against orders.
type PaymentStore interface {
	Save(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	List(ctx context.Context) ([]*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
	// OrderHasPayments reports whether any payment rows reference the order.
	OrderHasPayments(ctx context.Context, orderID int64) (bool, error)
}
