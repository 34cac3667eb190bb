package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/retail-manager/internal/domain"
	"github.com/jcmexdev/retail-manager/internal/store"
)

// OrderRepo is the SQLite implementation of store.OrderStore.
type OrderRepo struct {
	db *sql.DB
}

const orderColumns = `order_id, customer_id, order_date, status, subtotal,
	tax_amount, discount_amount, total_amount, notes, created_at, updated_at`

// Save persists the order and its line items atomically. A zero ID means
// insert; otherwise the order row is updated. Line items are replaced
// wholesale (delete + reinsert) inside the same transaction, mirroring how
// the aggregate treats them: owned state with no independent lifecycle.
func (r *OrderRepo) Save(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin save order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if order.ID == 0 {
		err = r.insert(ctx, tx, order)
	} else {
		err = r.update(ctx, tx, order)
	}
	if err != nil {
		return err
	}

	if err := r.saveItems(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit save order %d: %w", order.ID, err)
	}
	return nil
}

func (r *OrderRepo) insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	const q = `
		INSERT INTO orders
			(customer_id, order_date, status, subtotal, tax_amount,
			 discount_amount, total_amount, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, q,
		order.CustomerID,
		formatTime(order.OrderDate),
		string(order.Status),
		formatAmount(order.Subtotal),
		formatAmount(order.TaxAmount),
		formatAmount(order.DiscountAmount),
		formatAmount(order.TotalAmount),
		order.Notes,
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: insert order id: %w", err)
	}
	order.ID = id
	return nil
}

func (r *OrderRepo) update(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	const q = `
		UPDATE orders SET
			customer_id = ?, order_date = ?, status = ?, subtotal = ?,
			tax_amount = ?, discount_amount = ?, total_amount = ?, notes = ?,
			updated_at = ?
		WHERE order_id = ?`

	res, err := tx.ExecContext(ctx, q,
		order.CustomerID,
		formatTime(order.OrderDate),
		string(order.Status),
		formatAmount(order.Subtotal),
		formatAmount(order.TaxAmount),
		formatAmount(order.DiscountAmount),
		formatAmount(order.TotalAmount),
		order.Notes,
		formatTime(order.UpdatedAt),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update order %d: %w", order.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) saveItems(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = ?`, order.ID); err != nil {
		return fmt.Errorf("sqlite: clear items for order %d: %w", order.ID, err)
	}

	const q = `
		INSERT INTO order_items
			(order_id, product_id, quantity, unit_price, line_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, it := range order.Items {
		it.OrderID = order.ID
		res, err := tx.ExecContext(ctx, q,
			it.OrderID,
			it.ProductID,
			it.Quantity,
			formatAmount(it.UnitPrice),
			formatAmount(it.LineTotal),
			formatTime(it.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert item for order %d: %w", order.ID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: insert item id: %w", err)
		}
		it.ID = id
	}
	return nil
}

// GetByID loads the order and rehydrates its line items via SetItems, so
// the totals invariant is re-established from what was actually stored.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %d: %w", id, err)
	}

	items, err := r.itemsForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.SetItems(items)
	return order, nil
}

// List returns all orders, newest first, without line items. Rehydrate a
// single order with GetByID when the items are needed.
func (r *OrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC`)
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = ? ORDER BY order_date DESC`,
		customerID)
}

func (r *OrderRepo) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = ? ORDER BY order_date DESC`,
		string(status))
}

func (r *OrderRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	// RFC3339 strings sort chronologically, so BETWEEN works on TEXT.
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_date BETWEEN ? AND ? ORDER BY order_date DESC`,
		formatTime(from), formatTime(to))
}

// UpdateStatus changes only the status column. No transition rule applies
// here: this is the unguarded service-level status override.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		string(status), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("sqlite: update order %d status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes the order row; the order_items cascade takes the items.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete order %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepo) itemsForOrder(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	const q = `
		SELECT order_item_id, order_id, product_id, quantity, unit_price,
		       line_total, created_at
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY order_item_id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		var unitPrice, lineTotal, created string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&unitPrice, &lineTotal, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan item: %w", err)
		}
		if it.UnitPrice, err = parseAmount(unitPrice); err != nil {
			return nil, err
		}
		if it.LineTotal, err = parseAmount(lineTotal); err != nil {
			return nil, err
		}
		if it.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var o domain.Order
	var status, orderDate, createdAt, updatedAt string
	var subtotal, taxAmount, discount, totalAmt string
	err := s.Scan(&o.ID, &o.CustomerID, &orderDate, &status, &subtotal,
		&taxAmount, &discount, &totalAmt, &o.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	if o.OrderDate, err = parseTime(orderDate); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if o.Subtotal, err = parseAmount(subtotal); err != nil {
		return nil, err
	}
	if o.TaxAmount, err = parseAmount(taxAmount); err != nil {
		return nil, err
	}
	if o.DiscountAmount, err = parseAmount(discount); err != nil {
		return nil, err
	}
	if o.TotalAmount, err = parseAmount(totalAmt); err != nil {
		return nil, err
	}
	return &o, nil
}
