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

// PaymentRepo is the SQLite implementation of store.PaymentStore.
type PaymentRepo struct {
	db *sql.DB
}

const paymentColumns = `payment_id, order_id, payment_method, status, amount,
	transaction_id, reference, notes, payment_date, created_at, updated_at`

func (r *PaymentRepo) Save(ctx context.Context, p *domain.Payment) error {
	if p.ID == 0 {
		return r.insert(ctx, p)
	}
	return r.update(ctx, p)
}

func (r *PaymentRepo) insert(ctx context.Context, p *domain.Payment) error {
	const q = `
		INSERT INTO payments
			(order_id, payment_method, status, amount, transaction_id,
			 reference, notes, payment_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		p.OrderID, string(p.Method), string(p.Status), formatAmount(p.Amount),
		p.TransactionID, p.Reference, p.Notes,
		formatTime(p.PaymentDate), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: insert payment id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *PaymentRepo) update(ctx context.Context, p *domain.Payment) error {
	const q = `
		UPDATE payments SET
			order_id = ?, payment_method = ?, status = ?, amount = ?,
			transaction_id = ?, reference = ?, notes = ?, payment_date = ?,
			updated_at = ?
		WHERE payment_id = ?`

	res, err := r.db.ExecContext(ctx, q,
		p.OrderID, string(p.Method), string(p.Status), formatAmount(p.Amount),
		p.TransactionID, p.Reference, p.Notes,
		formatTime(p.PaymentDate), formatTime(time.Now()), p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update payment %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payment_id = ?`, id)
}

func (r *PaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = ?`, transactionID)
}

func (r *PaymentRepo) List(ctx context.Context) ([]*domain.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY payment_date DESC`)
}

func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	return r.query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = ? ORDER BY payment_date DESC`,
		orderID)
}

func (r *PaymentRepo) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	return r.query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE status = ? ORDER BY payment_date DESC`,
		string(status))
}

func (r *PaymentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE payment_id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete payment %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *PaymentRepo) OrderHasPayments(ctx context.Context, orderID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE order_id = ?`, orderID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: count payments for order %d: %w", orderID, err)
	}
	return count > 0, nil
}

func (r *PaymentRepo) get(ctx context.Context, q string, args ...any) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	var method, status, amount string
	var paymentDate, createdAt, updatedAt string
	err := s.Scan(&p.ID, &p.OrderID, &method, &status, &amount,
		&p.TransactionID, &p.Reference, &p.Notes,
		&paymentDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	if p.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if p.PaymentDate, err = parseTime(paymentDate); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
