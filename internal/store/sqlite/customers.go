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

// CustomerRepo is the SQLite implementation of store.CustomerStore.
type CustomerRepo struct {
	db *sql.DB
}

const customerColumns = `customer_id, first_name, last_name, email,
	phone_number, address, city, postal_code, country, created_at,
	updated_at, is_active`

func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	if c.ID == 0 {
		return r.insert(ctx, c)
	}
	return r.update(ctx, c)
}

func (r *CustomerRepo) insert(ctx context.Context, c *domain.Customer) error {
	const q = `
		INSERT INTO customers
			(first_name, last_name, email, phone_number, address, city,
			 postal_code, country, created_at, updated_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address,
		c.City, c.PostalCode, c.Country,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt), c.Active,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: insert customer id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CustomerRepo) update(ctx context.Context, c *domain.Customer) error {
	const q = `
		UPDATE customers SET
			first_name = ?, last_name = ?, email = ?, phone_number = ?,
			address = ?, city = ?, postal_code = ?, country = ?,
			updated_at = ?, is_active = ?
		WHERE customer_id = ?`

	res, err := r.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address,
		c.City, c.PostalCode, c.Country,
		formatTime(time.Now()), c.Active, c.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update customer %d: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = ?`, id)
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = ?`, email)
}

func (r *CustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	return r.query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY last_name, first_name`)
}

func (r *CustomerRepo) ListActive(ctx context.Context) ([]*domain.Customer, error) {
	return r.query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE is_active = 1 ORDER BY last_name, first_name`)
}

func (r *CustomerRepo) SearchByName(ctx context.Context, term string) ([]*domain.Customer, error) {
	return r.query(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?) AND is_active = 1
		 ORDER BY last_name, first_name`,
		"%"+term+"%", "%"+term+"%", "%"+term+"%")
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete customer %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET is_active = 0, updated_at = ? WHERE customer_id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("sqlite: deactivate customer %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) get(ctx context.Context, q string, args ...any) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var c domain.Customer
	var createdAt, updatedAt string
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Address, &c.City, &c.PostalCode, &c.Country,
		&createdAt, &updatedAt, &c.Active)
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
