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

// CategoryRepo is the SQLite implementation of store.CategoryStore.
type CategoryRepo struct {
	db *sql.DB
}

const categoryColumns = `category_id, category_name, description, created_at, updated_at, is_active`

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	if c.ID == 0 {
		return r.insert(ctx, c)
	}
	return r.update(ctx, c)
}

func (r *CategoryRepo) insert(ctx context.Context, c *domain.Category) error {
	const q = `
		INSERT INTO categories (category_name, description, created_at, updated_at, is_active)
		VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.Description, formatTime(c.CreatedAt), formatTime(c.UpdatedAt), c.Active)
	if err != nil {
		return fmt.Errorf("sqlite: insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: insert category id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CategoryRepo) update(ctx context.Context, c *domain.Category) error {
	const q = `
		UPDATE categories SET category_name = ?, description = ?, updated_at = ?, is_active = ?
		WHERE category_id = ?`

	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.Description, formatTime(time.Now()), c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update category %d: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return r.get(ctx, `SELECT `+categoryColumns+` FROM categories WHERE category_id = ?`, id)
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.get(ctx, `SELECT `+categoryColumns+` FROM categories WHERE category_name = ?`, name)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	return r.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY category_name`)
}

func (r *CategoryRepo) ListActive(ctx context.Context) ([]*domain.Category, error) {
	return r.query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_active = 1 ORDER BY category_name`)
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete category %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) get(ctx context.Context, q string, args ...any) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	var createdAt, updatedAt string
	err := s.Scan(&c.ID, &c.Name, &c.Description, &createdAt, &updatedAt, &c.Active)
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
