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

// ProductRepo is the SQLite implementation of store.ProductStore.
type ProductRepo struct {
	db *sql.DB
}

const productColumns = `product_id, product_name, description, sku, price,
	cost_price, stock_quantity, min_stock_level, category_id, image_url,
	created_at, updated_at, is_active`

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		return r.insert(ctx, p)
	}
	return r.update(ctx, p)
}

func (r *ProductRepo) insert(ctx context.Context, p *domain.Product) error {
	const q = `
		INSERT INTO products
			(product_name, description, sku, price, cost_price, stock_quantity,
			 min_stock_level, category_id, image_url, created_at, updated_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.SKU,
		formatAmount(p.Price), formatAmount(p.CostPrice),
		p.StockQty, p.MinStockQty, p.CategoryID, p.ImageURL,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt), p.Active,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: insert product id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepo) update(ctx context.Context, p *domain.Product) error {
	const q = `
		UPDATE products SET
			product_name = ?, description = ?, sku = ?, price = ?, cost_price = ?,
			stock_quantity = ?, min_stock_level = ?, category_id = ?, image_url = ?,
			updated_at = ?, is_active = ?
		WHERE product_id = ?`

	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.SKU,
		formatAmount(p.Price), formatAmount(p.CostPrice),
		p.StockQty, p.MinStockQty, p.CategoryID, p.ImageURL,
		formatTime(time.Now()), p.Active, p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update product %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = ?`, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
}

func (r *ProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY product_name`)
}

func (r *ProductRepo) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active = 1 ORDER BY product_name`)
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? AND is_active = 1 ORDER BY product_name`,
		categoryID)
}

// ListLowStock returns active products at or below their minimum stock
// level, lowest stock first. This is the reorder report.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE stock_quantity <= min_stock_level AND is_active = 1
		 ORDER BY stock_quantity`)
}

func (r *ProductRepo) SearchByName(ctx context.Context, term string) ([]*domain.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE (product_name LIKE ? OR sku LIKE ?) AND is_active = 1
		 ORDER BY product_name`,
		"%"+term+"%", "%"+term+"%")
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id int64, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE product_id = ?`,
		quantity, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("sqlite: update stock for product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = 0, updated_at = ? WHERE product_id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("sqlite: deactivate product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, q string, args ...any) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(s scanner) (*domain.Product, error) {
	var p domain.Product
	var price, costPrice, createdAt, updatedAt string
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &price, &costPrice,
		&p.StockQty, &p.MinStockQty, &p.CategoryID, &p.ImageURL,
		&createdAt, &updatedAt, &p.Active)
	if err != nil {
		return nil, err
	}
	if p.Price, err = parseAmount(price); err != nil {
		return nil, err
	}
	if p.CostPrice, err = parseAmount(costPrice); err != nil {
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
