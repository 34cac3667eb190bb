// Package sqlite provides the SQLite-backed implementation of the store
// ports.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa: the HTTP handlers read the catalog while order saves are writing.
package sqlite

import (
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, which keeps cross-compilation and
	// Alpine-based Docker builds trivial.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent via IF NOT EXISTS.
//
// Monetary amounts are stored as TEXT: they are exact decimal strings
// (2 fractional digits), and SQLite would silently coerce them to REAL
// (binary float) in a NUMERIC column. Timestamps are RFC3339 TEXT, the
// usual SQLite idiom.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
    category_id   INTEGER PRIMARY KEY AUTOINCREMENT,
    category_name TEXT    NOT NULL UNIQUE,
    description   TEXT    NOT NULL DEFAULT '',
    created_at    TEXT    NOT NULL,
    updated_at    TEXT    NOT NULL,
    is_active     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS customers (
    customer_id  INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name   TEXT    NOT NULL,
    last_name    TEXT    NOT NULL,
    email        TEXT    NOT NULL UNIQUE,
    phone_number TEXT    NOT NULL DEFAULT '',
    address      TEXT    NOT NULL DEFAULT '',
    city         TEXT    NOT NULL DEFAULT '',
    postal_code  TEXT    NOT NULL DEFAULT '',
    country      TEXT    NOT NULL DEFAULT '',
    created_at   TEXT    NOT NULL,
    updated_at   TEXT    NOT NULL,
    is_active    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS products (
    product_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    product_name    TEXT    NOT NULL,
    description     TEXT    NOT NULL DEFAULT '',
    sku             TEXT    NOT NULL UNIQUE,
    price           TEXT    NOT NULL,
    cost_price      TEXT    NOT NULL DEFAULT '0.00',
    stock_quantity  INTEGER NOT NULL DEFAULT 0,
    min_stock_level INTEGER NOT NULL DEFAULT 0,
    category_id     INTEGER NOT NULL,
    image_url       TEXT    NOT NULL DEFAULT '',
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL,
    is_active       INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (category_id) REFERENCES categories(category_id)
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_sku      ON products(sku);

CREATE TABLE IF NOT EXISTS orders (
    order_id        INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id     INTEGER NOT NULL,
    order_date      TEXT    NOT NULL,
    status          TEXT    NOT NULL,
    subtotal        TEXT    NOT NULL,
    tax_amount      TEXT    NOT NULL,
    discount_amount TEXT    NOT NULL,
    total_amount    TEXT    NOT NULL,
    notes           TEXT    NOT NULL DEFAULT '',
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status   ON orders(status);

-- Line items live and die with their order: ON DELETE CASCADE.
CREATE TABLE IF NOT EXISTS order_items (
    order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id      INTEGER NOT NULL,
    product_id    INTEGER NOT NULL,
    quantity      INTEGER NOT NULL,
    unit_price    TEXT    NOT NULL,
    line_total    TEXT    NOT NULL,
    created_at    TEXT    NOT NULL,
    FOREIGN KEY (order_id)   REFERENCES orders(order_id) ON DELETE CASCADE,
    FOREIGN KEY (product_id) REFERENCES products(product_id)
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS payments (
    payment_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id       INTEGER NOT NULL,
    payment_method TEXT    NOT NULL,
    status         TEXT    NOT NULL,
    amount         TEXT    NOT NULL,
    transaction_id TEXT    NOT NULL DEFAULT '',
    reference      TEXT    NOT NULL DEFAULT '',
    notes          TEXT    NOT NULL DEFAULT '',
    payment_date   TEXT    NOT NULL,
    created_at     TEXT    NOT NULL,
    updated_at     TEXT    NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(order_id)
);

CREATE INDEX IF NOT EXISTS idx_payments_order  ON payments(order_id);
CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
`

// DB bundles the per-entity repositories over one SQLite handle.
type DB struct {
	db *sql.DB

	Orders     *OrderRepo
	Products   *ProductRepo
	Customers  *CustomerRepo
	Categories *CategoryRepo
	Payments   *PaymentRepo
}

// Open opens (or creates) the SQLite database at path and applies the
// schema. Pass ":memory:" for an ephemeral database in tests.
func Open(path string) (*DB, error) {
	// The pure-Go driver configures connection state via _pragma query
	// parameters. foreign_keys=on makes the ON DELETE CASCADE on
	// order_items actually fire; busy_timeout waits for locks instead of
	// failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &DB{
		db:         db,
		Orders:     &OrderRepo{db: db},
		Products:   &ProductRepo{db: db},
		Customers:  &CustomerRepo{db: db},
		Categories: &CategoryRepo{db: db},
		Payments:   &PaymentRepo{db: db},
	}, nil
}

// Close releases the database handle. Call it with defer in main().
func (d *DB) Close() error {
	return d.db.Close()
}
