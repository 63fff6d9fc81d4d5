package repos

import (
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by repositories when the requested row is absent.
var ErrNotFound = errors.New("repos: not found")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo stores/products if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products (item snapshots read while pricing)
CREATE TABLE IF NOT EXISTS products(
  id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  PRIMARY KEY(store_id, id)
);
CREATE INDEX IF NOT EXISTS idx_products_store ON products(store_id);

CREATE TABLE IF NOT EXISTS product_categories(
  store_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  category TEXT NOT NULL,
  PRIMARY KEY(store_id, product_id, category),
  FOREIGN KEY(store_id, product_id) REFERENCES products(store_id, id) ON DELETE CASCADE
);

-- Discounts: one row per root discount, the tree kept as its JSON description
CREATE TABLE IF NOT EXISTS discounts(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_discounts_store ON discounts(store_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(store_id,id,title,price) VALUES
	  ('retro-1','gbc-001','Game Boy Color',129.99),
	  ('retro-1','nes-001','NES Console',199.00),
	  ('retro-1','radio-001','Philco 1939',349.50),
	  ('retro-1','radio-zenith-500','Zenith Royal 500',89.00)`)

	tx.MustExec(`INSERT INTO product_categories(store_id,product_id,category) VALUES
	  ('retro-1','gbc-001','retro-consoles'),
	  ('retro-1','nes-001','retro-consoles'),
	  ('retro-1','radio-001','vintage-radios'),
	  ('retro-1','radio-zenith-500','vintage-radios'),
	  ('retro-1','radio-zenith-500','pocket')`)

	return tx.Commit()
}
