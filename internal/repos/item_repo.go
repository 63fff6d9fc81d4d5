package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"discountd/internal/domain"
)

// ItemRepo reads item snapshots from the products tables. It is the
// domain.ItemLookup used in production.
type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) Item(storeID, productID string) (domain.Item, error) {
	var price float64
	err := r.db.Get(&price, `
	  SELECT price FROM products
	  WHERE store_id = ? AND id = ? AND active = 1
	`, storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, fmt.Errorf("item %s/%s: %w", storeID, productID, ErrNotFound)
	}
	if err != nil {
		return domain.Item{}, err
	}

	cats := []string{}
	if err := r.db.Select(&cats, `
	  SELECT category FROM product_categories
	  WHERE store_id = ? AND product_id = ?
	  ORDER BY category
	`, storeID, productID); err != nil {
		return domain.Item{}, err
	}
	return domain.Item{ProductID: productID, Price: price, Categories: cats}, nil
}

func (r *ItemRepo) ListByStore(storeID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT
	    id, store_id, title, price, active,
	    created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE store_id = ? AND active = 1
	  ORDER BY id
	`, storeID)
	return out, err
}

// Upsert stores a product and replaces its categories.
func (r *ItemRepo) Upsert(p domain.Product, categories ...string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO products(store_id, id, title, price, active, created_at)
		VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(store_id, id) DO UPDATE
		SET title = excluded.title, price = excluded.price, active = 1, updated_at = CURRENT_TIMESTAMP
	`, p.StoreID, p.ID, p.Title, p.Price); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM product_categories WHERE store_id = ? AND product_id = ?`, p.StoreID, p.ID); err != nil {
		return err
	}
	for _, c := range categories {
		if _, err := tx.Exec(`
			INSERT INTO product_categories(store_id, product_id, category) VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, p.StoreID, p.ID, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}
