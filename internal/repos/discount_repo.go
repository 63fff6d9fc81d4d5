package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"discountd/internal/discounts"
	"discountd/internal/domain"
)

// DiscountRepo persists root discounts in SQLite. Each tree is stored as its
// JSON description and rebuilt on read.
type DiscountRepo struct {
	db      *sqlx.DB
	builder *discounts.Builder
}

func NewDiscountRepo(db *sqlx.DB, builder *discounts.Builder) *DiscountRepo {
	if builder == nil {
		builder = discounts.NewBuilder()
	}
	return &DiscountRepo{db: db, builder: builder}
}

type discountRow struct {
	ID      string `db:"id"`
	StoreID string `db:"store_id"`
	Body    string `db:"body"`
}

// Add inserts or replaces the discount stored under id.
func (r *DiscountRepo) Add(id string, d discounts.Discount) error {
	dto, err := discounts.ToDTO(d)
	if err != nil {
		return err
	}
	body, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO discounts(id, store_id, body, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE
		SET store_id = excluded.store_id, body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, id, d.StoreID(), string(body))
	return err
}

func (r *DiscountRepo) Get(id string) (discounts.Discount, error) {
	var row discountRow
	err := r.db.Get(&row, `SELECT id, store_id, body FROM discounts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("discount %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.decode(row)
}

func (r *DiscountRepo) Remove(id string) (discounts.Discount, error) {
	d, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(`DELETE FROM discounts WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DiscountRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM discounts WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *DiscountRepo) StoreDiscounts(storeID string) ([]discounts.Discount, error) {
	var rows []discountRow
	if err := r.db.Select(&rows, `
	  SELECT id, store_id, body FROM discounts
	  WHERE store_id = ?
	  ORDER BY created_at, id
	`, storeID); err != nil {
		return nil, err
	}
	out := make([]discounts.Discount, 0, len(rows))
	for _, row := range rows {
		d, err := r.decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *DiscountRepo) decode(row discountRow) (discounts.Discount, error) {
	var dto domain.DiscountDTO
	if err := json.Unmarshal([]byte(row.Body), &dto); err != nil {
		return nil, fmt.Errorf("discount %s: decode: %w", row.ID, err)
	}
	d, err := r.builder.Build(&dto, row.ID, row.StoreID)
	if err != nil {
		return nil, fmt.Errorf("discount %s: rebuild: %w", row.ID, err)
	}
	return d, nil
}
