package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ q Queryer }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{q: db} }

// InventoryRow is one product's stock line for the admin listing.
type InventoryRow struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Stock     int    `db:"stock" json:"stock"`
}

// ListAll returns the stock of every product, lowest first.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryRow, error) {
	out := []InventoryRow{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT id AS product_id, name, stock
		FROM products
		ORDER BY stock ASC, id ASC
	`)
	return out, err
}

// Qty returns the current stock of a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID int64) (int, error) {
	var qty int
	err := sqlx.GetContext(ctx, r.q, &qty, `SELECT stock FROM products WHERE id = ?`, productID)
	return qty, notFound(err)
}

// SetQty overwrites the stock of a product.
func (r *InventoryRepo) SetQty(ctx context.Context, productID int64, qty int) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, qty, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
