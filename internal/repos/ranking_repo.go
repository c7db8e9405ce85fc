package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type RankingRepo struct{ q Queryer }

func NewRankingRepo(db *sqlx.DB) *RankingRepo { return &RankingRepo{q: db} }

// Ranked is a product's total ordered quantity.
type Ranked struct {
	ProductID int64 `db:"product_id" json:"product_id"`
	Total     int   `db:"total_quantity" json:"total_quantity"`
}

// TopProducts aggregates order item quantities per product. Ties at any
// position, including the cut-off, are broken by ascending product id.
func (r *RankingRepo) TopProducts(ctx context.Context, limit int) ([]Ranked, error) {
	out := []Ranked{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT product_id, SUM(quantity) AS total_quantity
	  FROM order_items
	  GROUP BY product_id
	  ORDER BY total_quantity DESC, product_id ASC
	  LIMIT ?`, limit)
	return out, err
}
