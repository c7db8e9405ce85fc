package repos

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"gotier/internal/domain"
)

// ErrDuplicate is returned when a (product, customer) pair already exists.
var ErrDuplicate = errors.New("duplicate")

// SavedItemRepo backs both the cart and the favorites list; they only differ
// by table and cap.
type SavedItemRepo struct {
	q     Queryer
	table string
}

func NewCartRepo(db *sqlx.DB) *SavedItemRepo { return &SavedItemRepo{q: db, table: "cart_items"} }

func NewFavRepo(db *sqlx.DB) *SavedItemRepo { return &SavedItemRepo{q: db, table: "fav_items"} }

func (r *SavedItemRepo) WithTx(tx *sqlx.Tx) *SavedItemRepo {
	return &SavedItemRepo{q: tx, table: r.table}
}

func (r *SavedItemRepo) Count(ctx context.Context, customerID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM `+r.table+` WHERE customer_id = ?`, customerID)
	return n, err
}

func (r *SavedItemRepo) Has(ctx context.Context, customerID, productID int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM `+r.table+` WHERE customer_id = ? AND product_id = ?`, customerID, productID)
	return n > 0, err
}

func (r *SavedItemRepo) Add(ctx context.Context, customerID, productID int64) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO `+r.table+`(product_id, customer_id, created_at) VALUES(?, ?, CURRENT_TIMESTAMP)`,
		productID, customerID)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Remove deletes the given products from the customer's list and reports how many went.
func (r *SavedItemRepo) Remove(ctx context.Context, customerID int64, productIDs ...int64) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM `+r.table+` WHERE customer_id = ? AND product_id IN (?)`, customerID, productIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SavedItemRepo) Products(ctx context.Context, customerID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT `+productCols+`
	  FROM `+r.table+` s JOIN products p ON p.id = s.product_id
	  WHERE s.customer_id = ?
	  ORDER BY s.id`, customerID)
	return out, err
}
