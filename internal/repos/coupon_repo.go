package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
)

type CouponRepo struct{ q Queryer }

func NewCouponRepo(db *sqlx.DB) *CouponRepo { return &CouponRepo{q: db} }

func (r *CouponRepo) WithTx(tx *sqlx.Tx) *CouponRepo { return &CouponRepo{q: tx} }

func (r *CouponRepo) Get(ctx context.Context, id int64) (domain.Coupon, error) {
	var c domain.Coupon
	err := sqlx.GetContext(ctx, r.q, &c, `SELECT id, title, amount, customer_id FROM coupons WHERE id = ?`, id)
	return c, notFound(err)
}

func (r *CouponRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT id, title, amount, customer_id FROM coupons WHERE customer_id = ? ORDER BY id`, customerID)
	return out, err
}

func (r *CouponRepo) Create(ctx context.Context, customerID int64, title string, amount decimal.Decimal) (int64, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO coupons(title, amount, customer_id) VALUES(?,?,?)`,
		title, amount.StringFixed(2), customerID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Consume deletes a coupon after it paid for an order.
func (r *CouponRepo) Consume(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM coupons WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
