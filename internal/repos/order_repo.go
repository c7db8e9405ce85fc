package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
)

type OrderRepo struct{ q Queryer }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{q: db} }

func (r *OrderRepo) WithTx(tx *sqlx.Tx) *OrderRepo { return &OrderRepo{q: tx} }

const orderCols = `o.id, o.paid, o.purchase_date, o.delivery_term, o.dispatched, o.on_the_way,
    o.delivered, o.payment_method, o.country, o.city, o.address, o.notes, o.customer_id, o.delivery_man_id`

// CountActive counts the customer's orders that are not delivered yet.
func (r *OrderRepo) CountActive(ctx context.Context, customerID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM orders WHERE customer_id = ? AND delivered = 0`, customerID)
	return n, err
}

// CountPlacedOn counts every order whose purchase_date is day (YYYY-MM-DD).
func (r *OrderRepo) CountPlacedOn(ctx context.Context, day string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM orders WHERE purchase_date = ?`, day)
	return n, err
}

// Create inserts an order header. Paid is written as given (the checkout
// inserts a zero placeholder and prices afterwards).
func (r *OrderRepo) Create(ctx context.Context, o domain.Order) error {
	if o.Notes == "" {
		o.Notes = "Nothing"
	}
	_, err := r.q.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, paid, purchase_date, delivery_term, payment_method, country, city, address, notes, customer_id)
	  VALUES
	    (?,  ?,    ?,             ?,             ?,              ?,       ?,    ?,       ?,     ?)
	`, o.ID, o.Paid.StringFixed(2), o.PurchaseDate, o.DeliveryTerm, o.PaymentMethod, o.Country, o.City, o.Address, o.Notes, o.CustomerID)
	return err
}

// InsertItem inserts a single line item and returns its id.
func (r *OrderRepo) InsertItem(ctx context.Context, it domain.OrderItem) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	  INSERT INTO order_items(total_cost, quantity, product_id, order_id)
	  VALUES(?, ?, ?, ?)
	`, it.TotalCost.StringFixed(2), it.Quantity, it.ProductID, it.OrderID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *OrderRepo) SetPaid(ctx context.Context, orderID string, paid decimal.Decimal) error {
	_, err := r.q.ExecContext(ctx, `UPDATE orders SET paid = ? WHERE id = ?`, paid.StringFixed(2), orderID)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.q, &o, `SELECT `+orderCols+` FROM orders o WHERE o.id = ?`, orderID)
	return o, notFound(err)
}

// GetOwned fetches the order only if it belongs to customerID.
func (r *OrderRepo) GetOwned(ctx context.Context, orderID string, customerID int64) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.q, &o, `SELECT `+orderCols+` FROM orders o WHERE o.id = ? AND o.customer_id = ?`, orderID, customerID)
	return o, notFound(err)
}

func (r *OrderRepo) Items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT id, total_cost, quantity, product_id, order_id
	  FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	return out, err
}

func (r *OrderRepo) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM orders WHERE customer_id = ?`, customerID)
	return n, err
}

// UpdateDetails writes the customer-editable fields.
func (r *OrderRepo) UpdateDetails(ctx context.Context, o domain.Order) error {
	_, err := r.q.ExecContext(ctx, `UPDATE orders SET country = ?, city = ?, address = ?, notes = ? WHERE id = ?`,
		o.Country, o.City, o.Address, o.Notes, o.ID)
	return err
}

// UpdateProgress writes the fulfillment flags.
func (r *OrderRepo) UpdateProgress(ctx context.Context, o domain.Order) error {
	_, err := r.q.ExecContext(ctx, `UPDATE orders SET dispatched = ?, on_the_way = ?, delivered = ? WHERE id = ?`,
		o.Dispatched, o.OnTheWay, o.Delivered, o.ID)
	return err
}

// Delete removes the order together with its items.
func (r *OrderRepo) Delete(ctx context.Context, orderID string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurchaseRow is one order item with the order it belongs to.
type PurchaseRow struct {
	ItemID     int64           `db:"item_id"`
	TotalCost  decimal.Decimal `db:"total_cost"`
	Quantity   int             `db:"quantity"`
	ProductID  int64           `db:"product_id"`
	IsReviewed bool            `db:"is_reviewed"`
	domain.Order
}

const purchaseSelect = `
  SELECT oi.id AS item_id, oi.total_cost, oi.quantity, oi.product_id,
         EXISTS(SELECT 1 FROM reviews rv WHERE rv.product_id = oi.product_id AND rv.customer_id = o.customer_id) AS is_reviewed,
         ` + orderCols + `
  FROM order_items oi
  JOIN orders o ON o.id = oi.order_id`

// Purchases lists every item the customer bought, newest order first.
func (r *OrderRepo) Purchases(ctx context.Context, customerID int64) ([]PurchaseRow, error) {
	out := []PurchaseRow{}
	err := sqlx.SelectContext(ctx, r.q, &out, purchaseSelect+`
	  WHERE o.customer_id = ?
	  ORDER BY o.purchase_date DESC, o.rowid DESC, oi.id ASC`, customerID)
	return out, err
}

func (r *OrderRepo) Purchase(ctx context.Context, customerID, itemID int64) (PurchaseRow, error) {
	var p PurchaseRow
	err := sqlx.GetContext(ctx, r.q, &p, purchaseSelect+` WHERE o.customer_id = ? AND oi.id = ?`, customerID, itemID)
	return p, notFound(err)
}
