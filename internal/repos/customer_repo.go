package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gotier/internal/domain"
)

type CustomerRepo struct{ q Queryer }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{q: db} }

func (r *CustomerRepo) WithTx(tx *sqlx.Tx) *CustomerRepo { return &CustomerRepo{q: tx} }

const customerCols = `id, username, email, password_hash, is_staff, birthdate, gender,
    phone, country, city, address, points, joined`

func (r *CustomerRepo) ByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+customerCols+` FROM customers WHERE LOWER(username) = LOWER(?)`, username)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CustomerRepo) ByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.q, &c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Create inserts a customer and returns its id.
func (r *CustomerRepo) Create(ctx context.Context, c domain.Customer) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	  INSERT INTO customers(username,email,password_hash,is_staff,birthdate,gender,phone,country,city,address,joined)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		c.Username, c.Email, c.Hash, c.IsStaff, c.Birthdate, c.Gender, c.Phone, c.Country, c.City, c.Address, c.Joined)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CountJoinedOn counts accounts registered on day (YYYY-MM-DD).
func (r *CustomerRepo) CountJoinedOn(ctx context.Context, day string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM customers WHERE joined = ?`, day)
	return n, err
}

// EmailTaken reports whether an account other than exceptID already uses email.
// Pass 0 to check against every account.
func (r *CustomerRepo) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM customers WHERE LOWER(email) = LOWER(?) AND id != ?`, email, exceptID)
	return n > 0, err
}

// Update rewrites the editable profile columns of c.
func (r *CustomerRepo) Update(ctx context.Context, c domain.Customer) error {
	res, err := r.q.ExecContext(ctx, `
	  UPDATE customers
	  SET username = ?, email = ?, password_hash = ?, birthdate = ?, gender = ?,
	      phone = ?, country = ?, city = ?, address = ?
	  WHERE id = ?`,
		c.Username, c.Email, c.Hash, c.Birthdate, c.Gender, c.Phone, c.Country, c.City, c.Address, c.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the customer. Orders survive with customer_id nulled;
// carts, favorites, coupons and reviews cascade.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
