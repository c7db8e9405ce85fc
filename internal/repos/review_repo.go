package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gotier/internal/domain"
)

type ReviewRepo struct{ q Queryer }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{q: db} }

func (r *ReviewRepo) WithTx(tx *sqlx.Tx) *ReviewRepo { return &ReviewRepo{q: tx} }

const reviewCols = `id, rating, content, date, is_useful, hidden, customer_id, product_id`

func (r *ReviewRepo) Get(ctx context.Context, id int64) (domain.Review, error) {
	var rv domain.Review
	err := sqlx.GetContext(ctx, r.q, &rv, `SELECT `+reviewCols+` FROM reviews WHERE id = ?`, id)
	return rv, notFound(err)
}

func (r *ReviewRepo) GetByAuthor(ctx context.Context, customerID, productID int64) (domain.Review, error) {
	var rv domain.Review
	err := sqlx.GetContext(ctx, r.q, &rv, `SELECT `+reviewCols+` FROM reviews WHERE customer_id = ? AND product_id = ?`, customerID, productID)
	return rv, notFound(err)
}

// ReviewRow is a visible review with its reaction tallies.
type ReviewRow struct {
	domain.Review
	Username string `db:"username" json:"username"`
	Likes    int    `db:"likes" json:"likes"`
	Dislikes int    `db:"dislikes" json:"dislikes"`
}

func (r *ReviewRepo) ListVisible(ctx context.Context, productID int64) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT rv.id, rv.rating, rv.content, rv.date, rv.is_useful, rv.hidden, rv.customer_id, rv.product_id,
	         c.username,
	         (SELECT COUNT(*) FROM review_likes l WHERE l.review_id = rv.id) AS likes,
	         (SELECT COUNT(*) FROM review_dislikes d WHERE d.review_id = rv.id) AS dislikes
	  FROM reviews rv JOIN customers c ON c.id = rv.customer_id
	  WHERE rv.product_id = ? AND rv.hidden = 0
	  ORDER BY rv.id`, productID)
	return out, err
}

func (r *ReviewRepo) CountOn(ctx context.Context, day string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM reviews WHERE date = ?`, day)
	return n, err
}

func (r *ReviewRepo) Create(ctx context.Context, rv domain.Review) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	  INSERT INTO reviews(rating, content, date, is_useful, hidden, customer_id, product_id)
	  VALUES(?,?,?,?,?,?,?)`, rv.Rating, rv.Content, rv.Date, rv.IsUseful, rv.Hidden, rv.CustomerID, rv.ProductID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ReviewRepo) Update(ctx context.Context, rv domain.Review) error {
	_, err := r.q.ExecContext(ctx, `UPDATE reviews SET rating = ?, content = ? WHERE id = ?`, rv.Rating, rv.Content, rv.ID)
	return err
}

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

// Reaction tables keyed by (review_id, customer_id).
const (
	Likes    = "review_likes"
	Dislikes = "review_dislikes"
	Reports  = "review_reports"
)

// ReactedBy lists the review ids customerID has a row for in table.
func (r *ReviewRepo) ReactedBy(ctx context.Context, table string, customerID int64) ([]int64, error) {
	out := []int64{}
	err := sqlx.SelectContext(ctx, r.q, &out, `SELECT review_id FROM `+table+` WHERE customer_id = ? ORDER BY review_id`, customerID)
	return out, err
}

// RemoveReaction reports whether a row was deleted.
func (r *ReviewRepo) RemoveReaction(ctx context.Context, table string, reviewID, customerID int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM `+table+` WHERE review_id = ? AND customer_id = ?`, reviewID, customerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *ReviewRepo) AddReaction(ctx context.Context, table string, reviewID, customerID int64) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO `+table+`(review_id, customer_id) VALUES(?, ?)`, reviewID, customerID)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// RecomputeUseful derives is_useful from the current like/dislike rows and
// returns the stored value.
func (r *ReviewRepo) RecomputeUseful(ctx context.Context, reviewID int64) (bool, error) {
	if _, err := r.q.ExecContext(ctx, `
	  UPDATE reviews SET is_useful =
	    (SELECT COUNT(*) FROM review_likes WHERE review_id = ?) >=
	    (SELECT COUNT(*) FROM review_dislikes WHERE review_id = ?)
	  WHERE id = ?`, reviewID, reviewID, reviewID); err != nil {
		return false, err
	}
	var useful bool
	err := sqlx.GetContext(ctx, r.q, &useful, `SELECT is_useful FROM reviews WHERE id = ?`, reviewID)
	return useful, notFound(err)
}
