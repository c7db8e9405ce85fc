package repos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
)

type ProductRepo struct{ q Queryer }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{q: db} }

// WithTx returns a copy bound to tx.
func (r *ProductRepo) WithTx(tx *sqlx.Tx) *ProductRepo { return &ProductRepo{q: tx} }

const productCols = `p.id, p.name, p.description, p.price, p.offer_price, p.installments,
    p.stock, p.months_warranty, p.is_gamer, p.brand_id, p.category_id`

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p, `SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	return p, notFound(err)
}

// GetMany loads products keyed by id. Missing ids are simply absent.
func (r *ProductRepo) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+productCols+` FROM products p WHERE p.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Product
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// Criteria are the equality/range predicates accepted by product listings.
type Criteria struct {
	Category     string
	Brand        string
	IsGamer      *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Installments *int
	Terms        []string
	OrderBy      string
	Limit        int
	Offset       int
}

var orderColumns = map[string]string{
	"price":        "CAST(p.price AS REAL) ASC",
	"-price":       "CAST(p.price AS REAL) DESC",
	"offer_price":  "CAST(p.offer_price AS REAL) ASC",
	"-offer_price": "CAST(p.offer_price AS REAL) DESC",
	"name":         "p.name ASC",
	"-name":        "p.name DESC",
}

// ValidOrderBy reports whether v is an accepted sort key.
func ValidOrderBy(v string) bool {
	_, ok := orderColumns[v]
	return ok
}

func (c Criteria) where() (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if c.Category != "" {
		where = append(where, `LOWER(c.title) = LOWER(?)`)
		args = append(args, c.Category)
	}
	if c.Brand != "" {
		where = append(where, `LOWER(b.name) = LOWER(?)`)
		args = append(args, c.Brand)
	}
	if c.IsGamer != nil {
		where = append(where, `p.is_gamer = ?`)
		args = append(args, *c.IsGamer)
	}
	if c.MinPrice != nil {
		where = append(where, `CAST(p.offer_price AS REAL) >= ?`)
		args = append(args, c.MinPrice.InexactFloat64())
	}
	if c.MaxPrice != nil {
		where = append(where, `CAST(p.offer_price AS REAL) <= ?`)
		args = append(args, c.MaxPrice.InexactFloat64())
	}
	if c.Installments != nil {
		where = append(where, `p.installments = ?`)
		args = append(args, *c.Installments)
	}
	if len(c.Terms) > 0 {
		ors := make([]string, 0, len(c.Terms))
		for _, t := range c.Terms {
			like := "%" + strings.ToLower(t) + "%"
			ors = append(ors, `(LOWER(p.name) LIKE ? OR LOWER(c.title) LIKE ? OR LOWER(b.name) LIKE ?)`)
			args = append(args, like, like, like)
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(where, " AND "), args
}

const productFrom = ` FROM products p
  JOIN categories c ON c.id = p.category_id
  JOIN brands b ON b.id = p.brand_id`

// Filter returns a page of products matching c plus the total match count.
func (r *ProductRepo) Filter(ctx context.Context, c Criteria) ([]domain.Product, int, error) {
	where, args := c.where()

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*)`+productFrom+` WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	order := "p.id ASC"
	if o, ok := orderColumns[c.OrderBy]; ok {
		order = o + ", p.id ASC"
	}
	limit := c.Limit
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + productCols + productFrom + ` WHERE ` + where + ` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	out := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.q, &out, query, append(args, limit, c.Offset)...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Facets describes the categories, brands and installment plans of every match.
type Facets struct {
	Categories   []domain.Category `json:"categories"`
	Brands       []domain.Brand    `json:"brands"`
	Installments []int             `json:"installments"`
}

// Facets ignores paging and ordering and only applies the search terms.
func (r *ProductRepo) Facets(ctx context.Context, terms []string) (Facets, error) {
	where, args := Criteria{Terms: terms}.where()
	f := Facets{Categories: []domain.Category{}, Brands: []domain.Brand{}, Installments: []int{}}
	if err := sqlx.SelectContext(ctx, r.q, &f.Categories, `
	  SELECT DISTINCT c.id, c.title, c.description, c.icon`+productFrom+` WHERE `+where+` ORDER BY c.id`, args...); err != nil {
		return Facets{}, err
	}
	if err := sqlx.SelectContext(ctx, r.q, &f.Brands, `
	  SELECT DISTINCT b.id, b.name, b.description, b.website_url, b.logo_url`+productFrom+` WHERE `+where+` ORDER BY b.id`, args...); err != nil {
		return Facets{}, err
	}
	if err := sqlx.SelectContext(ctx, r.q, &f.Installments, `
	  SELECT DISTINCT p.installments`+productFrom+` WHERE `+where+` ORDER BY p.installments`, args...); err != nil {
		return Facets{}, err
	}
	return f, nil
}

func (r *ProductRepo) Images(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	out := []domain.ProductImage{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
	  SELECT id, product_id, url, description, is_default
	  FROM product_images WHERE product_id = ? ORDER BY id`, productID)
	return out, err
}

// SetDefaultImage makes imageID the only default image of its product.
func (r *ProductRepo) SetDefaultImage(ctx context.Context, productID, imageID int64) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE product_images SET is_default = 0 WHERE product_id = ? AND is_default = 1`, productID); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, `UPDATE product_images SET is_default = 1 WHERE id = ? AND product_id = ?`, imageID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats are the derived numbers shown on a product card.
type Stats struct {
	Sold           int      `db:"sold"`
	ReviewsCounter int      `db:"reviews_counter"`
	Rating         *float64 `db:"rating"`
}

func (r *ProductRepo) Stats(ctx context.Context, productID int64) (Stats, error) {
	var s Stats
	err := sqlx.GetContext(ctx, r.q, &s, `
	  SELECT
	    (SELECT COALESCE(SUM(quantity),0) FROM order_items WHERE product_id = ?) AS sold,
	    (SELECT COUNT(*) FROM reviews WHERE product_id = ?) AS reviews_counter,
	    (SELECT AVG(rating) FROM reviews WHERE product_id = ?) AS rating
	`, productID, productID, productID)
	return s, err
}

func (r *ProductRepo) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	out := []domain.Brand{}
	err := sqlx.SelectContext(ctx, r.q, &out, `SELECT id, name, description, website_url, logo_url FROM brands ORDER BY name`)
	return out, err
}

func (r *ProductRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.q, &out, `SELECT id, title, description, icon FROM categories ORDER BY title`)
	return out, err
}

// SetOfferPrice changes the current catalog price. Placed orders keep theirs.
func (r *ProductRepo) SetOfferPrice(ctx context.Context, id int64, offer decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET offer_price = ? WHERE id = ?`, offer.StringFixed(2), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
