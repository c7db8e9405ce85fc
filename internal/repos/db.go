package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// OpenDB opens the store with a single pooled connection. Every transaction
// therefore runs alone, which makes the checkout limiter check-then-write
// atomic. Repository code must never reach for the *sqlx.DB while it holds a
// *sqlx.Tx or it will wait on itself.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if DB is empty (brands/categories/products/images)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure demo customers exist (idempotent; safe to run every start)
	if err := seedCustomers(db); err != nil {
		return nil, err
	}

	return db, nil
}

// withForeignKeys adds the foreign_keys pragma to the DSN so the driver
// applies it to every connection it opens, not only the first one.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.ExtContext
}

// TxManager runs fn inside one transaction, committing only when fn succeeds.
type TxManager struct{ db *sqlx.DB }

func NewTxManager(db *sqlx.DB) *TxManager { return &TxManager{db: db} }

func (m *TxManager) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Catalog
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  icon TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_title_nocase ON categories(LOWER(title));

CREATE TABLE IF NOT EXISTS brands(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  website_url TEXT NOT NULL DEFAULT '',
  logo_url TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_brands_name_nocase ON brands(LOWER(name));

-- Money columns are TEXT so decimal values round-trip exactly.
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL CHECK (CAST(price AS REAL) >= 0),
  offer_price TEXT NOT NULL CHECK (CAST(offer_price AS REAL) >= 0 AND CAST(offer_price AS REAL) <= CAST(price AS REAL)),
  installments INTEGER NOT NULL CHECK (installments BETWEEN 1 AND 24),
  stock INTEGER NOT NULL CHECK (stock BETWEEN 0 AND 10000),
  months_warranty INTEGER NOT NULL CHECK (months_warranty BETWEEN 0 AND 36),
  is_gamer INTEGER NOT NULL DEFAULT 0,
  brand_id INTEGER NOT NULL REFERENCES brands(id) ON DELETE RESTRICT,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_brand    ON products(brand_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS product_images(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  url TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  is_default INTEGER NOT NULL DEFAULT 0,
  UNIQUE(url, product_id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_product_images_default ON product_images(product_id) WHERE is_default = 1;

-- Customers
CREATE TABLE IF NOT EXISTS customers(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  is_staff INTEGER NOT NULL DEFAULT 0,
  birthdate TEXT NOT NULL,
  gender TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  points INTEGER NOT NULL DEFAULT 0 CHECK (points BETWEEN 0 AND 1000000),
  joined TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_username ON customers(LOWER(username));
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email    ON customers(LOWER(email));

CREATE TABLE IF NOT EXISTS delivery_men(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  license_plate_number TEXT NOT NULL DEFAULT '',
  available INTEGER NOT NULL DEFAULT 0
);

-- Cart & favorites
CREATE TABLE IF NOT EXISTS cart_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(product_id, customer_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_customer ON cart_items(customer_id);

CREATE TABLE IF NOT EXISTS fav_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(product_id, customer_id)
);
CREATE INDEX IF NOT EXISTS idx_fav_items_customer ON fav_items(customer_id);

-- Coupons
CREATE TABLE IF NOT EXISTS coupons(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  amount TEXT NOT NULL,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  paid TEXT NOT NULL DEFAULT '0',
  purchase_date TEXT NOT NULL,
  delivery_term TEXT NOT NULL,
  dispatched INTEGER NOT NULL DEFAULT 0,
  on_the_way INTEGER NOT NULL DEFAULT 0,
  delivered INTEGER NOT NULL DEFAULT 0,
  payment_method TEXT NOT NULL,
  country TEXT NOT NULL,
  city TEXT NOT NULL,
  address TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT 'Nothing',
  customer_id INTEGER NULL REFERENCES customers(id) ON DELETE SET NULL,
  delivery_man_id INTEGER NULL REFERENCES delivery_men(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer_active ON orders(customer_id, delivered);
CREATE INDEX IF NOT EXISTS idx_orders_purchase_date   ON orders(purchase_date);

CREATE TABLE IF NOT EXISTS order_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  total_cost TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 10),
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  order_id TEXT NULL REFERENCES orders(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order   ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rating REAL NOT NULL CHECK (rating BETWEEN 1 AND 5),
  content TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL,
  is_useful INTEGER NOT NULL DEFAULT 0,
  hidden INTEGER NOT NULL DEFAULT 0,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  UNIQUE(customer_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);
CREATE INDEX IF NOT EXISTS idx_reviews_date    ON reviews(date);

CREATE TABLE IF NOT EXISTS review_likes(
  review_id INTEGER NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  PRIMARY KEY(review_id, customer_id)
);
CREATE TABLE IF NOT EXISTS review_dislikes(
  review_id INTEGER NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  PRIMARY KEY(review_id, customer_id)
);
CREATE TABLE IF NOT EXISTS review_reports(
  review_id INTEGER NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
  customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  PRIMARY KEY(review_id, customer_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo brands/categories/products/images")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,title,description,icon) VALUES
	  (1,'Laptops','Portable computers','laptop'),
	  (2,'Monitors','Displays and panels','monitor'),
	  (3,'Peripherals','Keyboards, mice and headsets','keyboard')`)

	tx.MustExec(`INSERT INTO brands(id,name,description,website_url,logo_url) VALUES
	  (1,'Lenovo','Lenovo Group','https://www.lenovo.com','brands/lenovo.png'),
	  (2,'ASUS','ASUSTeK Computer','https://www.asus.com','brands/asus.png'),
	  (3,'Logitech','Logitech International','https://www.logitech.com','brands/logitech.png')`)

	tx.MustExec(`INSERT INTO products(id,name,description,price,offer_price,installments,stock,months_warranty,is_gamer,brand_id,category_id) VALUES
	  (1,'Legion 5 Pro','16 inch gaming laptop','1499.99','1299.99',12,40,24,1,1,1),
	  (2,'IdeaPad Slim 3','Everyday ultrabook','699.00','649.00',6,120,12,0,1,1),
	  (3,'ROG Swift PG27','27 inch 240Hz monitor','899.00','799.00',12,25,36,1,2,2),
	  (4,'ProArt PA248','24 inch color accurate monitor','329.00','329.00',3,60,24,0,2,2),
	  (5,'G Pro X Superlight','Wireless gaming mouse','159.99','129.99',1,300,24,1,3,3),
	  (6,'MX Keys','Wireless office keyboard','119.99','99.99',1,200,12,0,3,3)`)

	tx.MustExec(`INSERT INTO product_images(product_id,url,description,is_default) VALUES
	  (1,'products/1/main.jpg','Front',1),
	  (1,'products/1/side.jpg','Side',0),
	  (2,'products/2/main.jpg','Front',1),
	  (3,'products/3/main.jpg','Front',1),
	  (4,'products/4/main.jpg','Front',1),
	  (5,'products/5/main.jpg','Top',1),
	  (6,'products/6/main.jpg','Top',1)`)

	return tx.Commit()
}

// seedCustomers ensures demo customers and one staff account exist (idempotent).
func seedCustomers(db *sqlx.DB) error {
	type c struct {
		Username, Email, Hash string
		Staff                 bool
	}
	mk := func(username, email, raw string, staff bool) (c, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
		if err != nil {
			return c{}, err
		}
		return c{Username: username, Email: email, Hash: string(h), Staff: staff}, nil
	}

	var seeds []c
	for _, s := range []struct {
		u, e  string
		staff bool
	}{
		{"alice", "alice@gotier.test", false},
		{"bob", "bob@gotier.test", false},
		{"staff", "staff@gotier.test", true},
	} {
		x, err := mk(s.u, s.e, "Passw0rd!", s.staff)
		if err != nil {
			return err
		}
		seeds = append(seeds, x)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range seeds {
		if _, err := tx.Exec(`
			INSERT INTO customers(username,email,password_hash,is_staff,birthdate,country,city,address)
			VALUES(?,?,?,?,'1990-01-01','Colombia','Bogota','Calle 1 # 2-3')
			ON CONFLICT DO NOTHING
		`, x.Username, x.Email, x.Hash, x.Staff); err != nil {
			return err
		}
	}

	return tx.Commit()
}
