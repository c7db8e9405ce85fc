package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Icon        string `db:"icon" json:"icon"`
}

type Brand struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	WebsiteURL  string `db:"website_url" json:"website_url"`
	LogoURL     string `db:"logo_url" json:"logo_url"`
}

type Product struct {
	ID             int64           `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Description    string          `db:"description" json:"description"`
	Price          decimal.Decimal `db:"price" json:"price"`
	OfferPrice     decimal.Decimal `db:"offer_price" json:"offer_price"`
	Installments   int             `db:"installments" json:"installments"`
	Stock          int             `db:"stock" json:"stock"`
	MonthsWarranty int             `db:"months_warranty" json:"months_warranty"`
	IsGamer        bool            `db:"is_gamer" json:"is_gamer"`
	BrandID        int64           `db:"brand_id" json:"brand"`
	CategoryID     int64           `db:"category_id" json:"category"`
}

type ProductImage struct {
	ID          int64  `db:"id" json:"id"`
	ProductID   int64  `db:"product_id" json:"product"`
	URL         string `db:"url" json:"url"`
	Description string `db:"description" json:"description"`
	IsDefault   bool   `db:"is_default" json:"is_default"`
}

type Customer struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	IsStaff   bool   `db:"is_staff" json:"-"`
	Birthdate string `db:"birthdate" json:"birthdate"`
	Gender    string `db:"gender" json:"gender,omitempty"`
	Phone     string `db:"phone" json:"phone"`
	Country   string `db:"country" json:"country"`
	City      string `db:"city" json:"city"`
	Address   string `db:"address" json:"address"`
	Points    int    `db:"points" json:"points"`
	Joined    string `db:"joined" json:"joined"`
}

type Coupon struct {
	ID         int64           `db:"id" json:"id"`
	Title      string          `db:"title" json:"title"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CustomerID int64           `db:"customer_id" json:"customer"`
}

type Order struct {
	ID            string          `db:"id" json:"id"`
	Paid          decimal.Decimal `db:"paid" json:"paid"`
	PurchaseDate  string          `db:"purchase_date" json:"purchase_date"`
	DeliveryTerm  string          `db:"delivery_term" json:"delivery_term"`
	Dispatched    bool            `db:"dispatched" json:"dispatched"`
	OnTheWay      bool            `db:"on_the_way" json:"on_the_way"`
	Delivered     bool            `db:"delivered" json:"delivered"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	Country       string          `db:"country" json:"country"`
	City          string          `db:"city" json:"city"`
	Address       string          `db:"address" json:"address"`
	Notes         string          `db:"notes" json:"notes"`
	CustomerID    *int64          `db:"customer_id" json:"customer"`
	DeliveryManID *int64          `db:"delivery_man_id" json:"delivery_man"`
}

type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	TotalCost decimal.Decimal `db:"total_cost" json:"total_cost"`
	Quantity  int             `db:"quantity" json:"quantity"`
	ProductID int64           `db:"product_id" json:"product"`
	OrderID   *string         `db:"order_id" json:"order"`
}

type Review struct {
	ID         int64   `db:"id" json:"id"`
	Rating     float64 `db:"rating" json:"rating"`
	Content    string  `db:"content" json:"content"`
	Date       string  `db:"date" json:"date"`
	IsUseful   bool    `db:"is_useful" json:"is_useful"`
	Hidden     bool    `db:"hidden" json:"-"`
	CustomerID int64   `db:"customer_id" json:"customer"`
	ProductID  int64   `db:"product_id" json:"product"`
}
