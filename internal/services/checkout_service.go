package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gotier/internal/config"
	"gotier/internal/domain"
	"gotier/internal/repos"
)

const dateLayout = "2006-01-02"

type LineItem struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderCommand struct {
	CustomerID    int64
	Lines         []LineItem
	PaymentMethod string
	Country       string
	City          string
	Address       string
	Notes         string
	CouponID      *int64
}

// CheckoutResult describes the order that was written.
type CheckoutResult struct {
	OrderID      string
	Quote        Quote
	DeliveryTerm string
	Items        []domain.OrderItem
}

type CheckoutDeps struct {
	Tx       *repos.TxManager
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
	Coupons  *repos.CouponRepo
	Cart     *repos.SavedItemRepo
	Limits   config.Limits
	Clock    func() time.Time
	NewID    func() string
}

type CheckoutService struct {
	tx       *repos.TxManager
	orders   *repos.OrderRepo
	products *repos.ProductRepo
	coupons  *repos.CouponRepo
	cart     *repos.SavedItemRepo
	limiter  OrderLimiter
	leadDays int
	policy   PricingPolicy
	clock    func() time.Time
	newID    func() string
}

func NewCheckoutService(deps CheckoutDeps) *CheckoutService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &CheckoutService{
		tx:       deps.Tx,
		orders:   deps.Orders,
		products: deps.Products,
		coupons:  deps.Coupons,
		cart:     deps.Cart,
		limiter:  OrderLimiter{MaxActive: deps.Limits.MaxActiveOrders, DailyCap: deps.Limits.DailyOrderCap},
		leadDays: deps.Limits.DeliveryLeadDays,
		policy:   PricingPolicy{ClampNegative: deps.Limits.ClampNegativeTotal},
		clock:    clock,
		newID:    newID,
	}
}

// CreateOrder turns the requested lines into a priced order. Limiter checks,
// the order shell, its items, pricing, the coupon and the cart cleanup share
// one transaction, so a rejection at any step leaves nothing behind.
func (s *CheckoutService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (CheckoutResult, error) {
	today := s.clock()
	day := today.Format(dateLayout)

	var out CheckoutResult
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		orders := s.orders.WithTx(tx)

		if err := s.limiter.Check(ctx, orders, cmd.CustomerID, day); err != nil {
			return err
		}
		if err := validateCheckout(cmd); err != nil {
			return err
		}

		ids := make([]int64, 0, len(cmd.Lines))
		for _, l := range cmd.Lines {
			ids = append(ids, l.ProductID)
		}
		found, err := s.products.WithTx(tx).GetMany(ctx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		lines := make([]PriceLine, 0, len(cmd.Lines))
		for _, l := range cmd.Lines {
			p, ok := found[l.ProductID]
			if !ok {
				return domain.NotFound(fmt.Sprintf("Product with ID \"%d\" does not exist.", l.ProductID))
			}
			lines = append(lines, PriceLine{ProductID: p.ID, UnitPrice: p.OfferPrice, Quantity: l.Quantity})
		}

		var coupon *domain.Coupon
		if cmd.CouponID != nil {
			c, err := s.coupons.WithTx(tx).Get(ctx, *cmd.CouponID)
			if errors.Is(err, repos.ErrNotFound) {
				return domain.NotFound(fmt.Sprintf("Coupon with ID \"%d\" does not exist.", *cmd.CouponID))
			}
			if err != nil {
				return fmt.Errorf("load coupon: %w", err)
			}
			coupon = &c
		}

		customerID := cmd.CustomerID
		order := domain.Order{
			ID:            s.newID(),
			Paid:          decimal.Zero,
			PurchaseDate:  day,
			DeliveryTerm:  today.AddDate(0, 0, s.leadDays).Format(dateLayout),
			PaymentMethod: strings.TrimSpace(cmd.PaymentMethod),
			Country:       strings.TrimSpace(cmd.Country),
			City:          strings.TrimSpace(cmd.City),
			Address:       strings.TrimSpace(cmd.Address),
			Notes:         strings.TrimSpace(cmd.Notes),
			CustomerID:    &customerID,
		}
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for _, l := range lines {
			it := domain.OrderItem{TotalCost: l.Cost(), Quantity: l.Quantity, ProductID: l.ProductID, OrderID: &order.ID}
			id, err := orders.InsertItem(ctx, it)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			it.ID = id
			items = append(items, it)
		}

		quote, err := Price(customerID, lines, coupon, s.policy)
		if err != nil {
			return err
		}
		if err := orders.SetPaid(ctx, order.ID, quote.Total); err != nil {
			return fmt.Errorf("set paid: %w", err)
		}
		if coupon != nil {
			if err := s.coupons.WithTx(tx).Consume(ctx, coupon.ID); err != nil {
				return fmt.Errorf("consume coupon: %w", err)
			}
		}
		if s.cart != nil {
			if _, err := s.cart.WithTx(tx).Remove(ctx, customerID, ids...); err != nil {
				return fmt.Errorf("clear purchased cart items: %w", err)
			}
		}

		out = CheckoutResult{OrderID: order.ID, Quote: quote, DeliveryTerm: order.DeliveryTerm, Items: items}
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	return out, nil
}

func validateCheckout(cmd CreateOrderCommand) error {
	if len(cmd.Lines) == 0 {
		return domain.Validation("products", "At least one product is required.")
	}
	seen := make(map[int64]struct{}, len(cmd.Lines))
	for _, l := range cmd.Lines {
		if l.ProductID <= 0 {
			return domain.Validation("products", "Product IDs must be positive integers.")
		}
		if l.Quantity < MinLineQty || l.Quantity > MaxLineQty {
			return domain.Validation("quantity", "Quantity must be between 1 and 10.")
		}
		if _, dup := seen[l.ProductID]; dup {
			return domain.Validation("products", "Each product can only appear once per order.")
		}
		seen[l.ProductID] = struct{}{}
	}
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"payment_method", cmd.PaymentMethod, 45},
		{"country", cmd.Country, 45},
		{"city", cmd.City, 45},
		{"address", cmd.Address, 1000},
	} {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return domain.Validation(f.name, fmt.Sprintf("The %s field is required.", strings.ReplaceAll(f.name, "_", " ")))
		}
		if len(v) > f.max {
			return domain.Validation(f.name, fmt.Sprintf("The %s field is too long.", strings.ReplaceAll(f.name, "_", " ")))
		}
	}
	if len(strings.TrimSpace(cmd.Notes)) > 255 {
		return domain.Validation("notes", "The notes field is too long.")
	}
	if cmd.CouponID != nil && *cmd.CouponID <= 0 {
		return domain.Validation("coupon", "Coupon ID must be a positive integer.")
	}
	return nil
}
