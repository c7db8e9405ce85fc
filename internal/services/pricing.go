package services

import (
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
)

const (
	MinLineQty = 1
	MaxLineQty = 10
)

var hundred = decimal.NewFromInt(100)

// PriceLine is one product line with the unit price read at order time.
type PriceLine struct {
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
}

// Cost is the frozen total_cost of the line.
func (l PriceLine) Cost() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type PricingPolicy struct {
	// ClampNegative floors the total at zero instead of letting a large
	// coupon produce a negative amount.
	ClampNegative bool
}

type Quote struct {
	Subtotal          decimal.Decimal
	CouponAmount      decimal.Decimal
	AfterCoupon       decimal.Decimal
	MultiItemDiscount decimal.Decimal
	Total             decimal.Decimal
	Clamped           bool
}

// Price computes what customerID owes for lines. The coupon, when present,
// must belong to the customer. With more than one line the post-coupon total
// gets an extra discount of lines percent (3 lines, 3% off).
func Price(customerID int64, lines []PriceLine, coupon *domain.Coupon, policy PricingPolicy) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, domain.Validation("products", "At least one product is required.")
	}
	var q Quote
	for _, l := range lines {
		if l.Quantity < MinLineQty || l.Quantity > MaxLineQty {
			return Quote{}, domain.Validation("quantity", "Quantity must be between 1 and 10.")
		}
		if l.UnitPrice.IsNegative() {
			return Quote{}, domain.Validation("price", "Unit price cannot be negative.")
		}
		q.Subtotal = q.Subtotal.Add(l.Cost())
	}

	q.AfterCoupon = q.Subtotal
	if coupon != nil {
		if coupon.CustomerID != customerID {
			return Quote{}, domain.Unauthorized(domain.ReasonCouponNotOwned)
		}
		q.CouponAmount = coupon.Amount
		q.AfterCoupon = q.Subtotal.Sub(coupon.Amount)
	}

	q.Total = q.AfterCoupon
	if n := len(lines); n > 1 {
		q.MultiItemDiscount = q.AfterCoupon.Mul(decimal.NewFromInt(int64(n))).Div(hundred)
		q.Total = q.AfterCoupon.Sub(q.MultiItemDiscount)
	}

	if policy.ClampNegative && q.Total.IsNegative() {
		q.Total = decimal.Zero
		q.Clamped = true
	}
	q.Total = q.Total.Round(2)
	return q, nil
}
