package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gotier/internal/domain"
	"gotier/internal/repos"
)

type CouponService struct {
	Coupons   *repos.CouponRepo
	Customers *repos.CustomerRepo
}

func NewCouponService(coupons *repos.CouponRepo, customers *repos.CustomerRepo) *CouponService {
	return &CouponService{Coupons: coupons, Customers: customers}
}

func (s *CouponService) List(ctx context.Context, customerID int64) ([]domain.Coupon, error) {
	return s.Coupons.ListByCustomer(ctx, customerID)
}

// Grant gives a customer a single-use coupon.
func (s *CouponService) Grant(ctx context.Context, customerID int64, title string, amount decimal.Decimal) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 45 {
		return 0, domain.Validation("title", "Coupon title must be between 1 and 45 characters.")
	}
	if !amount.IsPositive() {
		return 0, domain.Validation("amount", "Coupon amount must be positive.")
	}
	if _, err := s.Customers.ByID(ctx, customerID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return 0, domain.NotFound(fmt.Sprintf("Customer with ID \"%d\" does not exist.", customerID))
		}
		return 0, err
	}
	return s.Coupons.Create(ctx, customerID, title, amount)
}
