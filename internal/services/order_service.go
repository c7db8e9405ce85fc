package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"gotier/internal/domain"
	"gotier/internal/repos"
)

var errOrderNotFound = domain.NotFound("Order not found.")

// OrderPatch carries the customer-editable order fields; nil means unchanged.
type OrderPatch struct {
	Country *string `json:"country"`
	City    *string `json:"city"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type OrderService struct {
	tx     *repos.TxManager
	orders *repos.OrderRepo
}

func NewOrderService(tx *repos.TxManager, orders *repos.OrderRepo) *OrderService {
	return &OrderService{tx: tx, orders: orders}
}

// UpdateOrder applies patch to an order owned by customerID while it is not on the way.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, customerID int64, patch OrderPatch) (domain.Order, error) {
	var out domain.Order
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.GetOwned(ctx, orderID, customerID)
		if errors.Is(err, repos.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if !o.CanEdit() {
			return domain.BusinessRule(domain.ReasonOrderOnTheWay)
		}
		if err := applyPatch(&o, patch); err != nil {
			return err
		}
		if err := orders.UpdateDetails(ctx, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		out = o
		return nil
	})
	return out, err
}

func applyPatch(o *domain.Order, p OrderPatch) error {
	set := func(dst *string, v *string, field string, max int) error {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			return domain.Validation(field, fmt.Sprintf("The %s field may not be blank.", field))
		}
		if len(t) > max {
			return domain.Validation(field, fmt.Sprintf("The %s field is too long.", field))
		}
		*dst = t
		return nil
	}
	if err := set(&o.Country, p.Country, "country", 45); err != nil {
		return err
	}
	if err := set(&o.City, p.City, "city", 45); err != nil {
		return err
	}
	if err := set(&o.Address, p.Address, "address", 1000); err != nil {
		return err
	}
	return set(&o.Notes, p.Notes, "notes", 255)
}

// CancelOrder deletes an undispatched order and its items. The coupon used
// to pay for it is not given back.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string, customerID int64) error {
	return s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.GetOwned(ctx, orderID, customerID)
		if errors.Is(err, repos.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if !o.CanCancel() {
			return domain.BusinessRule(domain.ReasonOrderDispatched)
		}
		if err := orders.Delete(ctx, o.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
}

// AdvanceOrder moves fulfillment forward. Callers must already be staff.
func (s *OrderService) AdvanceOrder(ctx context.Context, orderID string, target domain.OrderState) (domain.Order, error) {
	var out domain.Order
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.Get(ctx, orderID)
		if errors.Is(err, repos.ErrNotFound) {
			return errOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if err := o.Advance(target); err != nil {
			return err
		}
		if err := orders.UpdateProgress(ctx, o); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		out = o
		return nil
	})
	return out, err
}

func (s *OrderService) ListPurchaseHistory(ctx context.Context, customerID int64) ([]repos.PurchaseRow, error) {
	return s.orders.Purchases(ctx, customerID)
}

func (s *OrderService) GetPurchase(ctx context.Context, customerID, orderItemID int64) (repos.PurchaseRow, error) {
	p, err := s.orders.Purchase(ctx, customerID, orderItemID)
	if errors.Is(err, repos.ErrNotFound) {
		return repos.PurchaseRow{}, domain.NotFound("Purchase not found.")
	}
	return p, err
}
