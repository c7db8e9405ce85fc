package services

import (
	"context"
	"fmt"

	"gotier/internal/domain"
)

type activeOrderCounter interface {
	CountActive(ctx context.Context, customerID int64) (int, error)
	CountPlacedOn(ctx context.Context, day string) (int, error)
}

// OrderLimiter guards checkout with the per-customer active order cap and the
// global daily order ceiling. It must run on the same transaction as the
// insert it protects.
type OrderLimiter struct {
	MaxActive int
	DailyCap  int
}

func (l OrderLimiter) Check(ctx context.Context, orders activeOrderCounter, customerID int64, day string) error {
	active, err := orders.CountActive(ctx, customerID)
	if err != nil {
		return fmt.Errorf("count active orders: %w", err)
	}
	if active >= l.MaxActive {
		return domain.BusinessRule(domain.ReasonTooManyActiveOrders(l.MaxActive))
	}
	return DailyCap(ctx, l.DailyCap, day, orders.CountPlacedOn, domain.ReasonDailyOrderCap)
}

// DailyCap rejects with a rate-limit error once count(day) reaches limit.
func DailyCap(ctx context.Context, limit int, day string, count func(context.Context, string) (int, error), reason string) error {
	n, err := count(ctx, day)
	if err != nil {
		return fmt.Errorf("count daily volume: %w", err)
	}
	if n >= limit {
		return domain.RateLimit(reason)
	}
	return nil
}
