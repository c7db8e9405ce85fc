package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gotier/internal/config"
	"gotier/internal/repos"
	"gotier/internal/services"
)

// Seeded customers: alice=1, bob=2, staff=3.
const (
	alice int64 = 1
	bob   int64 = 2
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fixedClock(day string) func() time.Time {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts.Add(10 * time.Hour) }
}

func newCheckout(db *sqlx.DB, lim config.Limits, clock func() time.Time) *services.CheckoutService {
	return services.NewCheckoutService(services.CheckoutDeps{
		Tx:       repos.NewTxManager(db),
		Orders:   repos.NewOrderRepo(db),
		Products: repos.NewProductRepo(db),
		Coupons:  repos.NewCouponRepo(db),
		Cart:     repos.NewCartRepo(db),
		Limits:   lim,
		Clock:    clock,
	})
}

func orderCmd(customer int64, lines ...services.LineItem) services.CreateOrderCommand {
	return services.CreateOrderCommand{
		CustomerID:    customer,
		Lines:         lines,
		PaymentMethod: "card",
		Country:       "Colombia",
		City:          "Bogota",
		Address:       "Calle 1 # 2-3",
	}
}

func grantCoupon(t *testing.T, db *sqlx.DB, customer int64, amount string) int64 {
	t.Helper()
	id, err := repos.NewCouponRepo(db).Create(context.Background(), customer, "promo", decimal.RequireFromString(amount))
	require.NoError(t, err)
	return id
}
