package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotier/internal/config"
	"gotier/internal/domain"
	"gotier/internal/repos"
	"gotier/internal/services"
)

func TestCreateOrder_PricesFreezesAndConsumesCoupon(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))
	couponID := grantCoupon(t, db, alice, "50")

	cmd := orderCmd(alice,
		services.LineItem{ProductID: 5, Quantity: 2},
		services.LineItem{ProductID: 6, Quantity: 1},
	)
	cmd.CouponID = &couponID
	res, err := svc.CreateOrder(ctx, cmd)
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)

	orders := repos.NewOrderRepo(db)
	o, err := orders.Get(ctx, res.OrderID)
	require.NoError(t, err)
	// (259.98 + 99.99 - 50) * 0.98
	assert.Equal(t, "303.77", o.Paid.StringFixed(2))
	assert.Equal(t, "2024-03-10", o.PurchaseDate)
	assert.Equal(t, "2024-03-13", o.DeliveryTerm)
	assert.Equal(t, "Nothing", o.Notes)
	assert.Equal(t, domain.StatePlaced, o.State())

	_, err = repos.NewCouponRepo(db).Get(ctx, couponID)
	assert.ErrorIs(t, err, repos.ErrNotFound)

	// later price changes do not touch placed items
	require.NoError(t, repos.NewProductRepo(db).SetOfferPrice(ctx, 5, decimal.RequireFromString("10.00")))
	items, err := orders.Items(ctx, res.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "259.98", items[0].TotalCost.StringFixed(2))
	assert.Equal(t, "99.99", items[1].TotalCost.StringFixed(2))
}

func TestCreateOrder_CouponIsSingleUse(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))
	couponID := grantCoupon(t, db, alice, "5")

	cmd := orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1})
	cmd.CouponID = &couponID
	_, err := svc.CreateOrder(ctx, cmd)
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, cmd)
	assert.True(t, domain.IsKind(err, domain.KindNotFound), "got %v", err)

	n, err := repos.NewOrderRepo(db).CountByCustomer(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreateOrder_ForeignCouponRollsBack(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))
	bobsCoupon := grantCoupon(t, db, bob, "5")

	cmd := orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1})
	cmd.CouponID = &bobsCoupon
	_, err := svc.CreateOrder(ctx, cmd)
	assert.ErrorIs(t, err, domain.Unauthorized(domain.ReasonCouponNotOwned))

	n, err := repos.NewOrderRepo(db).CountByCustomer(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = repos.NewCouponRepo(db).Get(ctx, bobsCoupon)
	assert.NoError(t, err)
}

func TestCreateOrder_FourthActiveOrderRejected(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))
	orders := repos.NewOrderRepo(db)

	var first string
	for i := 0; i < 3; i++ {
		res, err := svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 2, Quantity: 1}))
		require.NoError(t, err)
		if i == 0 {
			first = res.OrderID
		}
	}

	_, err := svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 2, Quantity: 1}))
	assert.ErrorIs(t, err, domain.BusinessRule(domain.ReasonTooManyActiveOrders(3)))
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "You cannot have more than 3 active orders.", de.Reason)

	n, err := orders.CountActive(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// delivering one frees a slot
	_, err = services.NewOrderService(repos.NewTxManager(db), orders).AdvanceOrder(ctx, first, domain.StateDelivered)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 2, Quantity: 1}))
	assert.NoError(t, err)
}

func TestCreateOrder_DailyCapIsRateLimit(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	lim := config.DefaultLimits()
	lim.DailyOrderCap = 2
	svc := newCheckout(db, lim, fixedClock("2024-03-10"))

	_, err := svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderCmd(bob, services.LineItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1}))
	assert.ErrorIs(t, err, domain.RateLimit(domain.ReasonDailyOrderCap))

	// the cap is per calendar day
	tomorrow := newCheckout(db, lim, fixedClock("2024-03-11"))
	_, err = tomorrow.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1}))
	assert.NoError(t, err)
}

func TestCreateOrder_UnknownProductLeavesNothing(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))

	_, err := svc.CreateOrder(ctx, orderCmd(alice,
		services.LineItem{ProductID: 1, Quantity: 1},
		services.LineItem{ProductID: 999, Quantity: 1},
	))
	assert.True(t, domain.IsKind(err, domain.KindNotFound), "got %v", err)

	n, err := repos.NewOrderRepo(db).CountByCustomer(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateOrder_ValidationBeforeWrites(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))

	dup := orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1}, services.LineItem{ProductID: 1, Quantity: 2})
	tooMany := orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 11})
	noAddress := orderCmd(alice, services.LineItem{ProductID: 1, Quantity: 1})
	noAddress.Address = "   "
	empty := orderCmd(alice)

	for name, cmd := range map[string]services.CreateOrderCommand{
		"duplicate": dup, "quantity": tooMany, "address": noAddress, "empty": empty,
	} {
		_, err := svc.CreateOrder(ctx, cmd)
		assert.True(t, domain.IsKind(err, domain.KindValidation), "%s: got %v", name, err)
	}
	n, err := repos.NewOrderRepo(db).CountByCustomer(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateOrder_ClearsPurchasedCartItems(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := newCheckout(db, config.DefaultLimits(), fixedClock("2024-03-10"))
	cart := repos.NewCartRepo(db)
	require.NoError(t, cart.Add(ctx, alice, 5))
	require.NoError(t, cart.Add(ctx, alice, 6))

	_, err := svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 5, Quantity: 1}))
	require.NoError(t, err)

	left, err := cart.Products(ctx, alice)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.EqualValues(t, 6, left[0].ID)
}

func TestCreateOrder_ConcurrentCheckoutsRespectActiveCap(t *testing.T) {
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	lim := config.DefaultLimits()
	svc := newCheckout(db, lim, fixedClock("2024-03-10"))

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(ctx, orderCmd(alice, services.LineItem{ProductID: 2, Quantity: 1}))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.BusinessRule(domain.ReasonTooManyActiveOrders(lim.MaxActiveOrders)))
	}
	assert.Equal(t, lim.MaxActiveOrders, succeeded)

	n, err := repos.NewOrderRepo(db).CountByCustomer(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, lim.MaxActiveOrders, n)
}
