package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotier/internal/domain"
	"gotier/internal/repos"
	"gotier/internal/services"
)

func TestCouponService_Grant(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewCouponService(repos.NewCouponRepo(db), repos.NewCustomerRepo(db))

	id, err := svc.Grant(ctx, bob, "  Welcome back ", decimal.RequireFromString("15"))
	require.NoError(t, err)

	coupons, err := svc.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, id, coupons[0].ID)
	assert.Equal(t, "Welcome back", coupons[0].Title)

	cases := []struct {
		name     string
		customer int64
		title    string
		amount   string
		kind     domain.Kind
	}{
		{"unknown customer", 999, "promo", "5", domain.KindNotFound},
		{"blank title", bob, "  ", "5", domain.KindValidation},
		{"zero amount", bob, "promo", "0", domain.KindValidation},
		{"negative amount", bob, "promo", "-5", domain.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Grant(ctx, tc.customer, tc.title, decimal.RequireFromString(tc.amount))
			assert.True(t, domain.IsKind(err, tc.kind), "got %v", err)
		})
	}
}
