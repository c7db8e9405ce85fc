package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotier/internal/domain"
	"gotier/internal/repos"
	"gotier/internal/services"
)

func TestInventoryService_CheckAvailability(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewInventoryService(repos.NewInventoryRepo(db))

	require.NoError(t, svc.Restock(ctx, 1, 6))
	a, err := svc.CheckAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Availability{Status: "IN_STOCK", Qty: 6}, a)

	require.NoError(t, svc.Restock(ctx, 1, 2))
	a, err = svc.CheckAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "LOW_STOCK", a.Status)

	require.NoError(t, svc.Restock(ctx, 1, 0))
	a, err = svc.CheckAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "OUT_OF_STOCK", a.Status)
}

func TestInventoryService_RestockErrors(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewInventoryService(repos.NewInventoryRepo(db))

	assert.True(t, domain.IsKind(svc.Restock(ctx, 1, -1), domain.KindValidation))
	assert.True(t, domain.IsKind(svc.Restock(ctx, 1, services.MaxStock+1), domain.KindValidation))
	require.NoError(t, svc.Restock(ctx, 1, services.MaxStock))
	assert.True(t, domain.IsKind(svc.Restock(ctx, 999, 3), domain.KindNotFound))

	_, err := svc.CheckAvailability(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
