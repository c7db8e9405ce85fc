package services

import (
	"context"
	"errors"
	"fmt"

	"gotier/internal/domain"
	"gotier/internal/repos"
)

// MaxStock is the most units a product can hold.
const MaxStock = 10000

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

func (s *InventoryService) CheckAvailability(ctx context.Context, productID int64) (domain.Availability, error) {
	qty, err := s.Inv.Qty(ctx, productID)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.Availability{}, errProductNotFound
	}
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.AvailabilityOf(qty), nil
}

func (s *InventoryService) List(ctx context.Context) ([]repos.InventoryRow, error) {
	return s.Inv.ListAll(ctx)
}

// Restock sets the stock of a product. Orders never decrement it.
func (s *InventoryService) Restock(ctx context.Context, productID int64, qty int) error {
	if qty < 0 {
		return domain.Validation("stock", "Stock cannot be negative.")
	}
	if qty > MaxStock {
		return domain.Validation("stock", fmt.Sprintf("Stock cannot exceed %d units.", MaxStock))
	}
	err := s.Inv.SetQty(ctx, productID, qty)
	if errors.Is(err, repos.ErrNotFound) {
		return errProductNotFound
	}
	return err
}
