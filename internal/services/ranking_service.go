package services

import (
	"context"
	"fmt"
	"strings"

	"gotier/internal/domain"
	"gotier/internal/repos"
)

// BestSeller is a ranked product with its all-time ordered quantity.
type BestSeller struct {
	domain.Product
	TotalQuantity int `json:"total_quantity"`
}

type RankingService struct {
	ranking  *repos.RankingRepo
	products *repos.ProductRepo
	top      int
}

func NewRankingService(ranking *repos.RankingRepo, products *repos.ProductRepo, top int) *RankingService {
	if top <= 0 {
		top = 25
	}
	return &RankingService{ranking: ranking, products: products, top: top}
}

// BestSellers returns the top ranked products. The category filter applies
// after ranking, so a category can show fewer than top entries.
func (s *RankingService) BestSellers(ctx context.Context, category string) ([]BestSeller, error) {
	ranked, err := s.ranking.TopProducts(ctx, s.top)
	if err != nil {
		return nil, fmt.Errorf("rank products: %w", err)
	}
	ids := make([]int64, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ProductID)
	}
	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ranked products: %w", err)
	}

	var categoryID int64
	if category = strings.TrimSpace(category); category != "" {
		cats, err := s.products.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		for _, c := range cats {
			if strings.EqualFold(c.Title, category) {
				categoryID = c.ID
			}
		}
		if categoryID == 0 {
			return []BestSeller{}, nil
		}
	}

	out := make([]BestSeller, 0, len(ranked))
	for _, r := range ranked {
		p, ok := products[r.ProductID]
		if !ok {
			continue
		}
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, BestSeller{Product: p, TotalQuantity: r.Total})
	}
	return out, nil
}

// IsBestSeller reports whether productID is in the current top ranking.
func (s *RankingService) IsBestSeller(ctx context.Context, productID int64) (bool, error) {
	ranked, err := s.ranking.TopProducts(ctx, s.top)
	if err != nil {
		return false, fmt.Errorf("rank products: %w", err)
	}
	for _, r := range ranked {
		if r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}
