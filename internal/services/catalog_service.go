package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
	"gotier/internal/repos"
)

const PageSize = 10

// ProductCard is the product as shown on listings and detail pages.
type ProductCard struct {
	Details        domain.Product        `json:"details"`
	DefaultImage   *domain.ProductImage  `json:"default_img"`
	Images         []domain.ProductImage `json:"images"`
	Sold           int                   `json:"sold"`
	BestSeller     bool                  `json:"best_seller"`
	ReviewsCounter int                   `json:"reviews_counter"`
	Rating         *float64              `json:"rating"`
	Availability   domain.Availability   `json:"availability"`
}

// SearchResult is one page of search matches plus facets over all matches.
type SearchResult struct {
	Results  int           `json:"results"`
	Pages    int           `json:"pages"`
	Products []ProductCard `json:"products"`
	repos.Facets
}

type CatalogService struct {
	Tx      *repos.TxManager
	Prods   *repos.ProductRepo
	Ranking *RankingService
}

func NewCatalogService(tx *repos.TxManager, prods *repos.ProductRepo, ranking *RankingService) *CatalogService {
	return &CatalogService{Tx: tx, Prods: prods, Ranking: ranking}
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.Prods.ListBrands(ctx)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Prods.ListCategories(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (ProductCard, error) {
	p, err := s.Prods.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return ProductCard{}, domain.NotFound(fmt.Sprintf("Product with ID \"%d\" does not exist.", id))
	}
	if err != nil {
		return ProductCard{}, err
	}
	return s.card(ctx, p)
}

// Cards decorates products with their images and sales figures.
func (s *CatalogService) Cards(ctx context.Context, products []domain.Product) ([]ProductCard, error) {
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		c, err := s.card(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *CatalogService) card(ctx context.Context, p domain.Product) (ProductCard, error) {
	imgs, err := s.Prods.Images(ctx, p.ID)
	if err != nil {
		return ProductCard{}, fmt.Errorf("load images: %w", err)
	}
	stats, err := s.Prods.Stats(ctx, p.ID)
	if err != nil {
		return ProductCard{}, fmt.Errorf("load stats: %w", err)
	}
	best, err := s.Ranking.IsBestSeller(ctx, p.ID)
	if err != nil {
		return ProductCard{}, err
	}
	c := ProductCard{
		Details:        p,
		Images:         imgs,
		Sold:           stats.Sold,
		BestSeller:     best,
		ReviewsCounter: stats.ReviewsCounter,
		Rating:         stats.Rating,
		Availability:   domain.AvailabilityOf(p.Stock),
	}
	for i := range imgs {
		if imgs[i].IsDefault {
			c.DefaultImage = &imgs[i]
			break
		}
	}
	return c, nil
}

// FilterProducts returns one page of cards. page is 1-based.
func (s *CatalogService) FilterProducts(ctx context.Context, c repos.Criteria, page int) ([]ProductCard, error) {
	c.Terms = nil
	products, _, err := s.Prods.Filter(ctx, paged(c, page))
	if err != nil {
		return nil, err
	}
	return s.Cards(ctx, products)
}

// Search matches any of terms against product name, category title and
// brand name, then applies c. Facets only consider the terms.
func (s *CatalogService) Search(ctx context.Context, terms []string, c repos.Criteria, page int) (SearchResult, error) {
	if len(terms) == 0 {
		return SearchResult{}, domain.Validation("search", "At least one search term is required.")
	}
	if c.OrderBy != "" && !repos.ValidOrderBy(c.OrderBy) {
		return SearchResult{}, domain.Validation("order_by", "Unsupported order_by value.")
	}
	c.Terms = terms
	facets, err := s.Prods.Facets(ctx, terms)
	if err != nil {
		return SearchResult{}, fmt.Errorf("facets: %w", err)
	}
	products, total, err := s.Prods.Filter(ctx, paged(c, page))
	if err != nil {
		return SearchResult{}, err
	}
	cards, err := s.Cards(ctx, products)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Results:  total,
		Pages:    pages(total),
		Products: cards,
		Facets:   facets,
	}, nil
}

func paged(c repos.Criteria, page int) repos.Criteria {
	if page < 1 {
		page = 1
	}
	c.Limit = PageSize
	c.Offset = (page - 1) * PageSize
	return c
}

func pages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// SetOfferPrice reprices a product. The offer may not exceed the list price.
// Existing order items keep the cost they were placed at.
func (s *CatalogService) SetOfferPrice(ctx context.Context, id int64, offer decimal.Decimal) error {
	if offer.IsNegative() {
		return domain.Validation("offer_price", "Offer price cannot be negative.")
	}
	return s.Tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		prods := s.Prods.WithTx(tx)
		p, err := prods.Get(ctx, id)
		if errors.Is(err, repos.ErrNotFound) {
			return domain.NotFound(fmt.Sprintf("Product with ID \"%d\" does not exist.", id))
		}
		if err != nil {
			return err
		}
		if offer.GreaterThan(p.Price) {
			return domain.Validation("offer_price", fmt.Sprintf("Offer price cannot exceed the price of %s.", p.Price.StringFixed(2)))
		}
		return prods.SetOfferPrice(ctx, id, offer)
	})
}

// SetDefaultImage makes imageID the single default image of productID.
func (s *CatalogService) SetDefaultImage(ctx context.Context, productID, imageID int64) error {
	return s.Tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		err := s.Prods.WithTx(tx).SetDefaultImage(ctx, productID, imageID)
		if errors.Is(err, repos.ErrNotFound) {
			return domain.NotFound(fmt.Sprintf("Image with ID \"%d\" does not belong to product \"%d\".", imageID, productID))
		}
		return err
	})
}
