package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gotier/internal/domain"
	"gotier/internal/repos"
)

// savedList is one side of the cart/favorites pair.
type savedList struct {
	repo    *repos.SavedItemRepo
	cap     int
	full    func(int) string
	dup     string
	missing string
	noun    string
}

// CartService manages the cart and the favorites list. Both are capped
// per customer and a product moves between them atomically.
type CartService struct {
	tx       *repos.TxManager
	products *repos.ProductRepo
	cart     savedList
	favs     savedList
}

func NewCartService(tx *repos.TxManager, products *repos.ProductRepo, cart, favs *repos.SavedItemRepo, cartCap, favCap int) *CartService {
	return &CartService{
		tx:       tx,
		products: products,
		cart: savedList{
			repo: cart, cap: cartCap, full: domain.ReasonCartFull,
			dup: domain.ReasonAlreadyInCart, missing: "The product is not in your cart.", noun: "cart",
		},
		favs: savedList{
			repo: favs, cap: favCap, full: domain.ReasonFavoritesFull,
			dup: domain.ReasonAlreadyInFavorites, missing: "The product is not in your favorites.", noun: "favorites",
		},
	}
}

func (s *CartService) AddToCart(ctx context.Context, customerID, productID int64) error {
	return s.add(ctx, s.cart, customerID, productID)
}

func (s *CartService) AddFavorite(ctx context.Context, customerID, productID int64) error {
	return s.add(ctx, s.favs, customerID, productID)
}

func (s *CartService) RemoveFromCart(ctx context.Context, customerID, productID int64) error {
	n, err := s.cart.repo.Remove(ctx, customerID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(s.cart.missing)
	}
	return nil
}

// RemoveFavorites drops every listed product; ids not in the list are ignored.
func (s *CartService) RemoveFavorites(ctx context.Context, customerID int64, productIDs ...int64) (int64, error) {
	return s.favs.repo.Remove(ctx, customerID, productIDs...)
}

func (s *CartService) MoveCartToFavorites(ctx context.Context, customerID, productID int64) error {
	return s.move(ctx, s.cart, s.favs, customerID, productID)
}

func (s *CartService) MoveFavoriteToCart(ctx context.Context, customerID, productID int64) error {
	return s.move(ctx, s.favs, s.cart, customerID, productID)
}

func (s *CartService) ListCart(ctx context.Context, customerID int64) ([]domain.Product, error) {
	return s.cart.repo.Products(ctx, customerID)
}

func (s *CartService) ListFavorites(ctx context.Context, customerID int64) ([]domain.Product, error) {
	return s.favs.repo.Products(ctx, customerID)
}

func (s *CartService) add(ctx context.Context, l savedList, customerID, productID int64) error {
	return s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		return s.insert(ctx, tx, l, customerID, productID)
	})
}

// insert checks the cap and the product, then adds the row on tx.
func (s *CartService) insert(ctx context.Context, tx *sqlx.Tx, l savedList, customerID, productID int64) error {
	items := l.repo.WithTx(tx)
	n, err := items.Count(ctx, customerID)
	if err != nil {
		return fmt.Errorf("count %s: %w", l.noun, err)
	}
	if n >= l.cap {
		return domain.BusinessRule(l.full(l.cap))
	}
	if _, err := s.products.WithTx(tx).Get(ctx, productID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return domain.NotFound(fmt.Sprintf("Product with ID \"%d\" does not exist.", productID))
		}
		return err
	}
	err = items.Add(ctx, customerID, productID)
	if errors.Is(err, repos.ErrDuplicate) {
		return domain.BusinessRule(l.dup)
	}
	return err
}

func (s *CartService) move(ctx context.Context, from, to savedList, customerID, productID int64) error {
	return s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		has, err := from.repo.WithTx(tx).Has(ctx, customerID, productID)
		if err != nil {
			return err
		}
		if !has {
			return domain.NotFound(from.missing)
		}
		if err := s.insert(ctx, tx, to, customerID, productID); err != nil {
			return err
		}
		_, err = from.repo.WithTx(tx).Remove(ctx, customerID, productID)
		return err
	})
}
