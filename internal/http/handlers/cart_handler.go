package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
	"gotier/internal/validate"
)

type CartHandler struct {
	Cart    *services.CartService
	Catalog *services.CatalogService
}

func (h *CartHandler) cards(c *fiber.Ctx, products []domain.Product, err error) error {
	if err != nil {
		return err
	}
	cards, err := h.Catalog.Cards(c.UserContext(), products)
	if err != nil {
		return err
	}
	return c.JSON(cards)
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	products, err := h.Cart.ListCart(c.UserContext(), customerID(c))
	return h.cards(c, products, err)
}

// POST /api/cart/:product_id
func (h *CartHandler) Add(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Cart.AddToCart(c.UserContext(), customerID(c), pid); err != nil {
		return err
	}
	applog.Audit(c, "cart.add", map[string]any{"product_id": pid})
	return message(c, fiber.StatusOK, "The product was added to your cart.")
}

// DELETE /api/cart/:product_id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Cart.RemoveFromCart(c.UserContext(), customerID(c), pid); err != nil {
		return err
	}
	applog.Audit(c, "cart.remove", map[string]any{"product_id": pid})
	return message(c, fiber.StatusOK, "The product was removed from your cart.")
}

// PUT /api/cart/:product_id moves the product to favorites.
func (h *CartHandler) MoveToFavorites(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Cart.MoveCartToFavorites(c.UserContext(), customerID(c), pid); err != nil {
		return err
	}
	applog.Audit(c, "cart.move_to_favorites", map[string]any{"product_id": pid})
	return message(c, fiber.StatusOK, "The product was moved to your favorites.")
}

// GET /api/favorites
func (h *CartHandler) Favorites(c *fiber.Ctx) error {
	products, err := h.Cart.ListFavorites(c.UserContext(), customerID(c))
	return h.cards(c, products, err)
}

// POST /api/favorites/:product_id
func (h *CartHandler) AddFavorite(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Cart.AddFavorite(c.UserContext(), customerID(c), pid); err != nil {
		return err
	}
	applog.Audit(c, "favorites.add", map[string]any{"product_id": pid})
	return message(c, fiber.StatusOK, "The product was added to your favorites.")
}

// DELETE /api/favorites/:product_ids accepts a comma separated list.
func (h *CartHandler) RemoveFavorites(c *fiber.Ctx) error {
	ids, ok := validate.IDList(c.Params("product_ids"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_ids"})
		return domain.Validation("product_ids", "Product IDs must be comma separated positive integers.")
	}
	n, err := h.Cart.RemoveFavorites(c.UserContext(), customerID(c), ids...)
	if err != nil {
		return err
	}
	applog.Audit(c, "favorites.remove", map[string]any{"product_ids": ids, "removed": n})
	return message(c, fiber.StatusOK, "The product was removed from your favorites.")
}

// PUT /api/favorites/:product_id moves the product to the cart.
func (h *CartHandler) MoveToCart(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Cart.MoveFavoriteToCart(c.UserContext(), customerID(c), pid); err != nil {
		return err
	}
	applog.Audit(c, "favorites.move_to_cart", map[string]any{"product_id": pid})
	return message(c, fiber.StatusOK, "The product was moved to your cart.")
}
