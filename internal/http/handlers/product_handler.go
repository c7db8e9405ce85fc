package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/repos"
	"gotier/internal/services"
	"gotier/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Ranking *services.RankingService
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}
	cards, err := h.Catalog.FilterProducts(c.UserContext(), crit, validate.Page(c.Query("page")))
	if err != nil {
		return err
	}
	return c.JSON(cards)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return err
	}
	card, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(card)
}

// GET /api/products/best-sellers
func (h *ProductHandler) BestSellers(c *fiber.Ctx) error {
	ranked, err := h.Ranking.BestSellers(c.UserContext(), c.Query("category"))
	if err != nil {
		return err
	}
	products := make([]domain.Product, 0, len(ranked))
	for _, r := range ranked {
		products = append(products, r.Product)
	}
	cards, err := h.Catalog.Cards(c.UserContext(), products)
	if err != nil {
		return err
	}
	return c.JSON(cards)
}

// criteriaFromQuery reads the shared product filters. Unparsable prices and
// installments are ignored; a bad is_gamer flag is rejected.
func criteriaFromQuery(c *fiber.Ctx) (repos.Criteria, error) {
	crit := repos.Criteria{
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
	}
	if v := strings.TrimSpace(c.Query("is_gamer")); v != "" {
		b, ok := parseBool(v)
		if !ok {
			return repos.Criteria{}, domain.Validation("is_gamer", "Invalid is_gamer value.")
		}
		crit.IsGamer = &b
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(c.Query("min_price"))); err == nil {
		crit.MinPrice = &v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(c.Query("max_price"))); err == nil {
		crit.MaxPrice = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("installments"))); err == nil {
		crit.Installments = &v
	}
	return crit, nil
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "y", "yes", "t", "true", "on", "1":
		return true, true
	case "n", "no", "f", "false", "off", "0":
		return false, true
	}
	return false, false
}
