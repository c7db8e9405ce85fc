package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
	"gotier/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/search/:terms
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	raw := c.Params("terms")
	terms, ok := validate.Terms(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "terms", "value": raw})
		return domain.Validation("terms", "Enter valid search terms (letters and numbers only).")
	}
	crit, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}
	crit.OrderBy = strings.TrimSpace(c.Query("order_by"))

	res, err := h.Catalog.Search(c.UserContext(), terms, crit, validate.Page(c.Query("page")))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
