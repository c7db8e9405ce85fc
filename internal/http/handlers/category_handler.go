package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gotier/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(cats)
}

// GET /api/brands
func (h *CategoryHandler) Brands(c *fiber.Ctx) error {
	brands, err := h.Catalog.ListBrands(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(brands)
}
