package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "gotier/internal/log"
	"gotier/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/products/:id/availability
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return err
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(avail)
}
