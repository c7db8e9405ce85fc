package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gotier/internal/services"
)

type CouponHandler struct {
	Coupons *services.CouponService
}

// GET /api/coupons
func (h *CouponHandler) List(c *fiber.Ctx) error {
	coupons, err := h.Coupons.List(c.UserContext(), customerID(c))
	if err != nil {
		return err
	}
	return c.JSON(coupons)
}
