package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
)

// AdminHandler serves the staff-only routes under /api/admin.
type AdminHandler struct {
	Orders   *services.OrderService
	Inv      *services.InventoryService
	Catalog  *services.CatalogService
	Coupons  *services.CouponService
	Accounts *services.CustomerService
}

// PUT /api/admin/orders/:order_id/state
func (h *AdminHandler) AdvanceOrder(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req struct {
		State string `json:"state"`
	}
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("body", "Malformed state change.")
	}
	target, ok := domain.ParseOrderState(req.State)
	if !ok {
		return domain.Validation("state", "State must be one of DISPATCHED, ON_THE_WAY or DELIVERED.")
	}
	o, err := h.Orders.AdvanceOrder(c.UserContext(), id, target)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.advance", map[string]any{"order_id": id, "state": target.String()})
	return c.JSON(fiber.Map{"id": o.ID, "state": o.State().String()})
}

// GET /api/admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// PUT /api/admin/inventory/:product_id
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	var req struct {
		Qty *int `json:"qty"`
	}
	if err := c.BodyParser(&req); err != nil || req.Qty == nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return domain.Validation("qty", "qty is required.")
	}
	if err := h.Inv.Restock(c.UserContext(), pid, *req.Qty); err != nil {
		return err
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": pid, "qty": *req.Qty})
	return message(c, fiber.StatusOK, "Inventory updated.")
}

// PUT /api/admin/products/:id/offer-price
func (h *AdminHandler) SetOfferPrice(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		OfferPrice string `json:"offer_price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("body", "Malformed price change.")
	}
	offer, err := decimal.NewFromString(req.OfferPrice)
	if err != nil {
		return domain.Validation("offer_price", "offer_price must be a decimal string.")
	}
	if err := h.Catalog.SetOfferPrice(c.UserContext(), pid, offer); err != nil {
		return err
	}
	applog.Audit(c, "admin.products.price", map[string]any{"product": pid, "offer_price": offer.StringFixed(2)})
	return message(c, fiber.StatusOK, "Offer price updated.")
}

// PUT /api/admin/products/:id/default-image/:image_id
func (h *AdminHandler) SetDefaultImage(c *fiber.Ctx) error {
	pid, err := paramID(c, "id")
	if err != nil {
		return err
	}
	img, err := paramID(c, "image_id")
	if err != nil {
		return err
	}
	if err := h.Catalog.SetDefaultImage(c.UserContext(), pid, img); err != nil {
		return err
	}
	applog.Audit(c, "admin.products.default_image", map[string]any{"product": pid, "image": img})
	return message(c, fiber.StatusOK, "Default image updated.")
}

// POST /api/admin/coupons
func (h *AdminHandler) GrantCoupon(c *fiber.Ctx) error {
	var req struct {
		Customer int64  `json:"customer"`
		Title    string `json:"title"`
		Amount   string `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil || req.Customer <= 0 {
		return domain.Validation("customer", "A customer id is required.")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.Validation("amount", "amount must be a decimal string.")
	}
	id, err := h.Coupons.Grant(c.UserContext(), req.Customer, req.Title, amount)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.coupons.grant", map[string]any{"coupon_id": id, "customer": req.Customer})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// DELETE /api/admin/customers/:id
func (h *AdminHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Accounts.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.customers.delete", map[string]any{"customer_id": id})
	return message(c, fiber.StatusOK, "Customer deleted.")
}
