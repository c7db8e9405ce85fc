package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
	"gotier/internal/validate"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

type orderRequest struct {
	Products      []services.LineItem `json:"products"`
	PaymentMethod string              `json:"payment_method"`
	Country       string              `json:"country"`
	City          string              `json:"city"`
	Address       string              `json:"address"`
	Notes         string              `json:"notes"`
	CouponID      *int64              `json:"coupon_id"`
}

// POST /api/purchases
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return domain.Validation("body", "Malformed order request.")
	}
	res, err := h.Checkout.CreateOrder(c.UserContext(), services.CreateOrderCommand{
		CustomerID:    customerID(c),
		Lines:         req.Products,
		PaymentMethod: req.PaymentMethod,
		Country:       req.Country,
		City:          req.City,
		Address:       req.Address,
		Notes:         req.Notes,
		CouponID:      req.CouponID,
	})
	if err != nil {
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.OrderID,
		"paid":     res.Quote.Total.StringFixed(2),
		"clamped":  res.Quote.Clamped,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Order created successfully.",
		"order_id":      res.OrderID,
		"paid":          res.Quote.Total.StringFixed(2),
		"delivery_term": res.DeliveryTerm,
	})
}

// GET /api/purchases
func (h *OrderHandler) History(c *fiber.Ctx) error {
	rows, err := h.Orders.ListPurchaseHistory(c.UserContext(), customerID(c))
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// GET /api/purchases/:order_item_id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, err := paramID(c, "order_item_id")
	if err != nil {
		return err
	}
	row, err := h.Orders.GetPurchase(c.UserContext(), customerID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(row)
}

func orderIDParam(c *fiber.Ctx) (string, error) {
	id, ok := validate.OrderID(c.Params("order_id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "order_id"})
		return "", domain.Validation("order_id", "Invalid order_id.")
	}
	return id, nil
}

// PUT /api/purchases/:order_id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var patch services.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return domain.Validation("body", "Malformed order update.")
	}
	if _, err := h.Orders.UpdateOrder(c.UserContext(), id, customerID(c), patch); err != nil {
		return err
	}
	applog.Audit(c, "order.update", map[string]any{"order_id": id})
	return message(c, fiber.StatusOK, "Order updated successfully.")
}

// DELETE /api/purchases/:order_id
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	if err := h.Orders.CancelOrder(c.UserContext(), id, customerID(c)); err != nil {
		return err
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": id})
	return message(c, fiber.StatusOK, "Order successfully canceled.")
}
