package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
)

type CustomerHandler struct {
	Customers *services.CustomerService
}

// POST /api/customers
func (h *CustomerHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("body", "Malformed registration.")
	}
	id, err := h.Customers.Register(c.UserContext(), in)
	if err != nil {
		if domain.IsKind(err, domain.KindRejectedContent) {
			applog.Security(c, "customer.username.rejected", nil)
		}
		return err
	}
	c.Locals(localCustomer, id)
	applog.Audit(c, "customer.register", nil)
	return message(c, fiber.StatusCreated, "Account created successfully.")
}

// GET /api/customers/me
func (h *CustomerHandler) Me(c *fiber.Ctx) error {
	cust, err := h.Customers.Profile(c.UserContext(), customerID(c))
	if err != nil {
		return err
	}
	return c.JSON(cust)
}

// PUT /api/customers/me
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in services.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return domain.Validation("body", "Malformed account update.")
	}
	cust, err := h.Customers.Update(c.UserContext(), customerID(c), in)
	if err != nil {
		switch {
		case domain.IsKind(err, domain.KindAuthentication):
			applog.Security(c, "customer.update.bad_password", nil)
		case domain.IsKind(err, domain.KindRejectedContent):
			applog.Security(c, "customer.username.rejected", nil)
		}
		return err
	}
	applog.Audit(c, "customer.update", map[string]any{
		"email_changed":    in.Email != "",
		"password_changed": in.NewPassword != "",
	})
	return c.JSON(fiber.Map{"message": "Account information successfully updated.", "customer": cust})
}

// DELETE /api/customers/me
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return domain.Validation("password", "Password is required.")
	}
	if err := h.Customers.DeleteSelf(c.UserContext(), customerID(c), req.Password); err != nil {
		if domain.IsKind(err, domain.KindAuthentication) {
			applog.Security(c, "customer.delete.bad_password", nil)
		}
		return err
	}
	applog.Audit(c, "customer.delete", nil)
	return message(c, fiber.StatusOK, "Account successfully deleted.")
}

// GET /api/customers/me/reactions
func (h *CustomerHandler) Reactions(c *fiber.Ctx) error {
	r, err := h.Customers.Reactions(c.UserContext(), customerID(c))
	if err != nil {
		return err
	}
	return c.JSON(r)
}
