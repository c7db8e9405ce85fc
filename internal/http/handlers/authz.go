package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
)

const (
	localCustomer = "customer_id"
	localStaff    = "staff"
)

// RequireCustomer verifies the bearer token and stores the customer id in Locals.
func RequireCustomer(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			applog.Security(c, "access.denied.token", map[string]any{"reason": "missing"})
			return message(c, fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}
		id, err := auth.Identify(c.UserContext(), strings.TrimSpace(raw))
		if errors.Is(err, services.ErrInvalidToken) {
			applog.Security(c, "access.denied.token", map[string]any{"reason": "invalid"})
			return message(c, fiber.StatusUnauthorized, "Given token not valid for any token type.")
		}
		if err != nil {
			return err
		}
		c.Locals(localCustomer, id.CustomerID)
		c.Locals(localStaff, id.Staff)
		return c.Next()
	}
}

// RequireStaff must run after RequireCustomer.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if staff, _ := c.Locals(localStaff).(bool); !staff {
			applog.Security(c, "access.denied.admin", nil)
			return domain.Unauthorized(domain.ReasonStaffOnly)
		}
		return c.Next()
	}
}

func customerID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localCustomer).(int64)
	return id
}
