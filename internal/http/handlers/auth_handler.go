package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
	"gotier/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("body", "Username and password are required.")
	}
	username, ok := validate.Username(req.Username)
	if !ok || req.Password == "" || len(req.Password) > 128 {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "invalid_input"})
		return message(c, fiber.StatusUnauthorized, domain.ReasonBadCredentials)
	}

	tok, exp, cust, err := h.Auth.Login(c.UserContext(), username, req.Password)
	if err != nil {
		if domain.IsKind(err, domain.KindAuthorization) {
			applog.Security(c, "auth.login.fail", map[string]any{"username": username})
			return message(c, fiber.StatusUnauthorized, domain.ReasonBadCredentials)
		}
		return err
	}
	c.Locals(localCustomer, cust.ID)
	applog.Audit(c, "auth.login.success", map[string]any{"staff": cust.IsStaff})
	return c.JSON(fiber.Map{
		"access":     tok,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}
