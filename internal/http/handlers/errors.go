package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/validate"
)

const genericMessage = "Something went wrong."

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindBusinessRule, domain.KindAuthorization:
		return fiber.StatusForbidden
	case domain.KindRateLimit:
		return fiber.StatusTooManyRequests
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindRejectedContent:
		return fiber.StatusUnprocessableEntity
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindAuthentication:
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the app-wide fiber error handler. Domain rejections carry
// their reason to the client; anything else is logged and hidden.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if de, ok := domain.AsError(err); ok {
		status := statusFor(de.Kind)
		c.Status(status)
		fields := map[string]any{"kind": de.Kind.String(), "reason": de.Reason}
		if de.Field != "" {
			fields["field"] = de.Field
		}
		switch de.Kind {
		case domain.KindAuthorization, domain.KindAuthentication:
			applog.Security(c, "request.denied", fields)
		case domain.KindRateLimit:
			applog.Security(c, "request.capped", fields)
		default:
			applog.Info(c, "request.rejected", fields)
		}
		return message(c, status, de.Reason)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		c.Status(fe.Code)
		applog.Info(c, "request.http_error", map[string]any{"code": fe.Code})
		return message(c, fe.Code, fe.Message)
	}

	c.Status(fiber.StatusInternalServerError)
	applog.Error(c, "server.error", err, nil)
	return message(c, fiber.StatusInternalServerError, genericMessage)
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, ok := validate.ID(c.Params(name))
	if !ok {
		return 0, domain.Validation(name, "Invalid "+name+".")
	}
	return id, nil
}
