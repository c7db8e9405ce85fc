package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"gotier/internal/domain"
	applog "gotier/internal/log"
	"gotier/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /api/reviews/:product_id
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	rows, err := h.Reviews.List(c.UserContext(), pid)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

func reviewBody(c *fiber.Ctx) (services.ReviewInput, error) {
	var in services.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return in, domain.Validation("body", "Malformed review.")
	}
	return in, nil
}

// POST /api/reviews/:product_id
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	in, err := reviewBody(c)
	if err != nil {
		return err
	}
	id, err := h.Reviews.Create(c.UserContext(), customerID(c), pid, in)
	if err != nil {
		if domain.IsKind(err, domain.KindRejectedContent) {
			applog.Security(c, "review.content.rejected", map[string]any{"product_id": pid})
		}
		return err
	}
	applog.Audit(c, "review.create", map[string]any{"product_id": pid, "review_id": id})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review created successfully.", "id": id})
}

// PUT /api/reviews/:product_id
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	in, err := reviewBody(c)
	if err != nil {
		return err
	}
	rv, err := h.Reviews.Update(c.UserContext(), customerID(c), pid, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "review.update", map[string]any{"review_id": rv.ID})
	return message(c, fiber.StatusOK, "Review sucessfully updated.")
}

// DELETE /api/reviews/:product_id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	pid, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Reviews.Delete(c.UserContext(), customerID(c), pid); err != nil {
		return err
	}
	applog.Audit(c, "review.delete", map[string]any{"product_id": pid})
	return message(c, fiber.StatusOK, "Review successfully deleted.")
}

func (h *ReviewHandler) Like(c *fiber.Ctx) error {
	return h.react(c, "review.like", h.Reviews.Like)
}

func (h *ReviewHandler) Dislike(c *fiber.Ctx) error {
	return h.react(c, "review.dislike", h.Reviews.Dislike)
}

func (h *ReviewHandler) Report(c *fiber.Ctx) error {
	return h.react(c, "review.report", h.Reviews.Report)
}

type reaction func(ctx context.Context, customerID, reviewID int64) (services.ReactionResult, error)

// react serves POST /api/reviews/:review_id/{like,dislike,report}.
func (h *ReviewHandler) react(c *fiber.Ctx, action string, fn reaction) error {
	rid, err := paramID(c, "review_id")
	if err != nil {
		return err
	}
	res, err := fn(c.UserContext(), customerID(c), rid)
	if err != nil {
		return err
	}
	applog.Audit(c, action, map[string]any{"review_id": rid})
	return c.JSON(res)
}
