package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestInputValidation(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)
	alice := login(t, app, "alice")

	bigQty := orderBody(1)
	bigQty["products"] = []map[string]any{{"id": 1, "quantity": 11}}
	noAddress := orderBody(1)
	noAddress["address"] = "   "

	cases := []struct {
		name, method, path string
		body               any
	}{
		{"product id", fiber.MethodGet, "/api/products/abc", nil},
		{"is_gamer flag", fiber.MethodGet, "/api/products?is_gamer=maybe", nil},
		{"search terms", fiber.MethodGet, "/api/search/%3Cscript%3E", nil},
		{"search order", fiber.MethodGet, "/api/search/lenovo?order_by=rowid", nil},
		{"favorite ids", fiber.MethodDelete, "/api/favorites/1,x", nil},
		{"order id", fiber.MethodPut, "/api/purchases/not-a-uuid", map[string]string{"notes": "hi"}},
		{"quantity", fiber.MethodPost, "/api/purchases", bigQty},
		{"blank address", fiber.MethodPost, "/api/purchases", noAddress},
		{"empty order", fiber.MethodPost, "/api/purchases", orderBody()},
		{"rating", fiber.MethodPost, "/api/reviews/1", map[string]any{"rating": 4.3, "content": "Solid laptop overall"}},
		{"short content", fiber.MethodPost, "/api/reviews/1", map[string]any{"rating": 4, "content": "ok"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := do(t, app, tc.method, tc.path, alice, tc.body)
			assert.Equal(t, fiber.StatusBadRequest, r.Status, string(r.Body))
			assert.NotEmpty(t, r.Message())
		})
	}
	assert.True(t, hasAction(logs, "validation.fail"))
}

func TestReviewContentRejected(t *testing.T) {
	logs := observeLogs(t)
	app := newTestApp(t)
	alice := login(t, app, "alice")

	r := do(t, app, fiber.MethodPost, "/api/reviews/1", alice, map[string]any{"rating": 4.5, "content": "<b>great laptop</b>"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, r.Status)
	assert.True(t, hasAction(logs, "review.content.rejected"))

	r = do(t, app, fiber.MethodPost, "/api/reviews/1", alice, map[string]any{"rating": 4.5, "content": "Great laptop for work"})
	assert.Equal(t, fiber.StatusCreated, r.Status, string(r.Body))
	assert.Equal(t, "Review created successfully.", r.Message())

	r = do(t, app, fiber.MethodPost, "/api/reviews/1", alice, map[string]any{"rating": 3, "content": "Changed my mind about it"})
	assert.Equal(t, fiber.StatusForbidden, r.Status)
}
