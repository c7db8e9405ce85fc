package handlers_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"gotier/internal/domain"
	"gotier/internal/http/handlers"
)

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	logs := observeLogs(t)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})

	r := do(t, app, fiber.MethodGet, "/err", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, r.Status)
	assert.Equal(t, "Something went wrong.", r.Message())
	assert.NotContains(t, string(r.Body), "secret")

	entries := logs.FilterMessage("server.error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "db timeout: secret trace", entries[0].ContextMap()["err"])
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	observeLogs(t)
	cases := []struct {
		err  error
		want int
	}{
		{domain.Validation("x", "bad"), fiber.StatusBadRequest},
		{domain.BusinessRule("no"), fiber.StatusForbidden},
		{domain.Unauthorized("staff only"), fiber.StatusForbidden},
		{domain.RateLimit("slow down"), fiber.StatusTooManyRequests},
		{domain.NotFound("gone"), fiber.StatusNotFound},
		{domain.Rejected("content", "nope"), fiber.StatusUnprocessableEntity},
		{domain.Conflict("taken"), fiber.StatusConflict},
		{domain.Unauthenticated("wrong password"), fiber.StatusUnauthorized},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return err })

		resp, terr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, terr)
		assert.Equal(t, tc.want, resp.StatusCode, err.Error())
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app := newTestApp(t)
	r := do(t, app, fiber.MethodGet, "/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, r.Status)
	assert.Equal(t, "Not found.", r.Message())

	r = do(t, app, fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, fiber.StatusOK, r.Status)
}
